package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/handgame/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader_Defaults(t *testing.T) {
	convey.Convey("Given no config file and no env overrides", t, func() {
		t.Setenv(config.EnvFile, "")

		cfg, err := config.Load()

		convey.Convey("Then the defaults are used", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.HoldMS, convey.ShouldEqual, 1000)
			convey.So(cfg.MaxHands, convey.ShouldEqual, 1)
			convey.So(cfg.MinConfidence, convey.ShouldEqual, 0.7)
			convey.So(cfg.Mirror, convey.ShouldBeTrue)
			convey.So(cfg.WindowTitle, convey.ShouldEqual, "Rock, Paper, Scissors")
			convey.So(cfg.Addr, convey.ShouldBeEmpty)
			convey.So(cfg.Tray, convey.ShouldBeFalse)
		})
	})
}

func TestConfigLoader_Env(t *testing.T) {
	convey.Convey("Given environment overrides", t, func() {
		t.Setenv(config.EnvFile, "")
		t.Setenv("HANDGAME_HOLD_MS", "1500")
		t.Setenv("HANDGAME_CAMERA_ID", "2")
		t.Setenv("HANDGAME_MIRROR", "false")
		t.Setenv("HANDGAME_ADDR", "127.0.0.1:9090")
		t.Setenv("HANDGAME_SEED", "42")

		cfg, err := config.Load()

		convey.Convey("Then they override the defaults", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.HoldMS, convey.ShouldEqual, 1500)
			convey.So(cfg.CameraID, convey.ShouldEqual, 2)
			convey.So(cfg.Mirror, convey.ShouldBeFalse)
			convey.So(cfg.Addr, convey.ShouldEqual, "127.0.0.1:9090")
			convey.So(cfg.Seed, convey.ShouldEqual, uint64(42))
		})
	})
}

func TestConfigLoader_File(t *testing.T) {
	convey.Convey("Given a YAML config file", t, func() {
		path := filepath.Join(t.TempDir(), "handgame.yaml")
		yaml := "hold_ms: 800\nwindow_title: RPS\ntray: true\nkey_delay_ms: 10\n"
		convey.So(os.WriteFile(path, []byte(yaml), 0o644), convey.ShouldBeNil)
		t.Setenv(config.EnvFile, path)

		convey.Convey("When env does not override", func() {
			cfg, err := config.Load()

			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.HoldMS, convey.ShouldEqual, 800)
			convey.So(cfg.WindowTitle, convey.ShouldEqual, "RPS")
			convey.So(cfg.Tray, convey.ShouldBeTrue)
			convey.So(cfg.KeyDelayMS, convey.ShouldEqual, 10)
			convey.So(cfg.FrameWidth, convey.ShouldEqual, 640)
		})

		convey.Convey("When env overrides the file", func() {
			t.Setenv("HANDGAME_HOLD_MS", "1200")

			cfg, err := config.Load()

			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.HoldMS, convey.ShouldEqual, 1200)
		})
	})
}

func TestConfigLoader_Errors(t *testing.T) {
	convey.Convey("Given a missing config file", t, func() {
		t.Setenv(config.EnvFile, filepath.Join(t.TempDir(), "missing.yaml"))

		_, err := config.Load()

		convey.Convey("Then loading fails", func() {
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given an out of range value", t, func() {
		t.Setenv(config.EnvFile, "")
		t.Setenv("HANDGAME_MIN_CONFIDENCE", "1.5")

		_, err := config.Load()

		convey.Convey("Then validation fails", func() {
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
