package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/handgame/internal/config"
)

func TestOpenHistory(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		st, id, err := openHistory(config.New().DBPath)
		if err != nil || st != nil || id != "" {
			t.Errorf("openHistory(default) = %v, %q, %v; want nil store", st, id, err)
		}
	})

	t.Run("unusable path is an error, not a panic", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(blocker, nil, 0o644); err != nil {
			t.Fatalf("write blocker: %v", err)
		}
		st, _, err := openHistory(filepath.Join(blocker, "history.db"))
		if err == nil || st != nil {
			t.Errorf("openHistory(under a file) = %v, %v; want error and nil store", st, err)
		}
	})

	t.Run("creates directories and a session", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")
		st, id, err := openHistory(path)
		if err != nil {
			t.Fatalf("openHistory() error = %v", err)
		}
		defer st.Close()

		if id == "" {
			t.Fatal("expected a session ID")
		}
		if st.Path() != path {
			t.Errorf("Path() = %q, want %q", st.Path(), path)
		}
		if _, err := st.Sessions().GetByID(id); err != nil {
			t.Errorf("GetByID() error = %v", err)
		}
	})
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := newLogger(tt.level)
			if !l.Enabled(context.Background(), tt.want) {
				t.Errorf("level %s should be enabled", tt.want)
			}
			if tt.want > slog.LevelDebug && l.Enabled(context.Background(), tt.want-1) {
				t.Errorf("level below %s should be disabled", tt.want)
			}
		})
	}
}
