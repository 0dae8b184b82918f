package display

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/handgame/internal/detector"
	"github.com/ayusman/handgame/internal/game"
)

// Overlay colors. OpenCV draws in BGR; gocv takes RGBA and swaps.
var (
	ColorBlue   = color.RGBA{R: 0, G: 0, B: 255, A: 0}
	ColorYellow = color.RGBA{R: 255, G: 255, B: 0, A: 0}
	ColorGreen  = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	ColorWhite  = color.RGBA{R: 255, G: 255, B: 255, A: 0}
	ColorRed    = color.RGBA{R: 255, G: 0, B: 0, A: 0}
)

const (
	fontScale      = 1.0
	scoreFontScale = 0.7
	textThickness  = 2
)

// Text lines shown on the frame.
const (
	HoldPrompt  = "Hold your gesture steady..."
	RestartHint = "Press 'r' to Restart or 'q' to Quit"
)

// Line is one piece of overlay text.
type Line struct {
	Text   string
	Origin image.Point
	Color  color.RGBA
	Scale  float64
}

// StatusLines lays out the overlay text for the round. The score sits on the
// bottom edge of a frame frameHeight pixels tall.
func StatusLines(s game.State, score game.Score, frameHeight int) []Line {
	var lines []Line

	switch s.Phase {
	case game.Holding:
		lines = append(lines, Line{Text: HoldPrompt, Origin: image.Pt(10, 50), Color: ColorYellow, Scale: fontScale})
	case game.Resolved:
		lines = append(lines,
			Line{Text: s.Result.Summary(), Origin: image.Pt(10, 100), Color: ColorBlue, Scale: fontScale},
			Line{Text: "Winner: " + s.Result.Outcome.Message(), Origin: image.Pt(10, 150), Color: ColorYellow, Scale: fontScale},
			Line{Text: RestartHint, Origin: image.Pt(10, 200), Color: ColorGreen, Scale: fontScale},
		)
	}

	if score.Rounds() > 0 && frameHeight > 0 {
		text := fmt.Sprintf("You %d - %d Computer  (ties %d)", score.Wins, score.Losses, score.Ties)
		lines = append(lines, Line{Text: text, Origin: image.Pt(10, frameHeight-20), Color: ColorWhite, Scale: scoreFontScale})
	}

	return lines
}

// DrawStatus renders lines onto frame. It stops at the first failed draw.
func DrawStatus(frame *gocv.Mat, lines []Line) error {
	for _, l := range lines {
		if err := gocv.PutText(frame, l.Text, l.Origin, gocv.FontHersheySimplex, l.Scale, l.Color, textThickness); err != nil {
			return fmt.Errorf("draw %q: %w", l.Text, err)
		}
	}
	return nil
}

// DrawHands draws the skeleton of every hand. Landmarks are normalized, so
// they are scaled to the frame size here.
func DrawHands(frame *gocv.Mat, hands []detector.HandLandmarks) error {
	w, h := frame.Cols(), frame.Rows()
	for i := range hands {
		pts := pixelPoints(&hands[i], w, h)
		for _, c := range detector.HandConnections {
			if err := gocv.Line(frame, pts[c.From], pts[c.To], ColorWhite, 2); err != nil {
				return fmt.Errorf("draw bone %d-%d: %w", c.From, c.To, err)
			}
		}
		for j, p := range pts {
			if err := gocv.Circle(frame, p, 4, ColorRed, -1); err != nil {
				return fmt.Errorf("draw landmark %d: %w", j, err)
			}
		}
	}
	return nil
}

func pixelPoints(hand *detector.HandLandmarks, w, h int) [detector.NumLandmarks]image.Point {
	var out [detector.NumLandmarks]image.Point
	for i, p := range hand.Points {
		out[i] = image.Pt(int(p.X*float64(w)), int(p.Y*float64(h)))
	}
	return out
}
