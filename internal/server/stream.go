package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/disintegration/imaging"
)

// streamInterval paces the MJPEG stream at about 15 FPS.
const streamInterval = 66 * time.Millisecond

// maxSnapshotWidth bounds the width accepted by the snapshot endpoint.
const maxSnapshotWidth = 1920

// StreamHandler serves the game's annotated frames as MJPEG.
type StreamHandler struct {
	game Game
}

// NewStreamHandler creates a new StreamHandler reading frames from g.
func NewStreamHandler(g Game) *StreamHandler {
	return &StreamHandler{game: g}
}

// ServeHTTP streams frames until the client disconnects.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		jpeg, ok := h.game.LatestFrame()
		if !ok {
			continue
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(jpeg))
		if _, err := w.Write(jpeg); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}

// handleSnapshot returns the latest frame, optionally scaled to ?width=.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	jpeg, ok := s.config.Game.LatestFrame()
	if !ok {
		writeError(w, http.StatusNotFound, "no frame available")
		return
	}

	v := r.URL.Query().Get("width")
	if v == "" {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(jpeg)
		return
	}

	width, err := strconv.Atoi(v)
	if err != nil || width <= 0 || width > maxSnapshotWidth {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("width must be between 1 and %d", maxSnapshotWidth))
		return
	}

	img, err := imaging.Decode(bytes.NewReader(jpeg))
	if err != nil {
		s.logger.Error("decode frame", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to decode frame")
		return
	}

	var buf bytes.Buffer
	thumb := imaging.Resize(img, width, 0, imaging.Lanczos)
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		s.logger.Error("encode snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to encode snapshot")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(buf.Bytes())
}
