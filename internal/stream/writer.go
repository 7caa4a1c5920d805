package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"enchanted-day/backend/internal/model"
)

// Writer emits StreamEvents as server-sent event frames.
type Writer struct {
	w       io.Writer
	flusher http.Flusher
}

// NewWriter wraps w. If w is an http.Flusher every frame is flushed as soon as
// it is written.
func NewWriter(w io.Writer) *Writer {
	f, _ := w.(http.Flusher)
	return &Writer{w: w, flusher: f}
}

// SetHeaders prepares an HTTP response for streaming.
func SetHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// WriteEvent writes a single `data: <json>` frame. A write failure usually
// means the client went away.
func (sw *Writer) WriteEvent(ev model.StreamEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal stream event: %w", err)
	}
	return sw.writeFrame(payload)
}

// WriteDone writes the [DONE] sentinel frame.
func (sw *Writer) WriteDone() error {
	return sw.writeFrame([]byte(doneMarker))
}

func (sw *Writer) writeFrame(payload []byte) error {
	if _, err := fmt.Fprintf(sw.w, "%s%s\n\n", dataPrefix, payload); err != nil {
		return fmt.Errorf("failed to write data to stream: %w", err)
	}
	if sw.flusher != nil {
		sw.flusher.Flush()
	}
	return nil
}
