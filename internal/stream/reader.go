package stream

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"enchanted-day/backend/internal/model"
)

const (
	dataPrefix = "data: "
	doneMarker = "[DONE]"
)

// Reader turns a chat response body into a sequence of StreamEvents.
//
// Bytes are buffered until a line feed arrives, so frames (and multi-byte
// characters) split across network reads are reassembled before parsing. Only
// lines with the `data: ` prefix are considered; a `[DONE]` payload ends the
// stream and payloads that are not valid JSON are logged and skipped.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	body io.ReadCloser
	br   *bufio.Reader

	closeOnce sync.Once
	closeErr  error
	done      bool
	err       error
}

// NewReader wraps body. The Reader owns body from now on and closes it when the
// stream ends; callers abandoning the stream early must call Close.
func NewReader(body io.ReadCloser) *Reader {
	return &Reader{
		body: body,
		br:   bufio.NewReader(body),
	}
}

// Next returns the next event. It returns io.EOF once the body is exhausted or
// the [DONE] sentinel has been read. Any other error comes from the transport
// and is terminal.
func (r *Reader) Next() (model.StreamEvent, error) {
	for {
		if r.done {
			return model.StreamEvent{}, r.terminalErr()
		}

		line, readErr := r.br.ReadBytes('\n')
		if len(line) > 0 {
			ev, ok, stop := parseLine(line)
			if stop {
				r.finish(nil)
				return model.StreamEvent{}, io.EOF
			}
			if ok {
				if readErr != nil {
					r.finish(readErr)
				}
				return ev, nil
			}
		}

		if readErr != nil {
			r.finish(readErr)
		}
	}
}

// Close releases the underlying body. It is safe to call more than once and
// after the stream has already ended.
func (r *Reader) Close() error {
	r.closeOnce.Do(func() {
		r.closeErr = r.body.Close()
	})
	return r.closeErr
}

func (r *Reader) finish(err error) {
	r.done = true
	if err != nil && !errors.Is(err, io.EOF) {
		r.err = fmt.Errorf("failed to read chat stream: %w", err)
	}
	if cErr := r.Close(); cErr != nil {
		slog.Debug("Failed to close chat stream body", "error", cErr)
	}
}

func (r *Reader) terminalErr() error {
	if r.err != nil {
		return r.err
	}
	return io.EOF
}

// parseLine decodes one complete line. ok reports whether ev holds an event and
// stop reports the [DONE] sentinel.
func parseLine(line []byte) (ev model.StreamEvent, ok bool, stop bool) {
	trimmed := bytes.TrimSpace(line)
	payload, found := bytes.CutPrefix(trimmed, []byte(dataPrefix))
	if !found {
		return ev, false, false
	}
	if string(payload) == doneMarker {
		return ev, false, true
	}
	if err := json.Unmarshal(payload, &ev); err != nil {
		slog.Warn("Skipping malformed chat stream frame", "payload", string(payload), "error", err)
		return ev, false, false
	}
	return ev, true, false
}
