// Package trace emits a newline-delimited JSON event log of pipeline
// stages, one record per stage transition, for offline inspection of a
// scenario run.
package trace

import (
	"io"
	"sync"
	"time"

	"github.com/francoispqt/gojay"
)

// Event is one pipeline stage record.
type Event struct {
	TimeMs float64 // milliseconds since the writer was created
	Stage  string  // e.g. "source", "huffman_encode", "bsc"
	Msg    string
	Bytes  int64 // artifact size after the stage, when meaningful
}

func (e *Event) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Float64Key("t_ms", e.TimeMs)
	enc.StringKey("stage", e.Stage)
	enc.StringKeyOmitEmpty("msg", e.Msg)
	enc.Int64KeyOmitEmpty("bytes", e.Bytes)
}

func (e *Event) IsNil() bool { return e == nil }

// Writer serializes events to an io.Writer as NDJSON. A nil-target writer
// discards everything, so callers can trace unconditionally. Emit is safe
// for concurrent use; one event is one write.
type Writer struct {
	mu    sync.Mutex
	w     io.Writer
	start time.Time
}

// New creates a writer. Pass nil to discard events.
func New(w io.Writer) *Writer {
	return &Writer{w: w, start: time.Now()}
}

// Nop returns a writer that discards all events.
func Nop() *Writer { return &Writer{} }

// Emit records one stage event. Errors are returned but safe to ignore;
// tracing never gates the pipeline.
func (t *Writer) Emit(stage, msg string, nbytes int) error {
	if t == nil || t.w == nil {
		return nil
	}
	e := &Event{
		TimeMs: float64(time.Since(t.start).Microseconds()) / 1000,
		Stage:  stage,
		Msg:    msg,
		Bytes:  int64(nbytes),
	}
	b, err := gojay.MarshalJSONObject(e)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err = t.w.Write(b)
	return err
}
