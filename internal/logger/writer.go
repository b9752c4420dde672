package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// lineWriter fans complete log lines out to one or more buffered sinks.
// Writes are serialized with a mutex so handler output never interleaves.
type lineWriter struct {
	mu     sync.Mutex
	sinks  []*bufio.Writer
	failed error
}

func newLineWriter(writers []io.Writer, bufSize int) *lineWriter {
	if bufSize <= 0 {
		bufSize = 32 * 1024
	}
	w := &lineWriter{}
	for _, out := range writers {
		if out == nil {
			continue
		}
		w.sinks = append(w.sinks, bufio.NewWriterSize(out, bufSize))
	}
	return w
}

// Write delivers one formatted line to every sink. The first sink error is
// sticky and reported on subsequent calls.
func (w *lineWriter) Write(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failed != nil {
		return w.failed
	}
	for _, sink := range w.sinks {
		if _, err := sink.Write(p); err != nil {
			w.failed = err
			return err
		}
	}
	return nil
}

// Flush forces buffered content out to the underlying writers.
func (w *lineWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	if w.failed != nil {
		errs = append(errs, w.failed)
	}
	for _, sink := range w.sinks {
		if err := sink.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close flushes all sinks; closing the underlying files is the caller's job.
func (w *lineWriter) Close() error {
	return w.Flush()
}
