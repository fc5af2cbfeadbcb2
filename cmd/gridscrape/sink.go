package main

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/fwojciec/gridscrape"
	"golang.org/x/sync/errgroup"
)

// Ensure JSONWriter implements gridscrape.ModuleWriter at compile time.
var _ gridscrape.ModuleWriter = (*JSONWriter)(nil)

// JSONWriter prints modules as JSON Lines.
type JSONWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONWriter returns a JSONWriter writing to w.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{enc: json.NewEncoder(w)}
}

// SaveModule writes m as a single line.
func (w *JSONWriter) SaveModule(_ context.Context, m *gridscrape.Module) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(m)
}

// Ensure MultiWriter implements gridscrape.ModuleWriter at compile time.
var _ gridscrape.ModuleWriter = (*MultiWriter)(nil)

// MultiWriter saves each module to every wrapped writer concurrently.
type MultiWriter struct {
	writers []gridscrape.ModuleWriter
}

// NewMultiWriter returns a MultiWriter over writers.
func NewMultiWriter(writers ...gridscrape.ModuleWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// SaveModule returns the first error reported by any writer.
func (w *MultiWriter) SaveModule(ctx context.Context, m *gridscrape.Module) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, writer := range w.writers {
		g.Go(func() error {
			return writer.SaveModule(ctx, m)
		})
	}
	return g.Wait()
}
