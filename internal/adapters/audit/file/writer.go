package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fulviofreitas/eero-exporter/internal/services/audit"
)

// Writer appends cycle events to a local newline-delimited JSON file. The
// file is created on first write with owner-only permissions.
type Writer struct {
	path string
	mu   sync.Mutex
}

// New creates a Writer that records every event at the provided path.
func New(path string) *Writer {
	return &Writer{path: path}
}

// Notify marshals the event and appends it as one NDJSON line.
func (w *Writer) Notify(_ context.Context, evt audit.Event) (retErr error) {
	if w == nil || w.path == "" {
		return nil
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create audit dir: %w", err)
		}
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && retErr == nil {
			retErr = fmt.Errorf("close audit file: %w", cerr)
		}
	}()

	if _, err := f.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write audit file: %w", err)
	}
	return nil
}
