// Package logging provides the debug log sink: a size-capped file that
// rotates in place, keeping a fixed number of numbered backups.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	defaultMaxBytes = 10 * 1024 * 1024
	defaultBackups  = 3
)

// RotatingFile is an io.WriteCloser that starts a fresh file once the
// current one exceeds the size cap. Old files are kept as path.1..path.N,
// newest first.
type RotatingFile struct {
	path     string
	maxBytes int64
	backups  int

	mu      sync.Mutex
	file    *os.File
	written int64
}

type Option func(*RotatingFile)

// WithMaxBytes caps the size of the active log file.
func WithMaxBytes(n int64) Option {
	return func(r *RotatingFile) {
		r.maxBytes = n
	}
}

// WithBackups sets how many rotated files are kept.
func WithBackups(n int) Option {
	return func(r *RotatingFile) {
		r.backups = n
	}
}

// NewRotatingFile opens (or creates) the log file at path, creating parent
// directories as needed.
func NewRotatingFile(path string, opts ...Option) (*RotatingFile, error) {
	r := &RotatingFile{
		path:     path,
		maxBytes: defaultMaxBytes,
		backups:  defaultBackups,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RotatingFile) open() error {
	file, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return err
	}
	r.file = file
	r.written = info.Size()
	return nil
}

func (r *RotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.written+int64(len(p)) > r.maxBytes {
		if err := r.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := r.file.Write(p)
	r.written += int64(n)
	return n, err
}

func (r *RotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

// rotate shifts path.N-1 -> path.N down the chain, moves the active file to
// path.1, and opens a fresh one.
func (r *RotatingFile) rotate() error {
	if err := r.file.Close(); err != nil {
		return err
	}

	_ = os.Remove(fmt.Sprintf("%s.%d", r.path, r.backups))
	for i := r.backups - 1; i >= 1; i-- {
		_ = os.Rename(fmt.Sprintf("%s.%d", r.path, i), fmt.Sprintf("%s.%d", r.path, i+1))
	}
	if err := os.Rename(r.path, r.path+".1"); err != nil && !os.IsNotExist(err) {
		return err
	}

	r.written = 0
	return r.open()
}
