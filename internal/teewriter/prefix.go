// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teewriter

import (
	"bytes"
	"io"
	"sync"
)

// SyncWriter serialises writes to an underlying writer.
type SyncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSyncWriter wraps w. If w is already a *SyncWriter it is returned unchanged.
func NewSyncWriter(w io.Writer) *SyncWriter {
	if sw, ok := w.(*SyncWriter); ok {
		return sw
	}

	return &SyncWriter{w: w}
}

// Write implements io.Writer.
func (s *SyncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.w.Write(p) //nolint:wrapcheck
}

// PrefixWriter writes each complete line to dst in a single call, preceded by prefix.
// Incomplete lines are held until a newline arrives or Flush is called.
type PrefixWriter struct {
	mu     sync.Mutex
	dst    io.Writer
	prefix []byte
	buf    bytes.Buffer
}

// NewPrefixWriter creates a PrefixWriter.
func NewPrefixWriter(dst io.Writer, prefix string) *PrefixWriter {
	return &PrefixWriter{dst: dst, prefix: []byte(prefix)}
}

// Write implements io.Writer.
func (p *PrefixWriter) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.buf.Write(b)

	for {
		i := bytes.IndexByte(p.buf.Bytes(), '\n')
		if i < 0 {
			return len(b), nil
		}

		line := p.buf.Next(i + 1)
		if err := p.emit(line); err != nil {
			return len(b), err
		}
	}
}

// Flush writes any incomplete line, followed by a newline.
func (p *PrefixWriter) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.buf.Len() == 0 {
		return nil
	}

	line := append(p.buf.Bytes(), '\n')
	p.buf.Reset()

	return p.emit(line)
}

func (p *PrefixWriter) emit(line []byte) error {
	out := make([]byte, 0, len(p.prefix)+len(line))
	out = append(out, p.prefix...)
	out = append(out, line...)

	_, err := p.dst.Write(out)

	return err //nolint:wrapcheck
}
