// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teewriter

import (
	"bytes"
	"strings"
	"sync"
	"unicode/utf8"
)

// DefaultMaxBufferSize bounds the output a LastLineWriter keeps.
const DefaultMaxBufferSize = 8 * 1024 * 1024 // 8MB

// LastLineWriter captures all data written to it, up to a maximum size, and tracks the
// last complete line. It is safe for concurrent use.
type LastLineWriter struct {
	mu        sync.RWMutex
	full      bytes.Buffer
	partial   strings.Builder
	lastLine  string
	maxSize   int
	truncated bool
	onLine    func(line string)
}

// LastLineOption configures a LastLineWriter.
type LastLineOption func(*LastLineWriter)

// WithMaxSize limits how many bytes are retained. Data beyond the limit is counted as written but discarded.
func WithMaxSize(n int) LastLineOption {
	return func(w *LastLineWriter) {
		w.maxSize = n
	}
}

// WithLineCallback registers fn to be called, without the lock held, for every complete line.
func WithLineCallback(fn func(line string)) LastLineOption {
	return func(w *LastLineWriter) {
		w.onLine = fn
	}
}

// NewLastLineWriter creates an empty LastLineWriter.
func NewLastLineWriter(opts ...LastLineOption) *LastLineWriter {
	w := &LastLineWriter{maxSize: DefaultMaxBufferSize}
	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write implements io.Writer. It never returns an error.
func (w *LastLineWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	w.mu.Lock()

	if room := w.maxSize - w.full.Len(); room < len(p) {
		w.truncated = true
		if room > 0 {
			w.full.Write(p[:room])
		}
	} else {
		w.full.Write(p)
	}

	lines := w.processNewData(string(p))
	w.mu.Unlock()

	if w.onLine != nil {
		for _, l := range lines {
			w.onLine(l)
		}
	}

	return len(p), nil
}

// processNewData updates the last line and returns the lines completed by data.
// A carriage return ends a redrawn line, so only the text after the last one is kept as partial,
// capped to the trailing maxSize bytes.
// Must be called with the write lock held.
func (w *LastLineWriter) processNewData(data string) []string {
	w.partial.WriteString(data)

	if !strings.ContainsAny(data, "\r\n") && w.partial.Len() <= w.maxSize {
		return nil
	}

	pending := w.partial.String()

	var complete []string

	if i := strings.LastIndexByte(pending, '\n'); i >= 0 {
		complete = strings.Split(pending[:i], "\n")
		pending = pending[i+1:]

		for j := len(complete) - 1; j >= 0; j-- {
			if l := visible(complete[j]); strings.TrimSpace(l) != "" {
				w.lastLine = l
				break
			}
		}
	}

	if i := strings.LastIndexByte(pending, '\r'); i >= 0 {
		if l := visible(pending[:i]); strings.TrimSpace(l) != "" {
			w.lastLine = l
		}

		pending = pending[i+1:]
	}

	if len(pending) > w.maxSize {
		w.truncated = true
		pending = pending[len(pending)-max(w.maxSize, 0):]

		for len(pending) > 0 && !utf8.RuneStart(pending[0]) {
			pending = pending[1:]
		}
	}

	w.partial.Reset()
	w.partial.WriteString(pending)

	return complete
}

// visible returns what a terminal shows for line: the text after its last carriage return.
func visible(line string) string {
	line = strings.TrimRight(line, "\r")
	if i := strings.LastIndexByte(line, '\r'); i >= 0 {
		return line[i+1:]
	}

	return line
}

// LastLine returns the last non-blank complete line, truncated to maxLength runes
// with a trailing "..." when maxLength > 3 and the line is longer.
func (w *LastLineWriter) LastLine(maxLength int) string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return Truncate(w.lastLine, maxLength)
}

// PartialLine returns data written after the last newline or carriage return,
// limited to the trailing maxSize bytes.
func (w *LastLineWriter) PartialLine() string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.partial.String()
}

// Bytes returns a copy of the captured output.
func (w *LastLineWriter) Bytes() []byte {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return bytes.Clone(w.full.Bytes())
}

// Truncated reports whether output was discarded because the maximum size was reached.
func (w *LastLineWriter) Truncated() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.truncated
}

// Truncate shortens s to at most maxLength runes, ending in "...". maxLength <= 3 disables truncation.
func Truncate(s string, maxLength int) string {
	const ellipsis = "..."

	r := []rune(s)
	if maxLength <= len(ellipsis) || len(r) <= maxLength {
		return s
	}

	return string(r[:maxLength-len(ellipsis)]) + ellipsis
}
