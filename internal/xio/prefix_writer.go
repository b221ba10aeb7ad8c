package xio

import (
	"bytes"
	"io"
)

func NewPrefixWriter(w io.Writer, prefix []byte) *PrefixWriter {
	return &PrefixWriter{
		w:      w,
		prefix: bytes.Clone(prefix),
	}
}

// PrefixWriter prepends a fixed prefix to every write. Wrap it in a
// LineWriter to get a prefix per output line. The prefix is copied, a
// writer never shares memory with its caller and stays safe when
// multiple writers are built from the same prefix slice.
type PrefixWriter struct {
	w      io.Writer
	prefix []byte
}

func (w *PrefixWriter) Write(p []byte) (int, error) {
	line := make([]byte, 0, len(w.prefix)+len(p))
	line = append(line, w.prefix...)
	line = append(line, p...)

	_, err := w.w.Write(line)
	return len(p), err
}
