package mask

import (
	"bytes"
	"io"
	"sync"
)

var DefaultMask = []byte("***")

// Store keeps the run's secret material (key bytes, host names) and hands
// out writers which never let any of it through.
type Store struct {
	mu          sync.Mutex
	placeholder []byte
	secrets     [][]byte
}

func NewStore(placeholder []byte) *Store {
	if placeholder == nil {
		placeholder = DefaultMask
	}

	return &Store{
		placeholder: placeholder,
	}
}

func (s *Store) Add(secrets ...[]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, secret := range secrets {
		if len(secret) == 0 {
			continue
		}

		s.secrets = append(s.secrets, bytes.Clone(secret))
	}
}

func (s *Store) Writer(w io.Writer) io.Writer {
	return &maskedWriter{
		w:     w,
		store: s,
	}
}

type maskedWriter struct {
	w     io.Writer
	store *Store
}

func (w *maskedWriter) Write(b []byte) (int, error) {
	n := len(b)

	w.store.mu.Lock()
	for _, secret := range w.store.secrets {
		b = bytes.ReplaceAll(b, secret, w.store.placeholder)
	}
	w.store.mu.Unlock()

	_, err := w.w.Write(b)
	return n, err
}
