package xio

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineWriter(t *testing.T) {
	tests := []struct {
		name     string
		writes   []string
		expected string
		buffered string
	}{
		{
			name:     "complete line is forwarded",
			writes:   []string{"compile-debug ok\n"},
			expected: "compile-debug ok\n",
		},
		{
			name:     "partial line is held back",
			writes:   []string{"unit-test "},
			expected: "",
			buffered: "unit-test ",
		},
		{
			name:     "split line is reassembled",
			writes:   []string{"udp-ping", "-pong passed\n"},
			expected: "udp-ping-pong passed\n",
		},
		{
			name:     "trailing partial stays buffered",
			writes:   []string{"line1\nline2\nline3"},
			expected: "line1\nline2\n",
			buffered: "line3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewLineWriter(&buf)

			for _, chunk := range tt.writes {
				n, err := w.Write([]byte(chunk))
				require.NoError(t, err)
				assert.Equal(t, len(chunk), n)
			}

			assert.Equal(t, tt.expected, buf.String())

			require.NoError(t, w.Flush())
			assert.Equal(t, tt.expected+tt.buffered, buf.String())
		})
	}
}

func TestPrefixWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewPrefixWriter(&buf, []byte("[server] "))

	n, err := w.Write([]byte("listening\n"))
	require.NoError(t, err)
	assert.Equal(t, len("listening\n"), n)
	assert.Equal(t, "[server] listening\n", buf.String())
}

func TestPrefixWriterPerLine(t *testing.T) {
	var buf bytes.Buffer
	w := NewLineWriter(NewPrefixWriter(&buf, []byte("[client] ")))

	_, err := w.Write([]byte("connect\ndone\n"))
	require.NoError(t, err)
	assert.Equal(t, "[client] connect\n[client] done\n", buf.String())
}

func TestPrefixWriterCopiesPrefix(t *testing.T) {
	prefix := []byte("[debug] ")
	var buf bytes.Buffer
	w := NewPrefixWriter(&buf, prefix)

	copy(prefix, []byte("XXXXXXXX"))

	_, err := w.Write([]byte("ok\n"))
	require.NoError(t, err)
	assert.Equal(t, "[debug] ok\n", buf.String())
}

// Stdout and stderr of a driver are pumped concurrently and both
// writers are built from the same prefix slice.
func TestPrefixWriterSharedPrefixConcurrent(t *testing.T) {
	prefix := []byte("[release] ")

	var stdout, stderr bytes.Buffer
	outputs := []struct {
		w   io.Writer
		buf *bytes.Buffer
	}{
		{NewLineWriter(NewPrefixWriter(&stdout, prefix)), &stdout},
		{NewLineWriter(NewPrefixWriter(&stderr, prefix)), &stderr},
	}

	var wg sync.WaitGroup
	for _, output := range outputs {
		wg.Add(1)
		go func(w io.Writer) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_, err := w.Write([]byte("ok\n"))
				assert.NoError(t, err)
			}
		}(output.w)
	}

	wg.Wait()

	expected := strings.Repeat("[release] ok\n", 200)
	assert.Equal(t, expected, stdout.String())
	assert.Equal(t, expected, stderr.String())
	assert.Equal(t, "[release] ", string(prefix))
}
