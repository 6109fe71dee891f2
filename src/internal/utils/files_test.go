package utils

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/maksimkurb/urlresolver/src/internal/log"
)

type mockCloser struct {
	shouldError bool
	closed      bool
}

func (m *mockCloser) Close() error {
	m.closed = true
	if m.shouldError {
		return io.ErrUnexpectedEOF
	}
	return nil
}

func TestCloseOrWarn_Success(t *testing.T) {
	var out bytes.Buffer
	restore := log.SetOutput(&out, &out)
	defer restore()

	mock := &mockCloser{}
	CloseOrWarn(mock)

	if !mock.closed {
		t.Error("Expected Close to be called")
	}
	if out.Len() != 0 {
		t.Errorf("Expected no warning, got %q", out.String())
	}
}

func TestCloseOrWarn_Error(t *testing.T) {
	var out bytes.Buffer
	restore := log.SetOutput(&out, &out)
	defer restore()

	mock := &mockCloser{shouldError: true}
	CloseOrWarn(mock)

	if !mock.closed {
		t.Error("Expected Close to be called")
	}
	if !strings.Contains(out.String(), "Failed to close file") {
		t.Errorf("Expected warning, got %q", out.String())
	}
}

func TestNopWriteCloser(t *testing.T) {
	var buf bytes.Buffer
	wc := NopWriteCloser(&buf)

	if _, err := io.WriteString(wc, "hello"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := wc.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
	if buf.String() != "hello" {
		t.Errorf("Expected %q, got %q", "hello", buf.String())
	}
}
