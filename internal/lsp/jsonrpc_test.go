package lsp

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func TestFramingRoundTrip(t *testing.T) {
	payload := []byte(`{"jsonrpc":"2.0","method":"initialized"}`)
	var buf bytes.Buffer
	if err := writeMessage(&buf, payload); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := readMessage(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload = %q, want %q", got, payload)
	}
}

func TestReadSkipsContentType(t *testing.T) {
	raw := "Content-Type: application/vscode-jsonrpc; charset=utf-8\r\n" +
		"Content-Length: 2\r\n" +
		"\r\n" +
		"{}"
	got, err := readMessage(bufio.NewReader(strings.NewReader(raw)))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "{}" {
		t.Fatalf("payload = %q", got)
	}
}

func TestReadRejectsMissingContentLength(t *testing.T) {
	raw := "Content-Type: application/vscode-jsonrpc\r\n\r\n{}"
	if _, err := readMessage(bufio.NewReader(strings.NewReader(raw))); err == nil {
		t.Fatalf("expected an error for a frame without Content-Length")
	}
}

func TestReadRejectsMalformedContentLength(t *testing.T) {
	raw := "Content-Length: banana\r\n\r\n{}"
	if _, err := readMessage(bufio.NewReader(strings.NewReader(raw))); err == nil {
		t.Fatalf("expected an error for a bad Content-Length value")
	}
}
