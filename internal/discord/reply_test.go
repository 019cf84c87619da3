package discord

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gitscribe/gitscribe/router"
)

func TestTruncate(t *testing.T) {
	if got := truncate("short reply"); got != "short reply" {
		t.Errorf("short reply changed: %q", got)
	}

	exact := strings.Repeat("a", maxMessageLength)
	if got := truncate(exact); got != exact {
		t.Error("reply at the limit should pass through untouched")
	}

	long := truncate(strings.Repeat("b", maxMessageLength+500))
	if n := utf8.RuneCountInString(long); n != maxMessageLength {
		t.Errorf("truncated to %d runes, want %d", n, maxMessageLength)
	}
	if !strings.HasSuffix(long, truncationMarker) {
		t.Errorf("truncated reply missing marker: %q", long[len(long)-30:])
	}

	// Multi-byte runes must not be split mid-sequence.
	wide := truncate(strings.Repeat("é", maxMessageLength+500))
	if !utf8.ValidString(wide) {
		t.Error("truncation produced invalid UTF-8")
	}
	if n := utf8.RuneCountInString(wide); n != maxMessageLength {
		t.Errorf("truncated to %d runes, want %d", n, maxMessageLength)
	}
}

func TestReplyFile(t *testing.T) {
	text := replyFile(&router.ReplyFile{Name: "notes.md", Content: []byte("hello")})
	if text.Name != "notes.md" {
		t.Errorf("name = %q", text.Name)
	}
	if text.ContentType != "text/plain; charset=utf-8" {
		t.Errorf("content type = %q, want text/plain", text.ContentType)
	}

	raw := []byte{0xff, 0xfe, 0x00, 0x01}
	bin := replyFile(&router.ReplyFile{Name: "data.bin", Content: raw})
	if bin.ContentType != "application/octet-stream" {
		t.Errorf("content type = %q, want octet-stream", bin.ContentType)
	}
	got, err := io.ReadAll(bin.Reader)
	if err != nil {
		t.Fatalf("reading attachment: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("attachment bytes = %v, want %v", got, raw)
	}
}
