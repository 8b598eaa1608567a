package gui

import (
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/rs/zerolog"
)

func TestLogBuffer_NewestFirst(t *testing.T) {
	buf := NewLogBuffer(10)
	if _, err := buf.Write([]byte("first\nsecond\n\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	buf.Write([]byte("third\r\n"))

	got := strings.Join(buf.Lines(), ",")
	if got != "third,second,first" {
		t.Errorf("Expected third,second,first, got %s", got)
	}
}

func TestLogBuffer_KeepsMostRecent(t *testing.T) {
	buf := NewLogBuffer(2)
	buf.Write([]byte("a\nb\nc\n"))

	got := strings.Join(buf.Lines(), ",")
	if got != "c,b" {
		t.Errorf("Expected c,b, got %s", got)
	}
}

func TestLogBuffer_ClearNotifies(t *testing.T) {
	buf := NewLogBuffer(5)
	notified := 0
	buf.setOnAppend(func() { notified++ })

	buf.Write([]byte("line\n"))
	buf.Clear()

	if len(buf.Lines()) != 0 {
		t.Errorf("Expected empty buffer, got %v", buf.Lines())
	}
	if notified != 2 {
		t.Errorf("Expected 2 notifications, got %d", notified)
	}
}

func TestLogBuffer_Writer(t *testing.T) {
	buf := NewLogBuffer(5)
	log := zerolog.New(buf.Writer()).With().Str("component", "test").Logger()

	log.Info().Int("page", 2).Msg("Fetched page")

	lines := buf.Lines()
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d: %v", len(lines), lines)
	}
	for _, want := range []string{"INF", "Fetched page", "page=2", "component=test"} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("Expected %q in %q", want, lines[0])
		}
	}
}

func TestLogViewer_ClearButton(t *testing.T) {
	test.NewTempApp(t)

	buf := NewLogBuffer(5)
	buf.Write([]byte("one\ntwo\n"))

	viewer := NewLogViewer(buf)
	if viewer.logEntry.Text != "two\none" {
		t.Fatalf("Expected newest-first text, got %q", viewer.logEntry.Text)
	}

	test.Tap(viewer.clearButton)

	if len(buf.Lines()) != 0 {
		t.Errorf("Expected buffer cleared, got %v", buf.Lines())
	}
}
