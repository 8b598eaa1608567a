package gui

import (
	"io"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"github.com/rs/zerolog"
)

// LogBuffer keeps the most recent log lines in memory. It exists before the
// GUI does, so log output from startup is not lost.
type LogBuffer struct {
	mu       sync.Mutex
	lines    []string
	maxLines int
	onAppend func()
}

// NewLogBuffer creates a buffer holding at most maxLines lines
func NewLogBuffer(maxLines int) *LogBuffer {
	if maxLines < 1 {
		maxLines = 1
	}
	return &LogBuffer{maxLines: maxLines}
}

// Write implements io.Writer; every non-empty line becomes one entry
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	for _, line := range strings.Split(string(p), "\n") {
		line = strings.TrimRight(line, "\r ")
		if line == "" {
			continue
		}
		b.lines = append(b.lines, line)
	}
	if extra := len(b.lines) - b.maxLines; extra > 0 {
		b.lines = append([]string(nil), b.lines[extra:]...)
	}
	notify := b.onAppend
	b.mu.Unlock()

	if notify != nil {
		notify()
	}
	return len(p), nil
}

// Writer returns a plain-text zerolog writer feeding this buffer
func (b *LogBuffer) Writer() io.Writer {
	return zerolog.ConsoleWriter{
		Out:        b,
		NoColor:    true,
		TimeFormat: time.TimeOnly,
	}
}

// Lines returns the buffered lines, newest first
func (b *LogBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]string, len(b.lines))
	for i, line := range b.lines {
		out[len(b.lines)-1-i] = line
	}
	return out
}

// Clear drops all buffered lines
func (b *LogBuffer) Clear() {
	b.mu.Lock()
	b.lines = nil
	notify := b.onAppend
	b.mu.Unlock()

	if notify != nil {
		notify()
	}
}

func (b *LogBuffer) setOnAppend(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onAppend = fn
}

// LogViewer is a widget that displays log messages
type LogViewer struct {
	widget.BaseWidget

	buffer      *LogBuffer
	clearButton *ttwidget.Button
	container   *fyne.Container
	logEntry   *widget.Entry
	scrollView *container.Scroll
}

// NewLogViewer creates a log viewer showing the contents of buffer
func NewLogViewer(buffer *LogBuffer) *LogViewer {
	v := &LogViewer{buffer: buffer}

	// Read-only multiline entry
	v.logEntry = widget.NewMultiLineEntry()
	v.logEntry.Disable()
	v.logEntry.Wrapping = fyne.TextWrapWord

	v.scrollView = container.NewScroll(v.logEntry)
	v.scrollView.SetMinSize(fyne.NewSize(0, 160))

	v.clearButton = ttwidget.NewButtonWithIcon("", theme.ContentClearIcon(), buffer.Clear)
	v.clearButton.SetToolTip("Clear log messages")

	v.container = container.NewBorder(
		container.NewBorder(nil, nil, widget.NewLabel("Log messages (newest first):"), v.clearButton),
		nil,
		nil,
		nil,
		v.scrollView,
	)

	buffer.setOnAppend(func() {
		fyne.Do(v.refreshText)
	})
	v.refreshText()

	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget
func (v *LogViewer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.container)
}

func (v *LogViewer) refreshText() {
	v.logEntry.SetText(strings.Join(v.buffer.Lines(), "\n"))

	// Keep scroll at top to show newest messages
	v.scrollView.Offset = fyne.NewPos(0, 0)
	v.scrollView.Refresh()
}
