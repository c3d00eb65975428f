package viewer

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Striker-Sense/internal/world"
)

const (
	logPanelWidth = 360
	logMaxEntries = 80
	logLineHeight = 11
)

// LogEntry is a single line in the decision log.
type LogEntry struct {
	Tick    int
	Label   string // e.g. "O7", "T4", "--"
	Side    world.Side
	Message string
}

// DecisionLog is a ring buffer of decisions and match events rendered
// on-screen.
type DecisionLog struct {
	entries []LogEntry
	head    int
	count   int
}

// NewDecisionLog creates a decision log with a fixed capacity.
func NewDecisionLog() *DecisionLog {
	return &DecisionLog{
		entries: make([]LogEntry, logMaxEntries),
	}
}

// Add appends an entry, overwriting the oldest once full.
func (dl *DecisionLog) Add(tick int, label string, side world.Side, msg string) {
	dl.entries[dl.head] = LogEntry{
		Tick:    tick,
		Label:   label,
		Side:    side,
		Message: msg,
	}
	dl.head = (dl.head + 1) % logMaxEntries
	if dl.count < logMaxEntries {
		dl.count++
	}
}

// Recent returns entries in chronological order (oldest first).
func (dl *DecisionLog) Recent() []LogEntry {
	result := make([]LogEntry, dl.count)
	for i := 0; i < dl.count; i++ {
		idx := (dl.head - dl.count + i + logMaxEntries) % logMaxEntries
		result[i] = dl.entries[idx]
	}
	return result
}

// Clear drops every entry.
func (dl *DecisionLog) Clear() {
	dl.head = 0
	dl.count = 0
}

// Draw renders the log panel on the right side of the screen.
func (dl *DecisionLog) Draw(screen *ebiten.Image, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 16, color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "DECISION LOG", panelX+8, 2)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+logPanelWidth), 16, 1.0, color.RGBA{R: 50, G: 80, B: 50, A: 200}, false)

	entries := dl.Recent()

	// Newest at the bottom.
	maxVisible := (panelH - 24) / logLineHeight
	startIdx := 0
	if len(entries) > maxVisible {
		startIdx = len(entries) - maxVisible
	}
	visible := entries[startIdx:]
	recent := 3

	y := 20
	for i, e := range visible {
		if i >= len(visible)-recent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 30, G: 40, B: 30, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, sideColor(e.Side), false)

		line := fmt.Sprintf("%4d [%s] %s", e.Tick, e.Label, e.Message)
		ebitenutil.DebugPrintAt(screen, line, panelX+12, y)
		y += logLineHeight
	}
}

func sideColor(s world.Side) color.RGBA {
	switch s {
	case world.SideOurs:
		return color.RGBA{R: 210, G: 70, B: 70, A: 255}
	case world.SideTheirs:
		return color.RGBA{R: 70, G: 110, B: 210, A: 255}
	}
	return color.RGBA{R: 200, G: 200, B: 200, A: 255}
}
