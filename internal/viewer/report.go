package viewer

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/Garsondee/Striker-Sense/internal/sim"
)

// reportTicks is how far back the copied report reaches.
const reportTicks = 120

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// copyReport puts a debug report for the inspected player on the clipboard.
func (g *Game) copyReport() {
	report := debugReport(g.ms, g.opts, g.inspectorLines(g.ms.Snapshot()), reportTicks)
	if err := writeClipboard(report); err != nil {
		g.log.Warn().Err(err).Msg("copying debug report")
		g.status = "clipboard unavailable"
		return
	}
	g.log.Info().Int("bytes", len(report)).Msg("debug report copied")
	g.status = fmt.Sprintf("report copied (T=%d)", g.ms.CurrentTick())
}

// debugReport summarises the match and lists the last lastTicks of events.
func debugReport(ms *sim.Match, opts Options, inspector []string, lastTicks int) string {
	if lastTicks <= 0 {
		lastTicks = reportTicks
	}
	toTick := ms.CurrentTick()
	fromTick := toTick - lastTicks + 1
	if fromTick < 0 {
		fromTick = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- StrikerSense debug report ---\n")
	fmt.Fprintf(&b, "scenario=%s seed=%d tick_range=[%d..%d] ticks=%d\n\n",
		opts.Scenario, opts.Seed, fromTick, toTick, toTick-fromTick+1)

	b.WriteString(ms.SimLog.Summary(ms))
	b.WriteByte('\n')

	if len(inspector) > 0 {
		b.WriteString("== INSPECTOR ==\n")
		for _, l := range inspector {
			b.WriteString(l)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	b.WriteString("== EVENTS ==\n")
	events := ms.SimLog.FormatRange(fromTick, toTick)
	if events == "" {
		b.WriteString("(no events recorded yet)\n")
	}
	b.WriteString(events)
	return b.String()
}
