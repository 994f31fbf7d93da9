package ui

import (
	"strings"

	"github.com/atomicstack/tmux-deck/internal/tmux"
	"github.com/charmbracelet/x/ansi"
)

// renderPreviewPanel draws a bordered box of exactly width columns and
// height rows holding the tail of a pane capture. Capture lines keep their
// own escape sequences and are truncated with an ANSI-aware cut.
func renderPreviewPanel(title, content string, hasPane bool, width, height int, active bool) string {
	const (
		tlc = "╭"
		trc = "╮"
		blc = "╰"
		brc = "╯"
		hz  = "─"
		vt  = "│"
	)
	if width < 4 {
		width = 4
	}
	if height < 3 {
		height = 3
	}
	innerW := width - 2
	innerH := height - 2
	border := styles.Border
	if active {
		border = styles.ActiveBorder
	}

	titleSeg := " " + title + " "
	if ansi.StringWidth(titleSeg) > innerW-2 {
		titleSeg = ansi.Truncate(titleSeg, innerW-2, "…")
	}
	dashes := innerW - 1 - ansi.StringWidth(titleSeg)
	if dashes < 0 {
		dashes = 0
	}
	topLine := border.Render(tlc+hz) +
		styles.PreviewTitle.Render(titleSeg) +
		border.Render(strings.Repeat(hz, dashes)+trc)
	bottomLine := border.Render(blc + strings.Repeat(hz, innerW) + brc)

	raw := true
	lines := tmux.PreviewLines(content, innerH)
	switch {
	case !hasPane:
		lines, raw = []string{"no pane"}, false
	case content == "":
		lines, raw = []string{"waiting for capture…"}, false
	}

	rows := make([]string, 0, height)
	rows = append(rows, topLine)
	for i := 0; i < innerH; i++ {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		w := ansi.StringWidth(line)
		if w > innerW {
			line = ansi.Truncate(line, innerW, "…")
			w = ansi.StringWidth(line)
		}
		if w < innerW {
			line += strings.Repeat(" ", innerW-w)
		}
		if raw {
			line += ansi.ResetStyle
		} else {
			line = styles.Muted.Render(line)
		}
		rows = append(rows, border.Render(vt)+line+border.Render(vt))
	}
	rows = append(rows, bottomLine)
	return strings.Join(rows, "\n")
}
