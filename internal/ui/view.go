package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/tmux-deck/internal/format/table"
	"github.com/atomicstack/tmux-deck/internal/tmux"
	uistate "github.com/atomicstack/tmux-deck/internal/ui/state"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	columnsMinWidth      = 30
	previewPanelMinWidth = 24
	columnsFraction      = 0.4
	multiPreviewMinWidth = 40
)

// View renders the whole frame from the coordinator's state. It has no side
// effects, so it can be called at any time.
func (c *Coordinator) View() string {
	footer := c.footerLines()
	bodyH := c.height - 1 - len(footer)
	if bodyH < 1 {
		bodyH = 1
	}
	var body string
	switch {
	case c.tree.Generation() == 0:
		body = styles.Muted.Render("loading…")
	case c.tree.Empty():
		body = styles.Muted.Render("no tmux sessions · ctrl+n to create one")
	case c.view == uistate.ViewMultiPreview:
		body = c.viewMultiPreview(c.width, bodyH)
	default:
		body = c.viewTree(c.width, bodyH)
	}
	lines := []string{c.headerLine()}
	lines = append(lines, padLines(strings.Split(body, "\n"), bodyH)...)
	lines = append(lines, footer...)
	if len(lines) > c.height {
		lines = lines[:c.height]
	}
	for i, line := range lines {
		lines[i] = fitWidth(line, c.width)
	}
	return strings.Join(lines, "\n")
}

func (c *Coordinator) headerLine() string {
	parts := []string{"tmux-deck", fmt.Sprintf("%d sessions", len(c.tree.Sessions())), c.view.String()}
	if target := c.sel.String(); target != "" {
		parts = append(parts, target)
	}
	return styles.Header.Render(strings.Join(parts, " · "))
}

// viewTree lays out the session, window and pane columns with a preview
// of the selected pane on the right when there is room.
func (c *Coordinator) viewTree(width, height int) string {
	columnsW := int(float64(width) * columnsFraction)
	if columnsW < columnsMinWidth {
		columnsW = columnsMinWidth
	}
	previewW := width - columnsW - 1
	if previewW < previewPanelMinWidth {
		columnsW = width
		previewW = 0
	}
	sessionsW := columnsW / 3
	windowsW := columnsW / 3
	panesW := columnsW - sessionsW - windowsW

	window, hasWindow := c.sel.ResolveWindow(c.tree)
	pane, hasPane := c.sel.ResolvePane(c.tree)
	windowPos := -1
	if hasWindow {
		windowPos = c.tree.WindowPosition(c.sel.Session, window.Index)
	}

	columns := lipgloss.JoinHorizontal(lipgloss.Top,
		c.renderColumn("sessions", uistate.FocusSessions, c.sessionRows(), c.tree.SessionIndex(c.sel.Session), sessionsW, height),
		c.renderColumn("windows", uistate.FocusWindows, c.windowRows(), windowPos, windowsW, height),
		c.renderColumn("panes", uistate.FocusPanes, paneRows(window), panePosition(window, pane), panesW, height),
	)
	if previewW == 0 {
		return columns
	}
	title := "preview"
	var content string
	if hasPane {
		title = fmt.Sprintf("%s  %s", pane.Target, pane.Command)
		if capture, ok := c.tree.Capture(pane.Target); ok {
			content = capture.Content
		}
	}
	preview := renderPreviewPanel(title, content, hasPane, previewW, height, true)
	return lipgloss.JoinHorizontal(lipgloss.Top, columns, " ", preview)
}

func (c *Coordinator) sessionRows() [][]string {
	rows := make([][]string, 0, len(c.tree.Sessions()))
	for _, s := range c.tree.Sessions() {
		attached := ""
		if s.Attached > 0 {
			attached = "*"
		}
		rows = append(rows, []string{s.Name, fmt.Sprintf("%dw", len(s.Windows)), attached})
	}
	return rows
}

func (c *Coordinator) windowRows() [][]string {
	sess, ok := c.tree.Session(c.sel.Session)
	if !ok {
		return nil
	}
	rows := make([][]string, 0, len(sess.Windows))
	for _, w := range sess.Windows {
		marker := ""
		if w.Active {
			marker = "*"
		}
		rows = append(rows, []string{fmt.Sprintf("%d:%s", w.Index, w.Name), fmt.Sprintf("%dp", len(w.Panes)), marker})
	}
	return rows
}

func paneRows(w tmux.Window) [][]string {
	rows := make([][]string, 0, len(w.Panes))
	for _, p := range w.Panes {
		rows = append(rows, []string{fmt.Sprintf("%d", p.Index), p.Command, fmt.Sprintf("%dx%d", p.Width, p.Height)})
	}
	return rows
}

func panePosition(w tmux.Window, p tmux.Pane) int {
	for i, candidate := range w.Panes {
		if candidate.Index == p.Index && candidate.Target == p.Target {
			return i
		}
	}
	return -1
}

// renderColumn draws one list column. The row at cursor is highlighted,
// more strongly when the column has focus. Rows past the visible height
// scroll so the cursor stays on screen.
func (c *Coordinator) renderColumn(title string, focus uistate.Focus, rows [][]string, cursor, width, height int) string {
	focused := c.focus == focus
	titleStyle := styles.ColumnTitle
	if focused {
		titleStyle = styles.FocusedTitle
	}
	lines := []string{titleStyle.Render(fitWidth(title, width))}
	formatted := table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignRight, table.AlignLeft})
	visible := height - 1
	start := 0
	if visible > 0 && cursor >= visible {
		start = cursor - visible + 1
	}
	for i := start; i < len(formatted) && len(lines) < height; i++ {
		text := fitWidth(" "+formatted[i], width)
		style := styles.Item
		if i == cursor {
			style = styles.SelectedItem
			if focused {
				style = styles.FocusedItem
			}
		}
		lines = append(lines, style.Render(text))
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// viewMultiPreview shows the active pane of every window in the selected
// session as a grid of boxes.
func (c *Coordinator) viewMultiPreview(width, height int) string {
	sess, ok := c.tree.Session(c.sel.Session)
	if !ok {
		return styles.Muted.Render("no session selected")
	}
	if len(sess.Windows) == 0 {
		return styles.Muted.Render(fmt.Sprintf("%s has no windows", sess.Name))
	}
	selected, _ := c.sel.ResolveWindow(c.tree)
	cols := width / multiPreviewMinWidth
	if cols < 1 {
		cols = 1
	}
	if cols > len(sess.Windows) {
		cols = len(sess.Windows)
	}
	rowCount := (len(sess.Windows) + cols - 1) / cols
	boxW := width / cols
	boxH := height / rowCount
	if boxH < 3 {
		boxH = 3
	}
	var gridRows []string
	for r := 0; r < rowCount; r++ {
		var boxes []string
		for col := 0; col < cols; col++ {
			i := r*cols + col
			if i >= len(sess.Windows) {
				break
			}
			w := sess.Windows[i]
			title := fmt.Sprintf("%d:%s", w.Index, w.Name)
			var content string
			pane, hasPane := w.ActivePane()
			if hasPane {
				title = fmt.Sprintf("%s  %s", title, pane.Command)
				if capture, ok := c.tree.Capture(pane.Target); ok {
					content = capture.Content
				}
			}
			boxes = append(boxes, renderPreviewPanel(title, content, hasPane, boxW, boxH, w.Index == selected.Index))
		}
		gridRows = append(gridRows, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, gridRows...)
}

func (c *Coordinator) footerLines() []string {
	switch c.mode {
	case uistate.ModeNewSession, uistate.ModeRenameSession:
		if c.form != nil {
			lines := []string{styles.Header.Render(c.form.Title()), c.form.InputView()}
			if err := c.form.Error(); err != "" {
				lines = append(lines, styles.Error.Render(err))
			}
			return append(lines, styles.Footer.Render(c.form.Help()))
		}
	case uistate.ModeConfirmKill:
		if c.confirm != nil {
			yes, no := styles.Choice, styles.ActiveChoice
			if c.confirm.yes {
				yes, no = styles.ActiveChoice, styles.Choice
			}
			choices := lipgloss.JoinHorizontal(lipgloss.Top, yes.Render("Yes"), " ", no.Render("No"))
			return []string{
				styles.Error.Render(c.confirm.Title()) + "  " + choices,
				styles.Footer.Render("y confirm · n/esc cancel · h/l toggle · enter apply"),
			}
		}
	case uistate.ModeInput:
		if c.input != nil {
			return []string{
				styles.Header.Render(c.input.Title()),
				c.input.InputView(),
				styles.Footer.Render(c.input.Help()),
			}
		}
	}
	return []string{c.statusLine(), styles.Footer.Render(c.helpText())}
}

func (c *Coordinator) statusLine() string {
	if !c.banner.Visible() {
		return ""
	}
	if c.banner.Error {
		return styles.Error.Render("error: " + c.banner.Text)
	}
	return styles.Info.Render(c.banner.Text)
}

func (c *Coordinator) helpText() string {
	if c.mode == uistate.ModeSwitching {
		return "switching… · q quit"
	}
	move := "j/k move · h/l focus"
	if c.view == uistate.ViewMultiPreview {
		move = "h/l session · j/k window"
	}
	return move + " · space×2 view · enter switch · ^n new · ^r rename · ^x kill · i input · y copy · r refresh · q quit"
}

// fitWidth pads or truncates s to exactly width visible columns.
func fitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w > width {
		s = truncate.StringWithTail(s, uint(width-1), "…")
		w = lipgloss.Width(s)
	}
	if w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

func padLines(lines []string, height int) []string {
	if len(lines) > height {
		return lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}
