package tmux

import "strings"

// PreviewLines splits captured pane content into display lines, keeping the
// last limit lines. Trailing blank rows are dropped; blank rows between
// content are kept so the pane layout survives.
func PreviewLines(content string, limit int) []string {
	lines := splitPreviewLines(content)
	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return lines
}

func splitPreviewLines(text string) []string {
	if text == "" {
		return nil
	}
	normalised := strings.ReplaceAll(text, "\r\n", "\n")
	normalised = strings.ReplaceAll(normalised, "\r", "\n")
	raw := strings.Split(normalised, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, strings.TrimRight(line, " \t"))
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
