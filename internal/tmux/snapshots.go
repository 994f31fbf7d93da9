package tmux

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	sessionFormat = "#{session_name}\t#{session_attached}\t#{session_created}\t#{session_activity}"
	paneFormat    = "#{session_name}\t#{window_index}\t#{window_name}\t#{window_active}\t#{window_activity}\t#{pane_id}\t#{pane_index}\t#{pane_width}\t#{pane_height}\t#{pane_active}\t#{pane_current_command}\t#{pane_title}"

	sessionFields = 4
	paneFields    = 12
)

// ListTree returns every session with its windows and panes. A missing
// server yields an empty tree rather than an error.
func (c *Client) ListTree() ([]Session, error) {
	var (
		sessionLines []string
		paneLines    []string
		attached     map[string][]string
	)
	err := c.withControl(func(client tmuxClient) error {
		var err error
		if sessionLines, err = client.ListSessionsFormat(sessionFormat); err != nil {
			return fmt.Errorf("list-sessions: %w", err)
		}
		if paneLines, err = client.ListPanesFormat("", "", paneFormat); err != nil {
			return fmt.Errorf("list-panes: %w", err)
		}
		attached = realAttachedClients(client)
		return nil
	})
	if err != nil {
		// exec is authoritative whenever the control connection is absent
		// or misbehaving.
		attached = nil
		sessionLines, err = c.runLines("list-sessions", "-F", sessionFormat)
		if err != nil {
			if errors.Is(err, ErrNoServer) {
				return []Session{}, nil
			}
			return nil, err
		}
		paneLines, err = c.runLines("list-panes", "-a", "-F", paneFormat)
		if err != nil {
			if errors.Is(err, ErrNoServer) {
				return []Session{}, nil
			}
			return nil, err
		}
	}
	return buildTree(sessionLines, paneLines, attached)
}

// buildTree assembles sessions from list-sessions and list-panes -a output.
// Any malformed line fails the whole listing.
func buildTree(sessionLines, paneLines []string, attached map[string][]string) ([]Session, error) {
	sessions := make([]*Session, 0, len(sessionLines))
	byName := make(map[string]*Session, len(sessionLines))
	for _, line := range sessionLines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		s, err := parseSessionLine(line)
		if err != nil {
			return nil, err
		}
		if attached != nil {
			s.Attached = len(attached[s.Name])
		}
		sessions = append(sessions, &s)
		byName[s.Name] = &s
	}

	type windowKey struct {
		session string
		index   int
	}
	windows := make(map[windowKey]*Window)
	order := make([]windowKey, 0)
	for _, line := range paneLines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		w, p, err := parsePaneLine(line)
		if err != nil {
			return nil, err
		}
		if _, ok := byName[w.Session]; !ok {
			// Session created between the two listings.
			continue
		}
		key := windowKey{session: w.Session, index: w.Index}
		existing, ok := windows[key]
		if !ok {
			existing = &w
			windows[key] = existing
			order = append(order, key)
		}
		existing.Panes = append(existing.Panes, p)
	}
	for _, key := range order {
		w := windows[key]
		sort.SliceStable(w.Panes, func(i, j int) bool { return w.Panes[i].Index < w.Panes[j].Index })
		s := byName[key.session]
		s.Windows = append(s.Windows, *w)
	}

	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		sort.SliceStable(s.Windows, func(i, j int) bool { return s.Windows[i].Index < s.Windows[j].Index })
		out = append(out, *s)
	}
	sortSessions(out)
	return out, nil
}

// sortSessions orders by most recent activity, then attached clients, then
// name.
func sortSessions(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if !a.Activity.Equal(b.Activity) {
			return a.Activity.After(b.Activity)
		}
		if a.Attached != b.Attached {
			return a.Attached > b.Attached
		}
		return a.Name < b.Name
	})
}

func parseSessionLine(line string) (Session, error) {
	parts := strings.Split(line, "\t")
	if len(parts) != sessionFields {
		return Session{}, fmt.Errorf("malformed list-sessions line %q", line)
	}
	name := parts[0]
	if name == "" {
		return Session{}, fmt.Errorf("malformed list-sessions line %q: empty name", line)
	}
	attached, err := parseInt(parts[1])
	if err != nil {
		return Session{}, fmt.Errorf("malformed list-sessions line %q: %w", line, err)
	}
	created, err := parseUnix(parts[2])
	if err != nil {
		return Session{}, fmt.Errorf("malformed list-sessions line %q: %w", line, err)
	}
	activity, err := parseUnix(parts[3])
	if err != nil {
		return Session{}, fmt.Errorf("malformed list-sessions line %q: %w", line, err)
	}
	return Session{Name: name, Attached: attached, Created: created, Activity: activity}, nil
}

func parsePaneLine(line string) (Window, Pane, error) {
	parts := strings.SplitN(line, "\t", paneFields)
	if len(parts) != paneFields {
		return Window{}, Pane{}, fmt.Errorf("malformed list-panes line %q", line)
	}
	fail := func(err error) (Window, Pane, error) {
		return Window{}, Pane{}, fmt.Errorf("malformed list-panes line %q: %w", line, err)
	}
	session := parts[0]
	windowIndex, err := parseInt(parts[1])
	if err != nil {
		return fail(err)
	}
	windowActivity, err := parseUnix(parts[4])
	if err != nil {
		return fail(err)
	}
	paneIndex, err := parseInt(parts[6])
	if err != nil {
		return fail(err)
	}
	width, err := parseInt(parts[7])
	if err != nil {
		return fail(err)
	}
	height, err := parseInt(parts[8])
	if err != nil {
		return fail(err)
	}
	if width <= 0 {
		width = defaultPaneWidth
	}
	if height <= 0 {
		height = defaultPaneHeight
	}
	w := Window{
		Session:  session,
		Index:    windowIndex,
		Name:     parts[2],
		Active:   parts[3] == "1",
		Activity: windowActivity,
	}
	p := Pane{
		ID:      parts[5],
		Session: session,
		Window:  windowIndex,
		Index:   paneIndex,
		Target:  PaneTarget(session, windowIndex, paneIndex),
		Width:   width,
		Height:  height,
		Active:  parts[9] == "1",
		Command: parts[10],
		Title:   parts[11],
	}
	return w, p, nil
}

func parseInt(field string) (int, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return 0, nil
	}
	return strconv.Atoi(field)
}

func parseUnix(field string) (time.Time, error) {
	secs, err := parseInt(field)
	if err != nil || secs == 0 {
		return time.Time{}, err
	}
	return time.Unix(int64(secs), 0), nil
}

// realAttachedClients maps session names to the non-control-mode clients
// attached to them. The control connection itself would otherwise inflate
// session_attached.
func realAttachedClients(client tmuxClient) map[string][]string {
	clients, err := client.ListClients()
	if err != nil {
		return nil
	}
	result := make(map[string][]string)
	for _, c := range clients {
		if c == nil || c.ControlMode || c.Session == "" {
			continue
		}
		result[c.Session] = append(result[c.Session], c.Name)
	}
	return result
}
