package state

import "time"

// Banner is a transient status or error line.
type Banner struct {
	Text  string
	Error bool
	Until time.Time
}

func (b *Banner) Set(text string, isError bool, now time.Time, ttl time.Duration) {
	b.Text = text
	b.Error = isError
	b.Until = now.Add(ttl)
}

// Clear reports whether there was anything to clear.
func (b *Banner) Clear() bool {
	if b.Text == "" {
		return false
	}
	*b = Banner{}
	return true
}

// Expire clears the banner once its deadline has passed.
func (b *Banner) Expire(now time.Time) bool {
	if b.Text == "" || now.Before(b.Until) {
		return false
	}
	return b.Clear()
}

func (b Banner) Visible() bool {
	return b.Text != ""
}
