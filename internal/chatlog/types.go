package chatlog

import (
	"errors"
	"sort"
	"time"
)

// SourceKakao is the only export format the parser understands.
const SourceKakao = "kakao"

var (
	// ErrInvalidTimestamp is returned when a recognized line carries a date or
	// time that cannot exist (e.g. 2월 30일, 오후 13:00).
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrNoLogs           = errors.New("at least one parsed log is required")
	ErrEmptyUserName    = errors.New("user name must not be empty")
)

// Message is a single chat message. Timestamps are wall-clock values stored in UTC.
type Message struct {
	Timestamp time.Time `json:"timestamp"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
}

// Meta describes one parsed file, or the merged timeline.
type Meta struct {
	Source       string         `json:"source"`
	LineCount    int            `json:"line_count"`
	MessageCount int            `json:"message_count"`
	Senders      map[string]int `json:"senders"`
	UserSender   string         `json:"user_sender,omitempty"`

	// DroppedLines counts non-blank lines that matched no format while no
	// message was pending. Informational only.
	DroppedLines int `json:"dropped_lines"`
}

// ParsedLog is the result of parsing one exported file. Meta.UserSender is only
// a guess (the most frequent sender).
type ParsedLog struct {
	Messages []Message `json:"messages"`
	Meta     Meta      `json:"meta"`
}

// Timeline is the chronologically sorted union of several parsed logs.
type Timeline struct {
	Messages []Message `json:"messages"`
	Meta     Meta      `json:"meta"`
	RawText  string    `json:"raw_text"`
}

// User returns the resolved user sender, falling back to the most active
// sender when none was recorded.
func (t *Timeline) User() string {
	if t.Meta.UserSender != "" {
		return t.Meta.UserSender
	}
	return MostActiveSender(t.Messages)
}

// UserMessages returns the messages authored by User, in timeline order.
func (t *Timeline) UserMessages() []Message {
	user := t.User()
	var out []Message
	for _, m := range t.Messages {
		if m.Sender == user {
			out = append(out, m)
		}
	}
	return out
}

// topSender returns the sender with the highest count. Ties go to the sender
// that appears first in msgs; senders absent from msgs are ranked after them.
func topSender(counts map[string]int, msgs []Message) string {
	order := make([]string, 0, len(counts))
	seen := make(map[string]bool, len(counts))
	for _, m := range msgs {
		if !seen[m.Sender] {
			seen[m.Sender] = true
			order = append(order, m.Sender)
		}
	}
	var rest []string
	for name := range counts {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	order = append(order, rest...)

	best, bestCount := "", 0
	for _, name := range order {
		if c := counts[name]; c > bestCount {
			best, bestCount = name, c
		}
	}
	return best
}

// MostActiveSender returns the sender with the most messages in msgs, first
// seen winning a tie. It returns "" for no messages.
func MostActiveSender(msgs []Message) string {
	counts := make(map[string]int)
	for _, m := range msgs {
		counts[m.Sender]++
	}
	return topSender(counts, msgs)
}
