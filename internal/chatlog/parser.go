package chatlog

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	// "2025년 9월 7일 오후 11:22, 김현호 : 안녕"
	singleLinePattern = regexp.MustCompile(
		`^(\d{4})년 (\d{1,2})월 (\d{1,2})일\s+(오전|오후)\s+(\d{1,2}):(\d{2}),\s(.+?)\s:\s(.+)$`)

	// "--------------- 2025년 9월 7일 일요일 ---------------"
	dateHeaderPattern = regexp.MustCompile(
		`^-{3,}\s*(\d{4})년\s(\d{1,2})월\s(\d{1,2})일.*-{3,}\s*$`)

	// "[김현호] [오전 11:22] 안녕"
	bracketPattern = regexp.MustCompile(
		`^\[(.+?)\]\s\[(오전|오후)\s(\d{1,2}):(\d{2})\]\s(.+)$`)
)

const (
	meridiemAM = "오전"
	meridiemPM = "오후"
)

type calendarDate struct {
	year, month, day int
}

// ParseString parses the text of one exported chat log.
func ParseString(raw string) (*ParsedLog, error) {
	return Parse(strings.NewReader(raw))
}

// Parse reads an exported chat log in a single forward pass. Both the
// self-dated single-line format and the date-header + bracketed format are
// accepted, interleaved freely. Unrecognized lines never abort parsing: they
// continue the pending message or are dropped. A recognized line whose date or
// time cannot exist fails the whole file with ErrInvalidTimestamp.
func Parse(r io.Reader) (*ParsedLog, error) {
	var (
		msgs      []Message
		pending   *Message
		current   *calendarDate
		lineCount int
		dropped   int
	)

	flush := func() {
		if pending != nil {
			msgs = append(msgs, *pending)
			pending = nil
		}
	}

	lines := newLineReader(r)
	for {
		raw, ok := lines.next()
		if !ok {
			break
		}
		lineCount++
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := dateHeaderPattern.FindStringSubmatch(line); m != nil {
			current = &calendarDate{year: atoi(m[1]), month: atoi(m[2]), day: atoi(m[3])}
			flush()
			continue
		}

		if m := singleLinePattern.FindStringSubmatch(line); m != nil {
			flush()
			d := calendarDate{year: atoi(m[1]), month: atoi(m[2]), day: atoi(m[3])}
			ts, err := buildTimestamp(d, m[4], atoi(m[5]), atoi(m[6]))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineCount, err)
			}
			pending = &Message{
				Timestamp: ts,
				Sender:    strings.TrimSpace(m[7]),
				Text:      strings.TrimSpace(m[8]),
			}
			continue
		}

		if m := bracketPattern.FindStringSubmatch(line); m != nil && current != nil {
			flush()
			ts, err := buildTimestamp(*current, m[2], atoi(m[3]), atoi(m[4]))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineCount, err)
			}
			pending = &Message{
				Timestamp: ts,
				Sender:    strings.TrimSpace(m[1]),
				Text:      strings.TrimSpace(m[5]),
			}
			continue
		}

		if pending != nil {
			pending.Text += "\n" + line
		} else {
			dropped++
		}
	}
	if err := lines.err; err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	flush()

	senders := make(map[string]int)
	for _, m := range msgs {
		senders[m.Sender]++
	}

	return &ParsedLog{
		Messages: msgs,
		Meta: Meta{
			Source:       SourceKakao,
			LineCount:    lineCount,
			MessageCount: len(msgs),
			Senders:      senders,
			UserSender:   topSender(senders, msgs),
			DroppedLines: dropped,
		},
	}, nil
}

// lineReader splits text on every Unicode line boundary: \n, \r, \r\n, \v,
// \f, \x1c-\x1e, \x85, U+2028 and U+2029. Lines have no length limit.
type lineReader struct {
	r    *bufio.Reader
	line strings.Builder
	err  error
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReaderSize(r, 64*1024)}
}

// next returns the following line without its terminator. ok is false once
// the input is exhausted; a read error is kept in err.
func (lr *lineReader) next() (line string, ok bool) {
	lr.line.Reset()
	started := false
	for {
		c, size, err := lr.r.ReadRune()
		if err != nil {
			if err != io.EOF {
				lr.err = err
			}
			return lr.line.String(), started
		}
		started = true

		if c == utf8.RuneError && size == 1 {
			// Keep invalid bytes as they are.
			_ = lr.r.UnreadRune()
			b, _ := lr.r.ReadByte()
			lr.line.WriteByte(b)
			continue
		}

		switch c {
		case '\r':
			if next, _, err := lr.r.ReadRune(); err == nil && next != '\n' {
				_ = lr.r.UnreadRune()
			}
			return lr.line.String(), true
		case '\n', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
			return lr.line.String(), true
		}
		lr.line.WriteRune(c)
	}
}

// to24Hour converts a 12-hour clock reading. 오후 adds 12 except at 12;
// 오전 12 is midnight.
func to24Hour(meridiem string, hour int) int {
	switch {
	case meridiem == meridiemPM && hour != 12:
		return hour + 12
	case meridiem == meridiemAM && hour == 12:
		return 0
	}
	return hour
}

func buildTimestamp(d calendarDate, meridiem string, hour, minute int) (time.Time, error) {
	hour = to24Hour(meridiem, hour)
	if d.year < 1 || d.month < 1 || d.month > 12 || d.day < 1 || hour > 23 || minute > 59 {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d %02d:%02d", ErrInvalidTimestamp, d.year, d.month, d.day, hour, minute)
	}
	ts := time.Date(d.year, time.Month(d.month), d.day, hour, minute, 0, 0, time.UTC)
	if ts.Day() != d.day {
		// time.Date normalizes overflow (Feb 30 -> Mar 2); reject it instead.
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidTimestamp, d.year, d.month, d.day)
	}
	return ts, nil
}

// atoi is only called on regexp digit groups.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
