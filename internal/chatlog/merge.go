package chatlog

import (
	"sort"
	"strings"
)

// Merge combines parsed logs into one timeline ordered by timestamp. Ties keep
// their input order. The user is userName when it appears among the merged
// senders, otherwise the most talkative sender (first seen in the timeline on
// a tie).
func Merge(logs []*ParsedLog, userName string) (*Timeline, error) {
	if len(logs) == 0 {
		return nil, ErrNoLogs
	}
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return nil, ErrEmptyUserName
	}

	var (
		msgs      []Message
		lineCount int
		dropped   int
	)
	senders := make(map[string]int)
	for _, l := range logs {
		if l == nil {
			continue
		}
		msgs = append(msgs, l.Messages...)
		lineCount += l.Meta.LineCount
		dropped += l.Meta.DroppedLines
		for name, n := range l.Meta.Senders {
			senders[name] += n
		}
	}

	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})

	user := ""
	if _, ok := senders[userName]; ok {
		user = userName
	} else if len(senders) > 0 {
		user = topSender(senders, msgs)
	}

	texts := make([]string, len(msgs))
	for i, m := range msgs {
		texts[i] = m.Text
	}

	return &Timeline{
		Messages: msgs,
		Meta: Meta{
			Source:       SourceKakao,
			LineCount:    lineCount,
			MessageCount: len(msgs),
			Senders:      senders,
			UserSender:   user,
			DroppedLines: dropped,
		},
		RawText: strings.Join(texts, "\n"),
	}, nil
}
