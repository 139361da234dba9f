package chatlog

import (
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, lines ...string) *ParsedLog {
	t.Helper()
	log, err := ParseString(strings.Join(lines, "\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return log
}

func TestMerge_SortsInterleavedLogs(t *testing.T) {
	a := mustParse(t,
		"2025년 9월 7일 오전 9:00, 김현호 : a1",
		"2025년 9월 7일 오전 9:30, 김현호 : a2",
		"2025년 9월 8일 오전 9:00, 김현호 : a3",
	)
	b := mustParse(t,
		"2025년 9월 7일 오전 9:10, 이수진 : b1",
		"2025년 9월 7일 오후 3:00, 이수진 : b2",
	)

	tl, err := Merge([]*ParsedLog{a, b}, "김현호")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tl.Messages) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(tl.Messages))
	}
	for i := 1; i < len(tl.Messages); i++ {
		if tl.Messages[i].Timestamp.Before(tl.Messages[i-1].Timestamp) {
			t.Errorf("timeline not sorted at %d: %v before %v", i, tl.Messages[i].Timestamp, tl.Messages[i-1].Timestamp)
		}
	}
	if want := "a1\nb1\na2\nb2\na3"; tl.RawText != want {
		t.Errorf("raw text = %q, want %q", tl.RawText, want)
	}
	if tl.Meta.LineCount != 5 {
		t.Errorf("line count = %d, want 5", tl.Meta.LineCount)
	}
}

func TestMerge_SenderCountsSumToMessageCount(t *testing.T) {
	a := mustParse(t,
		"2025년 9월 7일 오전 9:00, 김현호 : a",
		"2025년 9월 7일 오전 9:01, 이수진 : b",
	)
	b := mustParse(t,
		"2025년 9월 7일 오전 9:02, 이수진 : c",
		"2025년 9월 7일 오전 9:03, 박민수 : d",
	)

	tl, err := Merge([]*ParsedLog{a, b}, "김현호")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	total := 0
	for _, n := range tl.Meta.Senders {
		total += n
	}
	if total != tl.Meta.MessageCount || tl.Meta.MessageCount != len(tl.Messages) {
		t.Errorf("sender total %d, message count %d, len %d", total, tl.Meta.MessageCount, len(tl.Messages))
	}
	if tl.Meta.Senders["이수진"] != 2 {
		t.Errorf("expected 이수진 summed to 2, got %d", tl.Meta.Senders["이수진"])
	}
}

func TestMerge_ResolvesExplicitUser(t *testing.T) {
	log := mustParse(t,
		"2025년 9월 7일 오전 9:00, 수다쟁이 : 1",
		"2025년 9월 7일 오전 9:01, 수다쟁이 : 2",
		"2025년 9월 7일 오전 9:02, 수다쟁이 : 3",
		"2025년 9월 7일 오전 9:03, 조용이 : 4",
	)

	tests := []struct {
		name     string
		userName string
		want     string
	}{
		{"present name wins over higher count", "조용이", "조용이"},
		{"name is trimmed", "  조용이 ", "조용이"},
		{"absent name falls back to most talkative", "없는사람", "수다쟁이"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl, err := Merge([]*ParsedLog{log}, tt.userName)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tl.Meta.UserSender != tt.want {
				t.Errorf("user sender = %q, want %q", tl.Meta.UserSender, tt.want)
			}
		})
	}
}

func TestMerge_Errors(t *testing.T) {
	log := mustParse(t, "2025년 9월 7일 오전 9:00, 김현호 : a")

	if _, err := Merge(nil, "김현호"); !errors.Is(err, ErrNoLogs) {
		t.Errorf("expected ErrNoLogs, got %v", err)
	}
	if _, err := Merge([]*ParsedLog{log}, "   "); !errors.Is(err, ErrEmptyUserName) {
		t.Errorf("expected ErrEmptyUserName, got %v", err)
	}
}

func TestMerge_EmptyLogsHaveNoUser(t *testing.T) {
	empty := mustParse(t, "header only")

	tl, err := Merge([]*ParsedLog{empty}, "김현호")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tl.Meta.UserSender != "" {
		t.Errorf("expected empty user sender, got %q", tl.Meta.UserSender)
	}
	if tl.RawText != "" {
		t.Errorf("expected empty raw text, got %q", tl.RawText)
	}
}

func TestTimeline_UserMessages(t *testing.T) {
	log := mustParse(t,
		"2025년 9월 7일 오전 9:00, 김현호 : a",
		"2025년 9월 7일 오전 9:01, 이수진 : b",
		"2025년 9월 7일 오전 9:02, 김현호 : c",
	)
	tl, err := Merge([]*ParsedLog{log}, "김현호")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := tl.UserMessages()
	if len(got) != 2 || got[0].Text != "a" || got[1].Text != "c" {
		t.Errorf("unexpected user messages: %+v", got)
	}
}

func TestTimeline_UserFallsBackToMostActive(t *testing.T) {
	tl := &Timeline{Messages: []Message{
		{Sender: "이수진", Text: "a"},
		{Sender: "김현호", Text: "b"},
		{Sender: "김현호", Text: "c"},
	}}

	if got := tl.User(); got != "김현호" {
		t.Errorf("User() = %q, want 김현호", got)
	}
	got := tl.UserMessages()
	if len(got) != 2 || got[0].Text != "b" || got[1].Text != "c" {
		t.Errorf("unexpected user messages: %+v", got)
	}
}
