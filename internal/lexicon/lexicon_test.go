package lexicon

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefault_Tables(t *testing.T) {
	lx := Default()

	wantTopics := []string{
		"daily_life", "emotion", "planning", "development", "school",
		"hobby", "meme", "info_request", "economy", "romance",
	}
	if got := lx.TopicNames(); !reflect.DeepEqual(got, wantTopics) {
		t.Errorf("topic names = %v, want %v", got, wantTopics)
	}
	if len(lx.Emoticons) != 11 {
		t.Errorf("expected 11 emoticon patterns, got %d", len(lx.Emoticons))
	}
	if lx.EmoticonPlaceholder != "이모티콘" {
		t.Errorf("placeholder = %q", lx.EmoticonPlaceholder)
	}
	if len(lx.FirstPerson) != 10 || len(lx.Positive) != 15 || len(lx.Negative) != 14 {
		t.Errorf("unexpected list sizes: first_person=%d positive=%d negative=%d",
			len(lx.FirstPerson), len(lx.Positive), len(lx.Negative))
	}
	if len(lx.Swear) != 16 || len(lx.Game) != 21 {
		t.Errorf("unexpected list sizes: swear=%d game=%d", len(lx.Swear), len(lx.Game))
	}
}

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	lx, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lx.Topics) != 10 {
		t.Errorf("expected default topics, got %d", len(lx.Topics))
	}
}

func TestLoad_OverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	data := `
emoticons: [":)"]
game: ["chess"]
topics:
  - name: work
    keywords: ["deadline"]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	lx, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(lx.Game, []string{"chess"}) {
		t.Errorf("game = %v", lx.Game)
	}
	if len(lx.Topics) != 1 || lx.Topics[0].Name != "work" {
		t.Errorf("topics = %+v", lx.Topics)
	}
}

func TestLoad_NotFound(t *testing.T) {
	if _, err := Load("/nonexistent/lexicon.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no emoticons", `game: ["a"]`},
		{"duplicate topic", "emoticons: [\"ㅋ\"]\ntopics:\n  - name: a\n    keywords: [x]\n  - name: a\n    keywords: [y]\n"},
		{"empty keyword", "emoticons: [\"ㅋ\"]\nswear: [\"\"]\n"},
		{"topic without name", "emoticons: [\"ㅋ\"]\ntopics:\n  - keywords: [x]\n"},
		{"not yaml", "emoticons: [unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}

func TestContainsAny(t *testing.T) {
	if !ContainsAny("오늘 롤 한판?", []string{"롤"}) {
		t.Error("expected match")
	}
	if ContainsAny("안녕", []string{"롤", "게임"}) {
		t.Error("expected no match")
	}
	if ContainsAny("anything", nil) {
		t.Error("nil patterns must not match")
	}
}
