package confidence

import (
	"testing"

	"github.com/rlagusgh2199/Real-MBTI-Project/internal/features"
)

func TestDataAmountScore(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{0, 20},
		{199, 20},
		{200, 40},
		{799, 40},
		{800, 60},
		{1999, 60},
		{2000, 80},
		{4999, 80},
		{5000, 95},
		{100000, 95},
	}

	for _, tt := range tests {
		if got := DataAmountScore(tt.words); got != tt.want {
			t.Errorf("DataAmountScore(%d) = %d, want %d", tt.words, got, tt.want)
		}
	}
}

func TestSourceDiversityScore(t *testing.T) {
	tests := []struct {
		sources int
		want    int
	}{
		{0, 40},
		{1, 40},
		{2, 60},
		{3, 75},
		{4, 90},
		{12, 90},
	}

	for _, tt := range tests {
		if got := SourceDiversityScore(tt.sources); got != tt.want {
			t.Errorf("SourceDiversityScore(%d) = %d, want %d", tt.sources, got, tt.want)
		}
	}
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		name      string
		words     int
		sources   int
		wantScore int
		wantLevel string
	}{
		{"2000 words two files", 2000, 2, 74, LevelHigh},
		{"1999 words two files", 1999, 2, 60, LevelMedium},
		{"tiny single file", 10, 1, 26, LevelLow},
		{"half rounds to even", 100, 3, 36, LevelLow},
		{"large and diverse", 6000, 4, 94, LevelHigh},
		{"boundary 70 is high", 4000, 2, 74, LevelHigh},
		{"boundary 40 is medium", 300, 1, 40, LevelMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &features.Features{WordCount: tt.words, RoomWordCount: tt.words * 2, HasChat: true}
			got := Estimate(f, tt.sources)
			if got.Score != tt.wantScore {
				t.Errorf("score = %d, want %d", got.Score, tt.wantScore)
			}
			if got.Level != tt.wantLevel {
				t.Errorf("level = %q, want %q", got.Level, tt.wantLevel)
			}
			if got.WordCount != tt.words || got.RoomWordCount != tt.words*2 || got.SourceCount != tt.sources {
				t.Errorf("echoed inputs = %+v", got)
			}
		})
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, LevelLow},
		{39, LevelLow},
		{40, LevelMedium},
		{69, LevelMedium},
		{70, LevelHigh},
		{100, LevelHigh},
	}

	for _, tt := range tests {
		if got := LevelFor(tt.score); got != tt.want {
			t.Errorf("LevelFor(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
