// Package confidence rates how much the data behind a score can be trusted.
package confidence

import (
	"math"

	"github.com/rlagusgh2199/Real-MBTI-Project/internal/features"
)

// Levels.
const (
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

// Result is the confidence rating for one analysis.
type Result struct {
	Score                int    `json:"score"`
	Level                string `json:"level"`
	DataAmountScore      int    `json:"data_amount_score"`
	SourceDiversityScore int    `json:"source_diversity_score"`
	WordCount            int    `json:"word_count"`
	RoomWordCount        int    `json:"room_word_count"`
	SourceCount          int    `json:"source_count"`
}

// Estimate rates the user's word count and the number of source files.
// Data volume weighs 70%, source diversity 30%.
func Estimate(f *features.Features, sourceCount int) Result {
	data := DataAmountScore(f.WordCount)
	diversity := SourceDiversityScore(sourceCount)
	score := int(math.RoundToEven(clamp(float64(data)*0.7 + float64(diversity)*0.3)))

	return Result{
		Score:                score,
		Level:                LevelFor(score),
		DataAmountScore:      data,
		SourceDiversityScore: diversity,
		WordCount:            f.WordCount,
		RoomWordCount:        f.RoomWordCount,
		SourceCount:          sourceCount,
	}
}

// DataAmountScore maps the user's word count onto a step scale.
func DataAmountScore(wordCount int) int {
	switch {
	case wordCount < 200:
		return 20
	case wordCount < 800:
		return 40
	case wordCount < 2000:
		return 60
	case wordCount < 5000:
		return 80
	default:
		return 95
	}
}

// SourceDiversityScore rewards analyses built from several files.
func SourceDiversityScore(sourceCount int) int {
	switch {
	case sourceCount <= 1:
		return 40
	case sourceCount == 2:
		return 60
	case sourceCount == 3:
		return 75
	default:
		return 90
	}
}

// LevelFor buckets a 0-100 score.
func LevelFor(score int) string {
	switch {
	case score < 40:
		return LevelLow
	case score < 70:
		return LevelMedium
	default:
		return LevelHigh
	}
}

func clamp(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 100.0 {
		return 100.0
	}
	return v
}
