// Package scoring converts a feature record into four complementary 0-100
// axis scores with a rule-based additive model.
package scoring

import (
	"math"

	"github.com/rlagusgh2199/Real-MBTI-Project/internal/features"
)

const (
	baseScore = 50.0

	// Axes whose two scores differ by less than this are reported as ambiguous.
	ambiguousMargin = 8
)

// Axis identifies one letter pair. First is the letter that wins a tie.
type Axis struct {
	Key    string // axis_details key, e.g. "E_I"
	Name   string // ambiguous_axes name, e.g. "E/I"
	First  string
	Second string
	// Pole is the letter the formula accumulates toward.
	Pole string
}

// Axes in type-code order.
var Axes = []Axis{
	{Key: "E_I", Name: "E/I", First: "E", Second: "I", Pole: "E"},
	{Key: "S_N", Name: "S/N", First: "S", Second: "N", Pole: "N"},
	{Key: "T_F", Name: "T/F", First: "T", Second: "F", Pole: "T"},
	{Key: "J_P", Name: "J/P", First: "J", Second: "P", Pole: "J"},
}

// Letters in display order.
var Letters = []string{"E", "I", "S", "N", "T", "F", "J", "P"}

// AxisResult is the breakdown of one axis.
type AxisResult struct {
	Dominant      string             `json:"dominant"`
	Margin        int                `json:"margin"`
	Scores        map[string]int     `json:"scores"`
	Contributions map[string]float64 `json:"contributions"`
	Pole          string             `json:"pole"`
	Raw           float64            `json:"raw"`
}

// Result is the outcome of scoring one feature record.
type Result struct {
	Type          string                `json:"type"`
	Scores        map[string]int        `json:"scores"`
	Features      *features.Features    `json:"features"`
	Explanation   Explanation           `json:"explanation"`
	AxisDetails   map[string]AxisResult `json:"axis_details"`
	AmbiguousAxes []string              `json:"ambiguous_axes"`
	Persona       Persona               `json:"persona"`
}

// inputs are the scoring variables with neutral defaults applied for records
// that carry no chat data.
type inputs struct {
	avgSentenceLen   float64
	firstPerson      float64
	question         float64
	exclamation      float64
	positive         float64
	negative         float64
	talkativeness    float64
	night            float64
	userQuestion     float64
	userExclamation  float64
	emoji            float64
	avgReply         float64
	swear            float64
	game             float64
	nightGame        float64
	topicDevelopment float64
	topicDailyLife   float64
	topicEmotion     float64
	topicRomance     float64
	topicEconomy     float64
	topicInfoRequest float64
	topicPlanning    float64
	topicHobby       float64
	topicMeme        float64
}

func newInputs(f *features.Features) inputs {
	in := inputs{
		avgSentenceLen:   f.AvgSentenceLen,
		firstPerson:      f.FirstPersonRatio,
		question:         f.QuestionRatio,
		exclamation:      f.ExclamationRatio,
		positive:         f.PositiveRatio,
		negative:         f.NegativeRatio,
		topicDevelopment: f.Topic("development"),
		topicDailyLife:   f.Topic("daily_life"),
		topicEmotion:     f.Topic("emotion"),
		topicRomance:     f.Topic("romance"),
		topicEconomy:     f.Topic("economy"),
		topicInfoRequest: f.Topic("info_request"),
		topicPlanning:    f.Topic("planning"),
		topicHobby:       f.Topic("hobby"),
		topicMeme:        f.Topic("meme"),
	}
	if !f.HasChat {
		in.talkativeness = 1.0
		in.userQuestion = f.QuestionRatio
		in.userExclamation = f.ExclamationRatio
		return in
	}
	in.talkativeness = f.Talkativeness
	in.night = f.UserNightMessageRatio
	in.userQuestion = f.UserQuestionRatio
	in.userExclamation = f.UserExclamationRatio
	in.emoji = f.UserEmojiRatio
	in.avgReply = f.AvgReplyMinutes
	in.swear = f.UserSwearMsgRatio
	in.game = f.UserGameMsgRatio
	in.nightGame = f.UserNightGameMsgRatio
	return in
}

// term is one named additive contribution.
type term struct {
	name  string
	value float64
}

// Score applies the additive model to f. It is deterministic and never fails.
func Score(f *features.Features) *Result {
	in := newInputs(f)
	persona := SelectPersona(f)
	w := WeightsFor(persona)

	axisTerms := [][]term{
		extraversionTerms(in),
		intuitionTerms(in),
		thinkingTerms(in, w),
		judgingTerms(in, w),
	}

	res := &Result{
		Scores:        make(map[string]int, len(Letters)),
		Features:      f,
		Explanation:   explain(in, persona),
		AxisDetails:   make(map[string]AxisResult, len(Axes)),
		AmbiguousAxes: []string{},
		Persona:       persona,
	}

	typeCode := make([]byte, 0, len(Axes))
	for i, axis := range Axes {
		ar := scoreAxis(axis, axisTerms[i])
		res.AxisDetails[axis.Key] = ar
		res.Scores[axis.First] = ar.Scores[axis.First]
		res.Scores[axis.Second] = ar.Scores[axis.Second]
		typeCode = append(typeCode, ar.Dominant...)
		if ar.Margin < ambiguousMargin {
			res.AmbiguousAxes = append(res.AmbiguousAxes, axis.Name)
		}
	}
	res.Type = string(typeCode)
	return res
}

// scoreAxis sums the terms onto the base score in order, clamps the pole,
// rounds it half to even and derives the other letter as the complement.
func scoreAxis(axis Axis, terms []term) AxisResult {
	raw := baseScore
	contributions := make(map[string]float64, len(terms))
	for _, t := range terms {
		raw += t.value
		contributions[t.name] = t.value
	}
	raw = clamp(raw)

	pole := int(math.RoundToEven(raw))
	other := 100 - pole

	var first, second int
	if axis.Pole == axis.First {
		first, second = pole, other
	} else {
		first, second = other, pole
	}

	dominant := axis.Second
	if first >= second {
		dominant = axis.First
	}
	margin := first - second
	if margin < 0 {
		margin = -margin
	}

	return AxisResult{
		Dominant:      dominant,
		Margin:        margin,
		Scores:        map[string]int{axis.First: first, axis.Second: second},
		Contributions: contributions,
		Pole:          axis.Pole,
		Raw:           raw,
	}
}

func extraversionTerms(in inputs) []term {
	return []term{
		{"question_exclamation", (in.userQuestion + in.userExclamation) * 25.0},
		{"emoji", in.emoji * 30.0},
		{"talkativeness", (in.talkativeness - 1.0) * 20.0},
		{"swear", in.swear * 10.0},
		{"game", in.game * 10.0},
		{"first_person", -(in.firstPerson * 10.0)},
	}
}

func intuitionTerms(in inputs) []term {
	normalizedLen := (in.avgSentenceLen - 5.0) / (30.0 - 5.0)
	return []term{
		{"sentence_length", normalizedLen * 25.0},
		{"night", (in.night - 0.2) * 30.0},
		{"night_game", in.nightGame * 20.0},
	}
}

func thinkingTerms(in inputs, w Weights) []term {
	return []term{
		{"negative", in.negative * 80.0},
		{"positive", -(in.positive * 40.0)},
		{"emoji", -(in.emoji * 20.0)},
		{"swear", in.swear * w.TFSwear},
	}
}

func judgingTerms(in inputs, w Weights) []term {
	reply := 0.0
	if in.avgReply > 0 {
		if in.avgReply <= 5 {
			reply = w.JPReplyFast
		} else if in.avgReply >= 60 {
			reply = -10.0
		}
	}
	return []term{
		{"sentence_length", in.avgSentenceLen * 0.8},
		{"question", -(in.userQuestion * 30.0)},
		{"night", in.night * w.JPNight},
		{"reply_speed", reply},
		// Subtracting a negative weight: more game talk raises J.
		{"game", -(in.game * w.JPGame)},
		{"swear", -(in.swear * 10.0)},
	}
}

func clamp(score float64) float64 {
	if score < 0.0 {
		return 0.0
	}
	if score > 100.0 {
		return 100.0
	}
	return score
}
