package scoring

import "github.com/rlagusgh2199/Real-MBTI-Project/internal/features"

// Persona is the conversational profile inferred from topic ratios. It only
// adjusts a few weights of the T/F and J/P formulas.
type Persona string

const (
	PersonaDeveloper  Persona = "developer"
	PersonaSocializer Persona = "socializer"
	PersonaHobbyist   Persona = "hobbyist"
	PersonaPlanner    Persona = "planner"
	PersonaDefault    Persona = "default"
)

// A persona must score above this to be selected.
const personaFloor = 0.1

// Weights are the persona-dependent term weights.
type Weights struct {
	TFSwear     float64 `json:"t_f_swear"`
	JPNight     float64 `json:"j_p_night"`
	JPGame      float64 `json:"j_p_game"`
	JPReplyFast float64 `json:"j_p_reply_fast"`
}

// BaseWeights apply to the default persona.
var BaseWeights = Weights{
	TFSwear:     40.0,
	JPNight:     -20.0,
	JPGame:      -20.0,
	JPReplyFast: 10.0,
}

// PersonaScore is one candidate of the persona vote.
type PersonaScore struct {
	Persona Persona
	Score   float64
}

// PersonaScores returns the weighted topic sums in evaluation order.
func PersonaScores(f *features.Features) []PersonaScore {
	topic := f.Topic
	return []PersonaScore{
		{PersonaDeveloper, topic("development")*1.5 + topic("school") + topic("economy")},
		{PersonaSocializer, topic("romance")*1.5 + topic("emotion") + topic("daily_life")},
		{PersonaHobbyist, topic("hobby")*1.2 + topic("meme") + f.UserGameMsgRatio},
		{PersonaPlanner, topic("planning") * 2.0},
	}
}

// SelectPersona picks the highest persona score above the floor. Earlier
// candidates win ties.
func SelectPersona(f *features.Features) Persona {
	best, bestScore := PersonaDefault, personaFloor
	for _, ps := range PersonaScores(f) {
		if ps.Score > bestScore {
			best, bestScore = ps.Persona, ps.Score
		}
	}
	return best
}

// WeightsFor returns the base weights with the persona's override applied.
func WeightsFor(p Persona) Weights {
	w := BaseWeights
	switch p {
	case PersonaDeveloper:
		w.TFSwear = 50.0
	case PersonaSocializer:
		w.TFSwear = 20.0
	case PersonaHobbyist:
		w.JPNight = -30.0
		w.JPGame = -30.0
	case PersonaPlanner:
		w.JPReplyFast = 15.0
	}
	return w
}

// Korean reports the persona's display name.
func (p Persona) Korean() string {
	switch p {
	case PersonaDeveloper:
		return "개발자/분석가"
	case PersonaSocializer:
		return "사교가/관계중심"
	case PersonaHobbyist:
		return "취미가/자유로운 영혼"
	case PersonaPlanner:
		return "계획가/체계적"
	default:
		return "균형잡힌"
	}
}
