package scoring

import (
	"math"
	"testing"

	"github.com/rlagusgh2199/Real-MBTI-Project/internal/features"
)

func withTopics(ratios map[string]float64) *features.Features {
	f := &features.Features{HasChat: true, Talkativeness: 1.0}
	for name, r := range ratios {
		f.Topics = append(f.Topics, features.TopicRatio{Name: name, Ratio: r})
	}
	return f
}

func TestPersonaScores_Developer(t *testing.T) {
	f := withTopics(map[string]float64{"development": 0.2, "school": 0.05, "economy": 0.05})

	scores := PersonaScores(f)
	if scores[0].Persona != PersonaDeveloper || math.Abs(scores[0].Score-0.4) > 1e-9 {
		t.Errorf("developer score = %+v, want 0.4", scores[0])
	}
	for _, ps := range scores[1:] {
		if ps.Score != 0 {
			t.Errorf("%s score = %f, want 0", ps.Persona, ps.Score)
		}
	}
	if got := SelectPersona(f); got != PersonaDeveloper {
		t.Errorf("persona = %q, want developer", got)
	}
}

func TestSelectPersona(t *testing.T) {
	tests := []struct {
		name string
		f    *features.Features
		want Persona
	}{
		{"no topics", withTopics(nil), PersonaDefault},
		{"exactly at the floor", withTopics(map[string]float64{"planning": 0.05}), PersonaDefault},
		{"romance", withTopics(map[string]float64{"romance": 0.1}), PersonaSocializer},
		{"planning", withTopics(map[string]float64{"planning": 0.06}), PersonaPlanner},
		{"tie goes to the earlier persona", withTopics(map[string]float64{"school": 0.3, "emotion": 0.3}), PersonaDeveloper},
		{
			name: "game talk makes a hobbyist",
			f: func() *features.Features {
				f := withTopics(nil)
				f.UserGameMsgRatio = 0.2
				return f
			}(),
			want: PersonaHobbyist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectPersona(tt.f); got != tt.want {
				t.Errorf("SelectPersona = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWeightsFor(t *testing.T) {
	tests := []struct {
		persona Persona
		want    Weights
	}{
		{PersonaDefault, Weights{TFSwear: 40, JPNight: -20, JPGame: -20, JPReplyFast: 10}},
		{PersonaDeveloper, Weights{TFSwear: 50, JPNight: -20, JPGame: -20, JPReplyFast: 10}},
		{PersonaSocializer, Weights{TFSwear: 20, JPNight: -20, JPGame: -20, JPReplyFast: 10}},
		{PersonaHobbyist, Weights{TFSwear: 40, JPNight: -30, JPGame: -30, JPReplyFast: 10}},
		{PersonaPlanner, Weights{TFSwear: 40, JPNight: -20, JPGame: -20, JPReplyFast: 15}},
	}

	for _, tt := range tests {
		t.Run(string(tt.persona), func(t *testing.T) {
			if got := WeightsFor(tt.persona); got != tt.want {
				t.Errorf("WeightsFor(%q) = %+v, want %+v", tt.persona, got, tt.want)
			}
		})
	}
	if BaseWeights.TFSwear != 40 {
		t.Error("WeightsFor must not mutate the base weights")
	}
}

func TestPersona_Korean(t *testing.T) {
	if got := PersonaPlanner.Korean(); got != "계획가/체계적" {
		t.Errorf("planner = %q", got)
	}
	if got := Persona("unknown").Korean(); got != "균형잡힌" {
		t.Errorf("unknown = %q", got)
	}
}
