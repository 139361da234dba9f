package scoring

import (
	"encoding/json"
	"fmt"
)

// Explanation holds the rationale lines per letter and the selected persona.
type Explanation struct {
	Persona Persona
	Reasons map[string][]string
}

// For returns the rationale lines for a letter.
func (e Explanation) For(letter string) []string {
	return e.Reasons[letter]
}

// MarshalJSON emits {"persona": ..., "E": [...], ..., "P": [...]}.
func (e Explanation) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(Letters)+1)
	m["persona"] = e.Persona
	for _, l := range Letters {
		lines := e.Reasons[l]
		if lines == nil {
			lines = []string{}
		}
		m[l] = lines
	}
	return json.Marshal(m)
}

func (e Explanation) add(letter, line string) {
	e.Reasons[letter] = append(e.Reasons[letter], line)
}

// explain runs the threshold checks. The checks are independent of the
// numeric formula; their wording is shown to users.
func explain(in inputs, persona Persona) Explanation {
	e := Explanation{Persona: persona, Reasons: make(map[string][]string, len(Letters))}
	for _, l := range Letters {
		e.Reasons[l] = []string{}
	}

	// E / I
	if in.talkativeness > 0 {
		if in.talkativeness >= 1.2 {
			e.add("E", fmt.Sprintf("평균보다 약 %.1f배 더 많이 대화에 참여해, 대화를 주도하는 편입니다.", in.talkativeness))
		} else if in.talkativeness <= 0.8 {
			e.add("I", fmt.Sprintf("평균보다 적게 대화에 참여(%.1f배)하여, 주로 듣는 역할을 하는 편입니다.", in.talkativeness))
		}
	}
	if in.userQuestion >= 0.08 {
		e.add("E", fmt.Sprintf("질문형 메시지 비율이 %.1f%%로 상대에게 자주 말을 겁니다.", in.userQuestion*100))
	} else if in.userQuestion <= 0.02 {
		e.add("I", fmt.Sprintf("질문형 메시지 비율이 %.1f%%로 질문보다는 반응 위주로 대화합니다.", in.userQuestion*100))
	}
	if in.emoji >= 0.02 {
		e.add("E", "이모티콘/감정 표현이 자주 등장해 분위기를 이끄는 편입니다.")
	}

	// S / N
	if in.avgSentenceLen > 0 {
		if in.avgSentenceLen >= 15 {
			e.add("N", fmt.Sprintf("문장 평균 길이가 %.1f 단어로, 한 번에 상대적으로 긴 메시지를 보내는 편입니다.", in.avgSentenceLen))
		} else if in.avgSentenceLen <= 7 {
			e.add("S", fmt.Sprintf("문장 평균 길이가 %.1f 단어로, 짧고 직관적인 표현을 자주 사용합니다.", in.avgSentenceLen))
		}
	}
	if in.night >= 0.3 {
		e.add("N", fmt.Sprintf("야간(밤/새벽)에 보낸 메시지 비율이 %.1f%%로, 늦은 시간대에 활동하는 편입니다.", in.night*100))
	}
	if in.game >= 0.1 {
		e.add("S", fmt.Sprintf("게임/현실 활동 관련 대화 비율이 %.1f%%로, 구체적인 활동과 상황에 대한 이야기가 많습니다.", in.game*100))
	}
	if in.topicDevelopment > 0.05 {
		e.add("N", "개발, 코딩 등 추상적이고 논리적인 주제에 대한 대화가 많습니다.")
	}
	if in.topicDailyLife > 0.1 {
		e.add("S", "일상, 식사, 날씨 등 현실적이고 구체적인 주제의 대화를 자주 나눕니다.")
	}

	// T / F
	if in.negative > 0 {
		e.add("T", fmt.Sprintf("부정적인 단어 비율이 %.2f%%로, 상황을 비판적/현실적으로 보는 표현이 있는 편입니다.", in.negative*100))
	}
	if in.positive > 0 {
		e.add("F", fmt.Sprintf("긍정적인 단어 비율이 %.2f%%로, 좋은 감정을 표현하는 편입니다.", in.positive*100))
	}
	if in.swear > 0 {
		e.add("T", fmt.Sprintf("욕설/강한 표현이 포함된 메시지가 전체의 %.1f%%입니다.", in.swear*100))
	}
	if in.emoji > 0 {
		e.add("F", fmt.Sprintf("이모티콘/감정 표현 비율이 %.2f%%로, 감정을 직접적으로 드러냅니다.", in.emoji*100))
	}
	if in.topicEmotion > 0.03 || in.topicRomance > 0.03 {
		e.add("F", "개인적인 감정이나 연애와 같이 관계 중심적인 대화를 나누는 편입니다.")
	}
	if in.topicEconomy > 0.03 || in.topicInfoRequest > 0.05 {
		e.add("T", "경제, 정보 요청 등 객관적이고 사실 기반의 대화를 하는 경향이 있습니다.")
	}

	// J / P
	if in.avgReply > 0 {
		if in.avgReply <= 10 {
			e.add("J", fmt.Sprintf("평균 답장 시간이 약 %.1f분으로 비교적 빠르게 응답하는 편입니다.", in.avgReply))
		} else if in.avgReply >= 60 {
			e.add("P", fmt.Sprintf("평균 답장 시간이 약 %.1f분으로 꽤 느긋한 편입니다.", in.avgReply))
		}
	}
	if in.night >= 0.3 {
		e.add("P", "야간에 자주 대화를 하는 패턴이 있어, 생활 리듬이 유연한 편일 수 있습니다.")
	}
	if in.game >= 0.1 {
		e.add("P", fmt.Sprintf("게임/여가 관련 대화 비율이 %.1f%%로, 현재의 재미와 즉흥적인 활동을 즐깁니다.", in.game*100))
	}
	if in.topicPlanning > 0.05 {
		e.add("J", "약속, 계획 등 체계적이고 목표 지향적인 대화를 자주 합니다.")
	}
	if in.topicHobby > 0.05 || in.topicMeme > 0.05 {
		e.add("P", "취미, 밈(meme) 등 즉흥적이고 자유로운 주제의 대화를 즐기는 편입니다.")
	}

	return e
}
