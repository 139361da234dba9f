package narrator

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rlagusgh2199/Real-MBTI-Project/internal/confidence"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/features"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/scoring"
)

const (
	labelSystemPrompt   = "당신은 창의적인 작명가입니다."
	reportSystemPrompt  = "당신은 전문 심리 분석가이자 데이터 과학자입니다."
	personaSystemPrompt = "너는 한국어로 친근하고 간결하게 성격을 설명해 주는 도우미야."

	reportHeader = "=== Real MBTI 리포트 (AI 분석) ===\n"
)

const labelUserPrompt = `
역할: 카카오톡 대화 기반 MBTI 분석 결과에 어울리는 '수식어+MBTI' 라벨 생성기

입력 정보:
- MBTI: %s (E:%d, N:%d, F:%d, P:%d)
- 주요 특징(Dominant Aspect): %s
- 신뢰도: %d

요청:
- 위 사용자의 특징을 가장 잘 나타내는 '한 단어 수식어'를 창작해줘.
- keyword 필드에 수식어만 넣어줘 (예: "야행성", "칼답러"). MBTI 유형은 넣지 마.
- 설명 금지, 따옴표 금지.
`

const reportUserPrompt = `
너는 'Real MBTI'라는 시스템의 설명을 담당하는 분석가야.
이 시스템은 카카오톡 대화 로그를 기반으로 사용자의 행동 패턴을 분석하고,
규칙 기반으로 MBTI 점수를 계산한 뒤, 너에게 그 결과를 보내 해석을 부탁한다.

[MBTI 점수]
- 유형: %[1]s
- E: %[2]d / I: %[3]d
- S: %[4]d / N: %[5]d
- T: %[6]d / F: %[7]d
- J: %[8]d / P: %[9]d

[추정 페르소나]
- %[10]s (대화 주제 기반 추정)

[텍스트 기반 특징]
- 단어 수: %[11]d, 문장 길이: %[12]v
- 1인칭: %.3[13]f, 질문: %.3[14]f
- 감탄사: %.3[15]f
- 긍정: %.3[16]f, 부정: %.3[17]f

[대화 패턴]
- 총 메시지: %[18]d, 닉네임: %[19]s
- 본인 발화 점유율: %.3[20]f
- 야간 발화 비율: %.3[21]f
- 이모티콘 비율: %.3[22]f
- 욕설/강한 표현: %.3[23]f
- 게임 대화: %.3[24]f (야간 게임: %.3[25]f)
- 질문 비율: %.3[26]f
- 평균 답장 시간: %.1[27]f분

[주요 대화 주제]
%[28]s

[신뢰도]
- %[29]d점 (%[30]s)

요청사항:
1. 사용자의 MBTI 유형(%[1]s)을 한 문단으로 요약 설명해줘.
2. E/I, S/N, T/F, J/P 각 축의 점수와 위 행동 데이터(페르소나, 패턴, 주제)를 연결해서 설명해줘.
   (예: "개발 주제 대화가 많아 T 성향이 높게 측정되었습니다.")
3. 예상되는 생활/대인관계 특징 3~5가지를 bullet point로 작성해줘.
4. 마지막에 이 분석은 카톡 데이터와 알고리즘 기반의 '참고용 분석'임을 명시해줘.
5. 한국어로 부드럽고 전문적인 어조로 작성해줘.
`

const personaUserPrompt = `
너는 'Real MBTI' 서비스에서 사용자를 소개하는 카피를 작성하는 작성자야.

[MBTI 유형]
- %[1]s

[행동 특징 요약]
%[2]s

위 정보를 바탕으로, 이 사용자를 소개하는 짧은 페르소나 개요를 작성해줘.

조건:
- 한국어로 작성
- 3~5문장 정도의 하나의 단락
- "~한 편입니다.", "~하는 스타일입니다." 처럼 부드럽고 자연스러운 말투
- MBTI 이론 강의처럼 딱딱하게 설명하지 말고, 실제 사람을 소개하듯 써줘
- 첫 문장 또는 두 번째 문장 안에 "%[1]s" 라는 타입 이름을 한 번 언급해줘
`

const (
	noTopicsText  = "특별히 두드러지는 대화 주제가 없습니다."
	noReasonsText = "축별 설명은 따로 제공되지 않았습니다."
	defaultName   = "사용자"
)

func buildLabelPrompt(res *scoring.Result, conf confidence.Result) string {
	s := res.Scores
	return fmt.Sprintf(labelUserPrompt, res.Type, s["E"], s["N"], s["F"], s["P"],
		DominantAspect(res.Features), conf.Score)
}

func buildReportPrompt(res *scoring.Result, conf confidence.Result) string {
	f := res.Features
	s := res.Scores
	name := f.UserSender
	if name == "" {
		name = defaultName
	}
	return fmt.Sprintf(reportUserPrompt,
		res.Type,
		s["E"], s["I"], s["S"], s["N"], s["T"], s["F"], s["J"], s["P"],
		res.Persona.Korean(),
		f.WordCount, f.AvgSentenceLen,
		f.FirstPersonRatio, f.QuestionRatio, f.ExclamationRatio,
		f.PositiveRatio, f.NegativeRatio,
		f.MessageCount, name,
		f.UserMessageRatio, f.UserNightMessageRatio, f.UserEmojiRatio,
		f.UserSwearMsgRatio, f.UserGameMsgRatio, f.UserNightGameMsgRatio,
		f.UserQuestionRatio, f.AvgReplyMinutes,
		topicSummary(f),
		conf.Score, conf.Level,
	)
}

func buildPersonaPrompt(res *scoring.Result) string {
	var lines []string
	for _, l := range scoring.Letters {
		reasons := res.Explanation.For(l)
		if len(reasons) == 0 {
			continue
		}
		if len(reasons) > 2 {
			reasons = reasons[:2]
		}
		lines = append(lines, l+": "+strings.Join(reasons, " / "))
	}
	summary := noReasonsText
	if len(lines) > 0 {
		summary = strings.Join(lines, "\n")
	}
	return fmt.Sprintf(personaUserPrompt, res.Type, summary)
}

// topicSummary lists topics above 1% by descending ratio, e.g.
// "- Daily Life: 12.50%".
func topicSummary(f *features.Features) string {
	var topics []features.TopicRatio
	for _, t := range f.Topics {
		if t.Ratio > 0.01 {
			topics = append(topics, t)
		}
	}
	if len(topics) == 0 {
		return noTopicsText
	}
	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Ratio > topics[j].Ratio
	})

	title := cases.Title(language.English)
	lines := make([]string, len(topics))
	for i, t := range topics {
		name := title.String(strings.ReplaceAll(t.Name, "_", " "))
		lines[i] = fmt.Sprintf("- %s: %.2f%%", name, t.Ratio*100)
	}
	return strings.Join(lines, "\n")
}
