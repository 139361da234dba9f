package narrator

import "github.com/rlagusgh2199/Real-MBTI-Project/internal/features"

// Aspect names besides topic names.
const (
	AspectNeutral    = "neutral"
	AspectNightOwl   = "night_owl"
	AspectEmoji      = "emoji"
	AspectGame       = "game"
	AspectQuestioner = "questioner"
	AspectSwear      = "swear"
	AspectFastReply  = "fast_reply"
	AspectSlowReply  = "slow_reply"
)

type candidate struct {
	name  string
	score float64
}

// DominantAspect names the single most striking trait in f, used to steer
// label generation. Each trait only competes once it passes its threshold;
// the strongest wins and earlier candidates win ties. The dominant topic
// competes with its ratio from 0.15 up.
func DominantAspect(f *features.Features) string {
	if !f.HasChat {
		return AspectNeutral
	}

	var cands []candidate
	if f.UserNightMessageRatio >= 0.7 {
		cands = append(cands, candidate{AspectNightOwl, f.UserNightMessageRatio})
	}
	if f.UserEmojiRatio >= 0.4 {
		cands = append(cands, candidate{AspectEmoji, f.UserEmojiRatio})
	}
	if f.UserGameMsgRatio >= 0.3 {
		cands = append(cands, candidate{AspectGame, f.UserGameMsgRatio})
	}
	if f.UserQuestionRatio >= 0.3 {
		cands = append(cands, candidate{AspectQuestioner, f.UserQuestionRatio})
	}
	if f.UserSwearMsgRatio >= 0.1 {
		cands = append(cands, candidate{AspectSwear, f.UserSwearMsgRatio})
	}

	// A zero average means no reply was observed.
	reply := f.AvgReplyMinutes
	switch {
	case reply > 0 && reply <= 10:
		cands = append(cands, candidate{AspectFastReply, 1.0 - reply/10.0})
	case reply >= 60:
		cands = append(cands, candidate{AspectSlowReply, (min(reply, 180.0) - 60.0) / 120.0})
	}

	if len(f.Topics) > 0 {
		top := f.Topics[0]
		for _, t := range f.Topics[1:] {
			if t.Ratio > top.Ratio {
				top = t
			}
		}
		if top.Ratio >= 0.15 {
			cands = append(cands, candidate{top.Name, top.Ratio})
		}
	}

	if len(cands) == 0 {
		return AspectNeutral
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.score > best.score {
			best = c
		}
	}
	return best.name
}
