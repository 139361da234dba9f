package features

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rlagusgh2199/Real-MBTI-Project/internal/chatlog"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/lexicon"
)

// Time-of-day buckets, in tie-break order.
const (
	PeriodNight     = "night"
	PeriodMorning   = "morning"
	PeriodAfternoon = "afternoon"
	PeriodEvening   = "evening"
)

var periods = []string{PeriodNight, PeriodMorning, PeriodAfternoon, PeriodEvening}

const (
	maxNightSamples  = 3
	maxGameSamples   = 3
	maxCommonSamples = 5
	topWordCount     = 10
	topEmojiCount    = 5

	// Gaps of a day or more are not treated as replies.
	replyWindowMinutes = 60 * 24
)

// TopicRatio is the share of user messages mentioning a topic.
type TopicRatio struct {
	Name  string  `json:"name"`
	Ratio float64 `json:"ratio"`
}

// Chat holds the user-specific behavioural features of a merged timeline.
type Chat struct {
	MessageCount int    `json:"kakao_message_count"`
	SenderCount  int    `json:"kakao_sender_count"`
	UserSender   string `json:"user_sender_name"`

	// WordCount is the user's whitespace token count, the figure used for
	// scoring and confidence.
	WordCount     int `json:"word_count"`
	UserWordCount int `json:"user_word_count"`
	RoomWordCount int `json:"room_word_count"`

	UserMessageRatio       float64 `json:"user_message_ratio"`
	Talkativeness          float64 `json:"talkativeness"`
	UserAvgCharsPerMessage float64 `json:"user_avg_chars_per_message"`
	UserNightMessageRatio  float64 `json:"user_night_message_ratio"`
	UserQuestionRatio      float64 `json:"user_question_ratio"`
	UserExclamationRatio   float64 `json:"user_exclamation_ratio"`
	UserEmojiRatio         float64 `json:"user_emoji_ratio"`
	UserSwearMsgRatio      float64 `json:"user_swear_msg_ratio"`
	UserGameMsgRatio       float64 `json:"user_game_msg_ratio"`
	UserNightGameMsgRatio  float64 `json:"user_night_game_msg_ratio"`
	AvgReplyMinutes        float64 `json:"avg_reply_minutes"`

	TimeRatioNight     float64 `json:"user_time_ratio_night"`
	TimeRatioMorning   float64 `json:"user_time_ratio_morning"`
	TimeRatioAfternoon float64 `json:"user_time_ratio_afternoon"`
	TimeRatioEvening   float64 `json:"user_time_ratio_evening"`
	MostActivePeriod   string  `json:"user_most_active_period"`

	TopWords             []string `json:"user_top_words"`
	TopEmojis            []string `json:"user_top_emojis"`
	SampleNightMessages  []string `json:"sample_night_messages"`
	SampleGameMessages   []string `json:"sample_game_messages"`
	SampleCommonMessages []string `json:"sample_common_messages"`

	// Topics follows the lexicon's topic order. Empty when the user has no
	// messages.
	Topics []TopicRatio `json:"-"`

	// Empty is set when the timeline had no messages; only the counts above
	// are meaningful then.
	Empty bool `json:"-"`
}

// ExtractChat computes the user's behavioural features from tl. An empty
// timeline yields the zeroed short form with Empty set.
func ExtractChat(tl *chatlog.Timeline, lx *lexicon.Lexicon) Chat {
	msgs := tl.Messages
	if len(msgs) == 0 {
		return Chat{Empty: true}
	}

	senderCounts := make(map[string]int)
	for _, m := range msgs {
		senderCounts[m.Sender]++
	}
	user := tl.User()
	userMsgs := tl.UserMessages()
	otherCount := len(msgs) - len(userMsgs)

	c := Chat{
		MessageCount:         len(msgs),
		SenderCount:          len(senderCounts),
		UserSender:           user,
		SampleNightMessages:  []string{},
		SampleGameMessages:   []string{},
		SampleCommonMessages: []string{},
	}

	for _, m := range userMsgs {
		c.UserWordCount += countWords(m.Text)
	}
	for _, m := range msgs {
		c.RoomWordCount += countWords(m.Text)
	}
	c.WordCount = c.UserWordCount

	n := len(userMsgs)
	c.UserMessageRatio = float64(n) / float64(len(msgs))
	c.Talkativeness = c.UserMessageRatio / (1.0 / float64(c.SenderCount))

	var (
		chars                   int
		questions, exclamations int
		emojiSum                float64
		swearMsgs, gameMsgs     int
		nightGameMsgs           int
		buckets                 = make(map[string]int, len(periods))
		topicCounts             = make([]int, len(lx.Topics))
		words                   = newCounter()
		emojis                  = newCounter()
	)

	for _, m := range userMsgs {
		t := m.Text
		chars += utf8.RuneCountInString(t)

		period := periodOf(m.Timestamp.Hour())
		buckets[period]++
		if period == PeriodNight && len(c.SampleNightMessages) < maxNightSamples && t != "" {
			c.SampleNightMessages = append(c.SampleNightMessages, t)
		}

		if strings.Contains(t, "?") {
			questions++
		}
		if strings.Contains(t, "!") {
			exclamations++
		}
		emojiSum += emojiLikeRatio(t, lx.Emoticons)

		if lexicon.ContainsAny(t, lx.Swear) {
			swearMsgs++
		}
		if lexicon.ContainsAny(t, lx.Game) {
			gameMsgs++
			if len(c.SampleGameMessages) < maxGameSamples && t != "" {
				c.SampleGameMessages = append(c.SampleGameMessages, t)
			}
			if period == PeriodNight {
				nightGameMsgs++
			}
		}

		for i, topic := range lx.Topics {
			if lexicon.ContainsAny(t, topic.Keywords) {
				topicCounts[i]++
			}
		}

		for _, w := range Tokenize(t) {
			w = strings.ToLower(w)
			if utf8.RuneCountInString(w) < 2 || isDigits(w) {
				continue
			}
			words.add(w, 1)
		}
		for _, p := range lx.Emoticons {
			if k := strings.Count(t, p); k > 0 {
				emojis.add(p, k)
			}
		}
	}

	if n > 0 {
		un := float64(n)
		c.UserAvgCharsPerMessage = float64(chars) / un
		c.UserNightMessageRatio = float64(buckets[PeriodNight]) / un
		c.UserQuestionRatio = float64(questions) / un
		c.UserExclamationRatio = float64(exclamations) / un
		c.UserEmojiRatio = emojiSum / un
		c.UserSwearMsgRatio = float64(swearMsgs) / un
		c.UserGameMsgRatio = float64(gameMsgs) / un
		c.UserNightGameMsgRatio = ratio(nightGameMsgs, gameMsgs)

		c.TimeRatioNight = float64(buckets[PeriodNight]) / un
		c.TimeRatioMorning = float64(buckets[PeriodMorning]) / un
		c.TimeRatioAfternoon = float64(buckets[PeriodAfternoon]) / un
		c.TimeRatioEvening = float64(buckets[PeriodEvening]) / un
		c.MostActivePeriod = mostActive(buckets)

		c.Topics = make([]TopicRatio, len(lx.Topics))
		for i, topic := range lx.Topics {
			c.Topics[i] = TopicRatio{Name: topic.Name, Ratio: float64(topicCounts[i]) / un}
		}
	}

	c.TopWords = words.top(topWordCount)
	c.TopEmojis = emojis.top(topEmojiCount)
	c.SampleCommonMessages = commonSamples(c.TopWords, userMsgs, lx.EmoticonPlaceholder)

	if n > 0 && otherCount > 0 {
		c.AvgReplyMinutes = averageReplyMinutes(msgs, user)
	}
	return c
}

func periodOf(hour int) string {
	switch {
	case hour < 6:
		return PeriodNight
	case hour < 12:
		return PeriodMorning
	case hour < 18:
		return PeriodAfternoon
	default:
		return PeriodEvening
	}
}

func mostActive(buckets map[string]int) string {
	best, bestCount := periods[0], buckets[periods[0]]
	for _, p := range periods[1:] {
		if buckets[p] > bestCount {
			best, bestCount = p, buckets[p]
		}
	}
	return best
}

// countWords is a plain whitespace split, deliberately coarser than Tokenize.
func countWords(text string) int {
	return len(strings.Fields(text))
}

// emojiLikeRatio is the number of emoticon pattern occurrences per
// character, capped at 1.
func emojiLikeRatio(text string, patterns []string) float64 {
	if text == "" {
		return 0.0
	}
	count := 0
	for _, p := range patterns {
		count += strings.Count(text, p)
	}
	return min(1.0, float64(count)/float64(max(1, utf8.RuneCountInString(text))))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// commonSamples picks up to five distinct user messages containing the top
// words, in top-word order. Sticker placeholders and near-empty messages are
// skipped.
func commonSamples(topWords []string, userMsgs []chatlog.Message, placeholder string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, w := range topWords {
		if len(out) >= maxCommonSamples {
			break
		}
		for _, m := range userMsgs {
			t := m.Text
			if placeholder != "" && strings.Contains(t, placeholder) {
				continue
			}
			if utf8.RuneCountInString(strings.TrimSpace(t)) < 2 {
				continue
			}
			if strings.Contains(t, w) && !seen[t] {
				seen[t] = true
				out = append(out, t)
				if len(out) >= maxCommonSamples {
					break
				}
			}
		}
	}
	return out
}

// averageReplyMinutes pairs every non-user message with the nearest later
// user message and averages the gaps that fall strictly inside (0, 1440)
// minutes. Only the nearest user message is considered; if it is out of the
// window the non-user message contributes nothing.
func averageReplyMinutes(msgs []chatlog.Message, user string) float64 {
	var sum float64
	var samples int
	for i, m := range msgs {
		if m.Sender == user {
			continue
		}
		for j := i + 1; j < len(msgs); j++ {
			if msgs[j].Sender != user {
				continue
			}
			minutes := msgs[j].Timestamp.Sub(m.Timestamp).Minutes()
			if minutes > 0 && minutes < replyWindowMinutes {
				sum += minutes
				samples++
			}
			break
		}
	}
	if samples == 0 {
		return 0.0
	}
	return sum / float64(samples)
}

// counter is a frequency table that remembers first-insertion order so that
// equal counts rank in the order they were first seen.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string, n int) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key] += n
}

func (c *counter) top(n int) []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
