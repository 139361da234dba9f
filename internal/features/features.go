// Package features turns a merged chat timeline into the flat feature record
// consumed by scoring and confidence estimation.
package features

import (
	"encoding/json"
	"fmt"

	"github.com/rlagusgh2199/Real-MBTI-Project/internal/chatlog"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/lexicon"
)

// Features is the combined text and chat feature record. Where both extractors
// produce a key, the chat value wins (word_count is the user's word count).
type Features struct {
	WordCount        int     `json:"word_count"`
	SentenceCount    int     `json:"sentence_count"`
	AvgSentenceLen   float64 `json:"avg_sentence_len"`
	FirstPersonRatio float64 `json:"first_person_ratio"`
	QuestionRatio    float64 `json:"question_ratio"`
	ExclamationRatio float64 `json:"exclamation_ratio"`
	PositiveRatio    float64 `json:"positive_ratio"`
	NegativeRatio    float64 `json:"negative_ratio"`

	MessageCount  int    `json:"kakao_message_count"`
	SenderCount   int    `json:"kakao_sender_count"`
	UserSender    string `json:"user_sender_name"`
	UserWordCount int    `json:"user_word_count"`
	RoomWordCount int    `json:"room_word_count"`

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

	// Topics is serialized as flat topic_<name>_ratio keys.
	Topics []TopicRatio `json:"-"`

	// HasChat is false when the chat extractor saw no messages. Scoring then
	// falls back to neutral defaults for the chat-only fields.
	HasChat bool `json:"-"`
}

// Extract runs both extractors over tl and merges the results.
func Extract(tl *chatlog.Timeline, lx *lexicon.Lexicon) *Features {
	return Merge(ExtractText(tl.RawText, lx), ExtractChat(tl, lx))
}

// Merge combines text and chat features into one record.
func Merge(text Text, chat Chat) *Features {
	f := &Features{
		WordCount:        chat.WordCount,
		SentenceCount:    text.SentenceCount,
		AvgSentenceLen:   text.AvgSentenceLen,
		FirstPersonRatio: text.FirstPersonRatio,
		QuestionRatio:    text.QuestionRatio,
		ExclamationRatio: text.ExclamationRatio,
		PositiveRatio:    text.PositiveRatio,
		NegativeRatio:    text.NegativeRatio,

		MessageCount:  chat.MessageCount,
		SenderCount:   chat.SenderCount,
		UserWordCount: chat.UserWordCount,
		RoomWordCount: chat.RoomWordCount,
		HasChat:       !chat.Empty,
	}
	if chat.Empty {
		return f
	}

	f.UserSender = chat.UserSender
	f.UserMessageRatio = chat.UserMessageRatio
	f.Talkativeness = chat.Talkativeness
	f.UserAvgCharsPerMessage = chat.UserAvgCharsPerMessage
	f.UserNightMessageRatio = chat.UserNightMessageRatio
	f.UserQuestionRatio = chat.UserQuestionRatio
	f.UserExclamationRatio = chat.UserExclamationRatio
	f.UserEmojiRatio = chat.UserEmojiRatio
	f.UserSwearMsgRatio = chat.UserSwearMsgRatio
	f.UserGameMsgRatio = chat.UserGameMsgRatio
	f.UserNightGameMsgRatio = chat.UserNightGameMsgRatio
	f.AvgReplyMinutes = chat.AvgReplyMinutes
	f.TimeRatioNight = chat.TimeRatioNight
	f.TimeRatioMorning = chat.TimeRatioMorning
	f.TimeRatioAfternoon = chat.TimeRatioAfternoon
	f.TimeRatioEvening = chat.TimeRatioEvening
	f.MostActivePeriod = chat.MostActivePeriod
	f.TopWords = chat.TopWords
	f.TopEmojis = chat.TopEmojis
	f.SampleNightMessages = chat.SampleNightMessages
	f.SampleGameMessages = chat.SampleGameMessages
	f.SampleCommonMessages = chat.SampleCommonMessages
	f.Topics = chat.Topics
	return f
}

// Topic returns the ratio for the named topic, or 0 when it was not computed.
func (f *Features) Topic(name string) float64 {
	for _, t := range f.Topics {
		if t.Name == name {
			return t.Ratio
		}
	}
	return 0.0
}

// TopicKey is the flat key a topic ratio is serialized under.
func TopicKey(name string) string {
	return fmt.Sprintf("topic_%s_ratio", name)
}

// Keys the short form keeps besides the text features.
var shortFormKeys = map[string]bool{
	"kakao_message_count": true,
	"kakao_sender_count":  true,
	"user_word_count":     true,
	"room_word_count":     true,
}

var textKeys = map[string]bool{
	"word_count":         true,
	"sentence_count":     true,
	"avg_sentence_len":   true,
	"first_person_ratio": true,
	"question_ratio":     true,
	"exclamation_ratio":  true,
	"positive_ratio":     true,
	"negative_ratio":     true,
}

// MarshalJSON emits the record as one flat object. Topic ratios become
// topic_<name>_ratio keys; without chat data only the text features and the
// message counts are emitted.
func (f Features) MarshalJSON() ([]byte, error) {
	type plain Features
	raw, err := json.Marshal(plain(f))
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}

	if !f.HasChat {
		for k := range m {
			if !textKeys[k] && !shortFormKeys[k] {
				delete(m, k)
			}
		}
		return json.Marshal(m)
	}

	for _, t := range f.Topics {
		v, err := json.Marshal(t.Ratio)
		if err != nil {
			return nil, fmt.Errorf("marshal topic %s: %w", t.Name, err)
		}
		m[TopicKey(t.Name)] = v
	}
	return json.Marshal(m)
}
