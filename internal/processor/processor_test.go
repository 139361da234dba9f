package processor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/rlagusgh2199/Real-MBTI-Project/internal/analysis"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/hermes"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	events   []any
}

func (p *recordingPublisher) Publish(subject string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	p.events = append(p.events, data)
	return nil
}

func (p *recordingPublisher) failures() []hermes.AnalysisFailed {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []hermes.AnalysisFailed
	for i, s := range p.subjects {
		if s == hermes.SubjectAnalysisFailed {
			out = append(out, p.events[i].(hermes.AnalysisFailed))
		}
	}
	return out
}

const room = `2025년 9월 7일 오후 11:22, 김현호 : 오늘 밤에 롤 한판?
2025년 9월 7일 오후 11:25, 이수진 : 좋아 ㅋㅋ
`

func TestHandleAnalysisRequested_Success(t *testing.T) {
	pub := &recordingPublisher{}
	p := New(analysis.New(nil, nil, pub, 0, discardLogger()), pub, discardLogger())

	data, err := json.Marshal(hermes.AnalysisRequested{
		RequestID: "req-7",
		UserName:  "김현호",
		Files:     []hermes.RequestedFile{{Name: "room.txt", Text: room}},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	p.HandleAnalysisRequested(hermes.SubjectAnalysisRequested, data)

	if len(pub.subjects) != 1 || pub.subjects[0] != hermes.SubjectAnalysisCompleted {
		t.Fatalf("expected a single completed event, got %v", pub.subjects)
	}
	evt := pub.events[0].(hermes.AnalysisCompleted)
	if evt.RequestID != "req-7" {
		t.Errorf("expected request id req-7, got %q", evt.RequestID)
	}
	if evt.FileCount != 1 {
		t.Errorf("expected file count 1, got %d", evt.FileCount)
	}
}

func TestHandleAnalysisRequested_InputError(t *testing.T) {
	pub := &recordingPublisher{}
	p := New(analysis.New(nil, nil, pub, 0, discardLogger()), pub, discardLogger())

	p.HandleAnalysisRequested(hermes.SubjectAnalysisRequested, []byte(`{"request_id":"req-8","user_name":"김현호","files":[]}`))

	failed := pub.failures()
	if len(failed) != 1 {
		t.Fatalf("expected one failed event, got %v", pub.subjects)
	}
	if failed[0].RequestID != "req-8" || !failed[0].InputError || failed[0].Error == "" {
		t.Errorf("unexpected failure event %+v", failed[0])
	}
}

type brokenAnalyzer struct{}

func (brokenAnalyzer) Analyze(context.Context, analysis.Request) (*analysis.Response, error) {
	return nil, errors.New("disk on fire")
}

func TestHandleAnalysisRequested_InternalError(t *testing.T) {
	pub := &recordingPublisher{}
	p := New(brokenAnalyzer{}, pub, discardLogger())

	p.HandleAnalysisRequested(hermes.SubjectAnalysisRequested, []byte(`{"user_name":"김현호","files":[{"name":"a.txt","text":""}]}`))

	failed := pub.failures()
	if len(failed) != 1 {
		t.Fatalf("expected one failed event, got %v", pub.subjects)
	}
	if failed[0].InputError {
		t.Error("internal errors must not be flagged as input errors")
	}
	if failed[0].RequestID == "" {
		t.Error("a request id should be assigned when missing")
	}
	if failed[0].Error != "disk on fire" {
		t.Errorf("unexpected error text %q", failed[0].Error)
	}
}

func TestHandleAnalysisRequested_MalformedPayload(t *testing.T) {
	pub := &recordingPublisher{}
	p := New(brokenAnalyzer{}, pub, discardLogger())

	p.HandleAnalysisRequested(hermes.SubjectAnalysisRequested, []byte(`not json`))

	if len(pub.subjects) != 0 {
		t.Errorf("malformed payloads should be dropped, got %v", pub.subjects)
	}
}
