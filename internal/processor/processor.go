package processor

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rlagusgh2199/Real-MBTI-Project/internal/analysis"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/hermes"
)

// Analyzer runs one analysis.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Response, error)
}

// Processor answers analysis requests arriving over NATS. Completion events
// come from the analyzer itself; the processor reports failures.
type Processor struct {
	analyzer Analyzer
	events   analysis.Publisher
	logger   *slog.Logger
}

func New(a Analyzer, events analysis.Publisher, logger *slog.Logger) *Processor {
	return &Processor{
		analyzer: a,
		events:   events,
		logger:   logger,
	}
}

// HandleAnalysisRequested is the NATS handler for realmbti.analysis.requested.
func (p *Processor) HandleAnalysisRequested(subject string, data []byte) {
	ctx := context.Background()

	var evt hermes.AnalysisRequested
	if err := json.Unmarshal(data, &evt); err != nil {
		p.logger.Error("failed to parse analysis request", "subject", subject, "error", err)
		return
	}
	if evt.RequestID == "" {
		evt.RequestID = uuid.NewString()
		p.logger.Warn("analysis request without id, assigned one", "request_id", evt.RequestID)
	}

	p.logger.Info("processing analysis request",
		"request_id", evt.RequestID,
		"files", len(evt.Files),
	)

	files := make([]analysis.File, len(evt.Files))
	for i, f := range evt.Files {
		files[i] = analysis.File{Name: f.Name, Text: f.Text}
	}

	resp, err := p.analyzer.Analyze(ctx, analysis.Request{
		RequestID: evt.RequestID,
		UserName:  evt.UserName,
		Files:     files,
	})
	if err != nil {
		inputErr := analysis.IsInputError(err)
		if inputErr {
			p.logger.Warn("analysis request rejected", "request_id", evt.RequestID, "error", err)
		} else {
			p.logger.Error("analysis failed", "request_id", evt.RequestID, "error", err)
		}
		if err := p.events.Publish(hermes.SubjectAnalysisFailed, hermes.AnalysisFailed{
			RequestID:  evt.RequestID,
			Error:      err.Error(),
			InputError: inputErr,
		}); err != nil {
			p.logger.Error("failed to publish analysis failed", "request_id", evt.RequestID, "error", err)
		}
		return
	}

	p.logger.Info("analysis request processed",
		"request_id", evt.RequestID,
		"analysis_id", resp.AnalysisID,
		"type", resp.MBTI.Type,
	)
}
