// Package analysis runs the full pipeline over a set of chat logs: parse,
// merge, extract, score, estimate confidence and narrate.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rlagusgh2199/Real-MBTI-Project/internal/chatlog"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/confidence"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/features"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/hermes"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/lexicon"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/narrator"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/scoring"
)

// InputError marks a request the caller has to fix.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return e.Reason
}

// IsInputError reports whether err is or wraps an *InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// Publisher emits analysis events.
type Publisher interface {
	Publish(subject string, data any) error
}

// File is one exported chat log, already decoded to text.
type File struct {
	Name string
	Text string
}

// Request is one analysis job. RequestID is echoed on the completion event.
type Request struct {
	RequestID string
	UserName  string
	Files     []File
}

// MBTI is the score result plus the narrated persona overview.
type MBTI struct {
	*scoring.Result
	PersonaOverview string `json:"persona_overview"`
}

type Meta struct {
	FileCount          int    `json:"file_count"`
	UserNameInput      string `json:"user_name_input"`
	UserSenderResolved string `json:"user_sender_resolved"`
}

// Response is the full analysis outcome.
type Response struct {
	AnalysisID string            `json:"analysis_id"`
	MBTI       MBTI              `json:"mbti"`
	Confidence confidence.Result `json:"confidence"`
	Label      narrator.Label    `json:"label"`
	Report     string            `json:"report"`
	Meta       Meta              `json:"meta"`
}

// Analyzer is safe for concurrent use.
type Analyzer struct {
	lexicon  *lexicon.Lexicon
	narrator narrator.Narrator
	events   Publisher
	timeout  time.Duration
	logger   *slog.Logger
}

// New builds an Analyzer. A nil lexicon uses the embedded tables, a nil
// narrator the fallback one, and a nil publisher disables events. A zero
// timeout leaves narration bounded only by the caller's context.
func New(lx *lexicon.Lexicon, n narrator.Narrator, events Publisher, timeout time.Duration, logger *slog.Logger) *Analyzer {
	if lx == nil {
		lx = lexicon.Default()
	}
	if n == nil {
		n = narrator.Fallback{}
	}
	return &Analyzer{
		lexicon:  lx,
		narrator: n,
		events:   events,
		timeout:  timeout,
		logger:   logger,
	}
}

// Analyze runs the pipeline. Caller mistakes come back as *InputError.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Response, error) {
	if len(req.Files) == 0 {
		return nil, &InputError{Reason: "at least one chat log file is required"}
	}
	userName := strings.TrimSpace(req.UserName)
	if userName == "" {
		return nil, &InputError{Reason: "user name must not be empty"}
	}

	logs, err := a.parseAll(ctx, req.Files)
	if err != nil {
		return nil, err
	}

	tl, err := chatlog.Merge(logs, userName)
	if err != nil {
		return nil, fmt.Errorf("merge logs: %w", err)
	}
	if tl.Meta.UserSender != userName {
		a.logger.Info("user name not found among senders, using most active sender",
			"user_name", userName,
			"resolved", tl.Meta.UserSender,
		)
	}

	feats := features.Extract(tl, a.lexicon)
	result := scoring.Score(feats)
	conf := confidence.Estimate(feats, len(req.Files))

	resp := &Response{
		AnalysisID: uuid.NewString(),
		MBTI:       MBTI{Result: result},
		Confidence: conf,
		Meta: Meta{
			FileCount:          len(req.Files),
			UserNameInput:      userName,
			UserSenderResolved: tl.Meta.UserSender,
		},
	}
	if err := a.narrate(ctx, resp); err != nil {
		return nil, err
	}

	a.publishCompleted(req.RequestID, resp)

	a.logger.Info("analysis completed",
		"analysis_id", resp.AnalysisID,
		"type", result.Type,
		"persona", result.Persona,
		"confidence", conf.Score,
		"files", len(req.Files),
		"messages", tl.Meta.MessageCount,
	)
	return resp, nil
}

// parseAll parses files concurrently, keeping their input order.
func (a *Analyzer) parseAll(ctx context.Context, files []File) ([]*chatlog.ParsedLog, error) {
	logs := make([]*chatlog.ParsedLog, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			log, err := chatlog.ParseString(f.Text)
			if errors.Is(err, chatlog.ErrInvalidTimestamp) {
				return &InputError{Reason: fmt.Sprintf("%s: %v", f.Name, err)}
			}
			if err != nil {
				return fmt.Errorf("parse %s: %w", f.Name, err)
			}
			if log.Meta.MessageCount == 0 {
				return &InputError{Reason: fmt.Sprintf("%s: no chat messages recognized", f.Name)}
			}
			a.logger.Debug("chat log parsed",
				"file", f.Name,
				"lines", log.Meta.LineCount,
				"messages", log.Meta.MessageCount,
				"dropped_lines", log.Meta.DroppedLines,
			)
			logs[i] = log
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return logs, nil
}

// narrate fills the label, report and persona overview in parallel. Narrators
// never fail, so only a cancelled caller context is reported.
func (a *Analyzer) narrate(ctx context.Context, resp *Response) error {
	nctx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		nctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	res := resp.MBTI.Result
	var g errgroup.Group
	g.Go(func() error {
		resp.Label = a.narrator.Label(nctx, res, resp.Confidence)
		return nil
	})
	g.Go(func() error {
		resp.Report = a.narrator.Report(nctx, res, resp.Confidence)
		return nil
	})
	g.Go(func() error {
		resp.MBTI.PersonaOverview = a.narrator.PersonaOverview(nctx, res)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("narrate: %w", err)
	}
	return nil
}

func (a *Analyzer) publishCompleted(requestID string, resp *Response) {
	if a.events == nil {
		return
	}
	res := resp.MBTI.Result
	evt := hermes.AnalysisCompleted{
		RequestID:       requestID,
		AnalysisID:      resp.AnalysisID,
		Type:            res.Type,
		Scores:          res.Scores,
		Persona:         string(res.Persona),
		ConfidenceScore: resp.Confidence.Score,
		ConfidenceLevel: resp.Confidence.Level,
		FileCount:       resp.Meta.FileCount,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}
	if err := a.events.Publish(hermes.SubjectAnalysisCompleted, evt); err != nil {
		a.logger.Error("failed to publish analysis completed", "analysis_id", resp.AnalysisID, "error", err)
	}
}
