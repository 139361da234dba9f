// Package narrator renders a score into labels and prose. Every method
// degrades to a fixed fallback instead of returning an error.
package narrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rlagusgh2199/Real-MBTI-Project/internal/confidence"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/llm"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/scoring"
)

const fallbackKeyword = "기본형"

// Label is a short "modifier + type" tag such as "야행성 ENFP".
type Label struct {
	Label   string `json:"label"`
	Keyword string `json:"keyword"`
}

// Narrator turns scoring output into text.
type Narrator interface {
	Label(ctx context.Context, res *scoring.Result, conf confidence.Result) Label
	Report(ctx context.Context, res *scoring.Result, conf confidence.Result) string
	PersonaOverview(ctx context.Context, res *scoring.Result) string
}

// Completer is the text-generation backend.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// FallbackLabel is the label used whenever generation is unavailable.
func FallbackLabel(typeCode string) Label {
	return Label{Label: fallbackKeyword + " " + typeCode, Keyword: fallbackKeyword}
}

// Fallback is the narrator used without credentials.
type Fallback struct{}

func (Fallback) Label(_ context.Context, res *scoring.Result, _ confidence.Result) Label {
	return FallbackLabel(res.Type)
}

func (Fallback) Report(context.Context, *scoring.Result, confidence.Result) string {
	return ""
}

func (Fallback) PersonaOverview(context.Context, *scoring.Result) string {
	return ""
}

type labelResponse struct {
	Keyword string `json:"keyword" jsonschema:"description=A single Korean modifier word without the MBTI type"`
}

var labelSchema = llm.GenerateSchema[labelResponse]()

// Token budgets and reasoning effort per request kind.
const (
	labelMaxTokens  = 512
	reportMaxTokens = 2000
	effortLabel     = "low"
	effortProse     = "medium"
)

// LLM narrates with a language model.
type LLM struct {
	llm    Completer
	logger *slog.Logger
}

func NewLLM(c Completer, logger *slog.Logger) *LLM {
	return &LLM{llm: c, logger: logger}
}

// Label asks for a one-word modifier and combines it with the type code.
func (n *LLM) Label(ctx context.Context, res *scoring.Result, conf confidence.Result) Label {
	raw, err := n.llm.Complete(ctx, llm.Request{
		Instructions:    labelSystemPrompt,
		Input:           buildLabelPrompt(res, conf),
		MaxOutputTokens: labelMaxTokens,
		Effort:          effortLabel,
		Format: &llm.Format{
			Name:        "MBTILabel",
			Description: "Modifier keyword for an MBTI label",
			Schema:      labelSchema,
		},
	})
	if err != nil {
		n.logger.Warn("label generation failed, using fallback", "error", err, "type", res.Type)
		return FallbackLabel(res.Type)
	}

	var resp labelResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		n.logger.Warn("label response is not JSON, using it as text", "error", err)
		resp.Keyword = raw
	}
	return cleanLabel(resp.Keyword, res.Type)
}

// Report generates the long-form analysis.
func (n *LLM) Report(ctx context.Context, res *scoring.Result, conf confidence.Result) string {
	text, err := n.llm.Complete(ctx, llm.Request{
		Instructions:    reportSystemPrompt,
		Input:           buildReportPrompt(res, conf),
		MaxOutputTokens: reportMaxTokens,
		Effort:          effortProse,
	})
	if err != nil {
		n.logger.Warn("report generation failed", "error", err, "type", res.Type)
		return ""
	}
	return reportHeader + text
}

// PersonaOverview generates a short introduction paragraph.
func (n *LLM) PersonaOverview(ctx context.Context, res *scoring.Result) string {
	text, err := n.llm.Complete(ctx, llm.Request{
		Instructions:    personaSystemPrompt,
		Input:           buildPersonaPrompt(res),
		MaxOutputTokens: reportMaxTokens,
		Effort:          effortProse,
	})
	if err != nil {
		n.logger.Warn("persona overview generation failed", "error", err, "type", res.Type)
		return ""
	}
	return text
}

// cleanLabel strips quotes, keeps the first line and makes sure the label
// ends up as "keyword TYPE".
func cleanLabel(raw, typeCode string) Label {
	cleaned := strings.NewReplacer(`"`, "", "'", "").Replace(raw)
	cleaned, _, _ = strings.Cut(cleaned, "\n")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return FallbackLabel(typeCode)
	}

	var keyword string
	if strings.Contains(cleaned, typeCode) {
		keyword = strings.TrimSpace(strings.ReplaceAll(cleaned, typeCode, ""))
	} else {
		keyword = cleaned
		cleaned = fmt.Sprintf("%s %s", keyword, typeCode)
	}
	if keyword == "" {
		keyword = fallbackKeyword
	}
	return Label{Label: cleaned, Keyword: keyword}
}
