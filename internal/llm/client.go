// Package llm wraps the OpenAI Responses API behind a circuit breaker.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/sony/gobreaker"
)

// ErrEmptyOutput is returned when the model answers with no text.
var ErrEmptyOutput = errors.New("empty response output")

type Client struct {
	oa      openai.Client
	model   string
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// Request is a single-turn completion request.
type Request struct {
	Instructions    string
	Input           string
	MaxOutputTokens int64
	// Effort is the reasoning effort ("low", "medium", "high"); empty leaves
	// the model default.
	Effort string
	// Format, when set, asks for JSON matching the schema.
	Format *Format
}

// Format describes a structured JSON output.
type Format struct {
	Name        string
	Description string
	Schema      map[string]any
}

// NewClient builds a client for model. Extra request options (base URL,
// retries) are passed through to the SDK.
func NewClient(apiKey, model string, logger *slog.Logger, opts ...option.RequestOption) *Client {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)

	settings := gobreaker.Settings{
		Name:        "openai-responses",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
		// Cancellation and deadlines do not count as failures.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
	}

	return &Client{
		oa:      openai.NewClient(opts...),
		model:   model,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Complete sends req and returns the trimmed output text.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	params := responses.ResponseNewParams{
		Model: c.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(req.Input, responses.EasyInputMessageRoleUser),
			},
		},
	}
	if req.Instructions != "" {
		params.Instructions = openai.String(req.Instructions)
	}
	if req.MaxOutputTokens > 0 {
		params.MaxOutputTokens = openai.Int(req.MaxOutputTokens)
	}
	if req.Effort != "" {
		params.Reasoning = shared.ReasoningParam{Effort: shared.ReasoningEffort(req.Effort)}
	}
	if req.Format != nil {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        req.Format.Name,
					Schema:      req.Format.Schema,
					Strict:      openai.Bool(true),
					Description: openai.String(req.Format.Description),
					Type:        "json_schema",
				},
			},
		}
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.oa.Responses.New(ctx, params)
		if err != nil {
			return nil, err
		}
		return resp.OutputText(), nil
	})
	if err != nil {
		return "", fmt.Errorf("responses api: %w", err)
	}

	text := strings.TrimSpace(out.(string))
	if text == "" {
		return "", ErrEmptyOutput
	}
	return text, nil
}
