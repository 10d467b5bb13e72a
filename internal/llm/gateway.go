package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/maumlog/maumlog-backend/internal/clients/openai"
	"github.com/maumlog/maumlog-backend/internal/pkg/apperr"
	"github.com/maumlog/maumlog-backend/internal/pkg/httpx"
	"github.com/maumlog/maumlog-backend/internal/pkg/logger"
)

// Validatable lets an extraction target enforce constraints the JSON schema
// cannot express (ranges, list lengths, vocabulary membership). A failed
// Validate counts against the schema retry budget.
type Validatable interface {
	Validate() error
}

// Gateway is the single entry point to the chat model. Stateless and safe
// for concurrent use.
type Gateway interface {
	// Complete renders a plain-text completion.
	Complete(ctx context.Context, system, user string) (string, error)

	// Extract runs a structured-output completion constrained to schema and
	// decodes the result into out. Retries once (by default) when the model
	// output does not decode or validate, then fails with
	// apperr.ErrSchemaValidation.
	Extract(ctx context.Context, system, user, schemaName string, schema map[string]any, out any) error
}

type gateway struct {
	client        openai.Client
	log           *logger.Logger
	schemaRetries int
}

type Option func(*gateway)

// WithSchemaRetries overrides the structured-output retry budget.
func WithSchemaRetries(n int) Option {
	return func(g *gateway) {
		if n >= 0 {
			g.schemaRetries = n
		}
	}
}

func NewGateway(client openai.Client, baseLog *logger.Logger, opts ...Option) Gateway {
	g := &gateway{
		client:        client,
		log:           baseLog.With("service", "LLMGateway"),
		schemaRetries: 1,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *gateway) Complete(ctx context.Context, system, user string) (string, error) {
	text, err := g.client.GenerateText(ctx, system, user)
	if err != nil {
		return "", classify(err)
	}
	return text, nil
}

func (g *gateway) Extract(ctx context.Context, system, user, schemaName string, schema map[string]any, out any) error {
	var lastErr error
	for attempt := 0; attempt <= g.schemaRetries; attempt++ {
		raw, err := g.client.GenerateJSON(ctx, system, user, schemaName, schema)
		if err != nil {
			return classify(err)
		}

		if err := decodeStrict(raw, out); err != nil {
			lastErr = err
			g.log.Warn("Structured output failed validation",
				"schema", schemaName,
				"attempt", attempt+1,
				"error", err,
			)
			continue
		}
		return nil
	}
	return fmt.Errorf("%w: schema=%s: %v", apperr.ErrSchemaValidation, schemaName, lastErr)
}

func decodeStrict(raw json.RawMessage, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return err
	}
	if v, ok := out.(Validatable); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// classify maps raw client errors onto the pipeline's error kinds.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var refusal *openai.RefusalError
	if errors.As(err, &refusal) {
		return fmt.Errorf("%w: %s", apperr.ErrContentFiltered, refusal.Reason)
	}
	var httpErr *openai.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == 429 {
			return fmt.Errorf("%w: %v", apperr.ErrRateLimited, err)
		}
		if httpx.RetryableStatus(httpErr.StatusCode) {
			return fmt.Errorf("%w: %v", apperr.ErrModelUnavailable, err)
		}
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", apperr.ErrModelUnavailable, err)
	}
	return err
}
