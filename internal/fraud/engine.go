package fraud

import (
	"context"
	"log/slog"
)

// Engine combines the generative scorer with the rule-based fallback.
type Engine struct {
	scorer Scorer
	logger *slog.Logger
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine constructs an Engine. A nil scorer means the fallback is the only
// path, which is a supported deployment mode.
func NewEngine(scorer Scorer, opts ...Option) *Engine {
	e := &Engine{
		scorer: scorer,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze scores the signal vector. It never fails: any problem on the
// primary path drops to the deterministic fallback, so the pipeline always
// gets an assessment.
func (e *Engine) Analyze(ctx context.Context, signals Signals) *Analysis {
	if e.scorer == nil {
		return ScoreFallback(signals)
	}

	prompt, err := BuildPrompt(signals)
	if err != nil {
		e.logger.ErrorContext(ctx, "prompt serialization failed, using fallback scorer",
			slog.String("error", err.Error()))
		return ScoreFallback(signals)
	}

	output, err := e.scorer.Score(ctx, prompt)
	if err != nil {
		e.logger.WarnContext(ctx, "generative scorer unavailable, using fallback scorer",
			slog.String("document_type", signals.DocumentType.String()),
			slog.String("error", err.Error()))
		return ScoreFallback(signals)
	}

	analysis, err := ParseScorerOutput(output)
	if err != nil {
		e.logger.WarnContext(ctx, "scorer output unparseable, using fallback scorer",
			slog.String("error", err.Error()))
		return ScoreFallback(signals)
	}
	return analysis
}
