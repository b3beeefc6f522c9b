package fraud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Scorer produces a free-text assessment for a serialized signal prompt.
type Scorer interface {
	Score(ctx context.Context, prompt string) (string, error)
}

// LLMScorer is a REST client for a generative scoring service.
type LLMScorer struct {
	apiURL     string
	httpClient *http.Client
}

type llmRequest struct {
	Input string `json:"input"`
}

type llmResponse struct {
	Output string `json:"output"`
}

// NewLLMScorer creates a scorer client against the given endpoint.
func NewLLMScorer(apiURL string, timeout time.Duration) *LLMScorer {
	return &LLMScorer{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Score posts the prompt and returns the raw model output.
func (c *LLMScorer) Score(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(llmRequest{Input: prompt})
	if err != nil {
		return "", fmt.Errorf("encode scorer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build scorer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call scorer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("scorer returned status %d", resp.StatusCode)
	}

	var out llmResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode scorer response: %w", err)
	}
	return out.Output, nil
}

// BuildPrompt serializes the signal vector and weighting table into the
// instruction the scorer receives.
func BuildPrompt(signals Signals) (string, error) {
	payload := struct {
		Signals Signals     `json:"signals"`
		Weights WeightTable `json:"weights"`
	}{
		Signals: signals,
		Weights: WeightsFor(signals.DocumentType),
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode signals: %w", err)
	}

	return fmt.Sprintf(`You are a document fraud analyst for Indian KYC verification.
Assess the following verification signals for a %s document. The weights
indicate how much each signal family should influence your assessment.

%s

Respond with strict JSON only, no prose, matching exactly:
{"fraudProbability": <integer 0-100>, "riskLevel": "LOW"|"MEDIUM"|"HIGH", "confidenceScore": <integer 0-100>, "explanation": "<short reason>", "recommendedAction": "APPROVE"|"MANUAL_REVIEW"|"REJECT", "flags": ["<string>"]}`,
		signals.DocumentType, encoded), nil
}
