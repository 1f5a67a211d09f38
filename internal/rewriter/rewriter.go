package rewriter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"listforge/internal/config"
	"listforge/internal/observability"
)

// maxTitleRunes is the marketplace hard cap on listing titles.
const maxTitleRunes = 80

const titlePrompt = `You are an expert eBay seller. Rewrite this title to maximize clicks and keyword relevance.
Rules:
- 80 characters maximum (hard limit).
- Keep critical keywords first; no keyword stuffing.
- No ALL CAPS, no emojis, no misleading claims.
- Keep brand, year/series, character, #, parallel/variant where applicable.
- American spelling; title case; remove duplicate words.
Original: "%s"
Return ONLY the new title.
`

const descPrompt = `You are an expert eBay seller. Rewrite this description to be clear, factual, and conversion-focused.
Rules:
- Preserve 100%% factual accuracy; do not invent details.
- Open with a concise summary (what it is, key features, condition).
- Then bullet points: condition specifics, inclusions, shipping/returns highlights.
- No prohibited language; no guarantees or unverifiable claims.
- Keep formatting simple (plain text or basic bullets).
Original description:
%s

Return ONLY the revised description (no extra commentary).
`

// Rewriter rewrites listing text for search optimization. Implementations
// never fail a row: on any error the original text is returned unchanged.
type Rewriter interface {
	RewriteTitle(ctx context.Context, title string) string
	RewriteDescription(ctx context.Context, description string) string
}

// New selects an implementation based on the available credential. Without a
// key every rewrite is a passthrough; the choice is made once at startup.
func New(cfg *config.RewriterConfig, apiKey string, metrics *observability.Metrics, logger *slog.Logger) Rewriter {
	if !cfg.Enabled || apiKey == "" {
		logger.Info("rewriter disabled, titles and descriptions pass through unchanged")
		return &Noop{}
	}
	return NewOpenAI(cfg, apiKey, metrics, logger)
}

// Noop returns every input unchanged.
type Noop struct{}

func (n *Noop) RewriteTitle(_ context.Context, title string) string { return title }

func (n *Noop) RewriteDescription(_ context.Context, description string) string {
	return description
}

// OpenAI rewrites text through a chat-completion model.
type OpenAI struct {
	client  *openai.Client
	cfg     *config.RewriterConfig
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewOpenAI creates an API-backed rewriter. BaseURL overrides the endpoint,
// which also makes the client testable against a local server.
func NewOpenAI(cfg *config.RewriterConfig, apiKey string, metrics *observability.Metrics, logger *slog.Logger) *OpenAI {
	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAI{
		client:  openai.NewClientWithConfig(clientCfg),
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.With("component", "rewriter"),
	}
}

// RewriteTitle returns an optimized title, truncated to the marketplace
// limit. Falls back to the original on any API failure.
func (o *OpenAI) RewriteTitle(ctx context.Context, title string) string {
	if strings.TrimSpace(title) == "" {
		return title
	}
	out, err := o.complete(ctx, fmt.Sprintf(titlePrompt, title))
	if err != nil {
		o.fallback("title", err)
		return title
	}
	return truncateRunes(out, maxTitleRunes)
}

// RewriteDescription returns an optimized description. Falls back to the
// original on any API failure.
func (o *OpenAI) RewriteDescription(ctx context.Context, description string) string {
	if strings.TrimSpace(description) == "" {
		return description
	}
	out, err := o.complete(ctx, fmt.Sprintf(descPrompt, description))
	if err != nil {
		o.fallback("description", err)
		return description
	}
	return out
}

func (o *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: o.cfg.Temperature,
		MaxTokens:   o.cfg.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("blank completion text")
	}
	return out, nil
}

func (o *OpenAI) fallback(field string, err error) {
	o.logger.Warn("rewrite failed, keeping original text", "field", field, "error", err)
	if o.metrics != nil {
		o.metrics.RewriteFallbacks.Inc()
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
