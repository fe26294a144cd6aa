package summarize

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// KnowledgeLevel controls the phrasing of a summary, nothing else.
type KnowledgeLevel string

// Valid knowledge levels.
const (
	Beginner     KnowledgeLevel = "Beginner"
	Intermediate KnowledgeLevel = "Intermediate"
	Expert       KnowledgeLevel = "Expert"
)

// Levels lists the valid knowledge levels.
var Levels = []KnowledgeLevel{Beginner, Intermediate, Expert}

// ParseLevel validates a knowledge level string.
func ParseLevel(s string) (KnowledgeLevel, error) {
	for _, level := range Levels {
		if strings.EqualFold(s, string(level)) {
			return level, nil
		}
	}
	return "", fmt.Errorf("unknown knowledge level %q (valid: Beginner, Intermediate, Expert)", s)
}

// maxInputChars caps the article text submitted to the model. The model
// itself is not the constraint here; the cap bounds cost and latency.
const maxInputChars = 4000

// Fixed fallback strings returned when the underlying model call fails.
// Callers receive these as degraded results, never an error.
const (
	summaryFallback = "An error occurred during summarization."
	answerFallback  = "I'm sorry, I couldn't process that question at the moment."
)

const summaryPrompt = `Please summarize the following article.
Knowledge level: %s.
If the reader is a Beginner, make it more accessible with simple explanations.
If the reader is an Expert, you can use technical terminology where appropriate.
Keep the summary clear and concise (2-5 sentences).

Article content:
%s`

const questionPrompt = `Please answer the following question about AI or technology.
Be accurate, helpful, and concise.

Question: %s`

// Provider is a single black-box text-in/text-out model call.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Summary is the result of a summarization call. Degraded means the model
// call failed and Text holds the fixed fallback string, not a real summary;
// call sites must not treat it as one.
type Summary struct {
	Text     string
	Degraded bool
}

// Client wraps a model provider with the summarization contract: bounded
// input, level-aware prompting, and degradation instead of errors.
type Client struct {
	provider Provider
}

// NewClient creates a summarizer client over the given provider.
func NewClient(provider Provider) *Client {
	return &Client{provider: provider}
}

// Summarize produces a knowledge-level-aware summary of the given text.
// Input is truncated to 4000 characters before submission. A failed model
// call yields the fixed fallback string tagged Degraded; it never returns an
// error, so a summarization failure cannot abort ingestion of an article.
func (c *Client) Summarize(ctx context.Context, text string, level KnowledgeLevel) Summary {
	prompt := fmt.Sprintf(summaryPrompt, level, truncate(text, maxInputChars))

	out, err := c.provider.Generate(ctx, prompt)
	if err != nil {
		log.Printf("Warning: summarization failed: %v", err)
		return Summary{Text: summaryFallback, Degraded: true}
	}

	return Summary{Text: strings.TrimSpace(out)}
}

// Ask answers a free-form question, optionally grounded in article content
// passed as context. Same degradation contract as Summarize.
func (c *Client) Ask(ctx context.Context, question, articleContext string) Summary {
	prompt := fmt.Sprintf(questionPrompt, question)
	if articleContext != "" {
		prompt += fmt.Sprintf("\n\nContext (use this information to help with your answer):\n%s",
			truncate(articleContext, maxInputChars))
	}

	out, err := c.provider.Generate(ctx, prompt)
	if err != nil {
		log.Printf("Warning: question answering failed: %v", err)
		return Summary{Text: answerFallback, Degraded: true}
	}

	return Summary{Text: strings.TrimSpace(out)}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
