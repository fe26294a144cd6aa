package summarize

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider records the prompt it received and returns a canned result.
type fakeProvider struct {
	lastPrompt string
	response   string
	err        error
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

// TestSummarize_Success verifies a normal summarization round-trip
func TestSummarize_Success(t *testing.T) {
	provider := &fakeProvider{response: "  A concise summary.  "}
	client := NewClient(provider)

	summary := client.Summarize(context.Background(), "Some article text.", Intermediate)

	assert.False(t, summary.Degraded)
	assert.Equal(t, "A concise summary.", summary.Text)
	assert.Contains(t, provider.lastPrompt, "Knowledge level: Intermediate.")
	assert.Contains(t, provider.lastPrompt, "Some article text.")
}

// TestSummarize_LevelChangesPromptOnly verifies the level only alters the
// instruction text
func TestSummarize_LevelChangesPromptOnly(t *testing.T) {
	provider := &fakeProvider{response: "ok"}
	client := NewClient(provider)

	client.Summarize(context.Background(), "text", Beginner)
	assert.Contains(t, provider.lastPrompt, "Knowledge level: Beginner.")

	client.Summarize(context.Background(), "text", Expert)
	assert.Contains(t, provider.lastPrompt, "Knowledge level: Expert.")
}

// TestSummarize_TruncatesInput verifies the 4000-character cap
func TestSummarize_TruncatesInput(t *testing.T) {
	provider := &fakeProvider{response: "ok"}
	client := NewClient(provider)

	long := strings.Repeat("x", 5000)
	client.Summarize(context.Background(), long, Intermediate)

	assert.Contains(t, provider.lastPrompt, strings.Repeat("x", 4000))
	assert.NotContains(t, provider.lastPrompt, strings.Repeat("x", 4001),
		"input should reach the provider at no more than 4000 chars")
}

// TestSummarize_FailureReturnsFallback verifies the degraded result
func TestSummarize_FailureReturnsFallback(t *testing.T) {
	provider := &fakeProvider{err: errors.New("quota exceeded")}
	client := NewClient(provider)

	summary := client.Summarize(context.Background(), "text", Intermediate)

	assert.True(t, summary.Degraded)
	assert.Equal(t, "An error occurred during summarization.", summary.Text)
}

// TestAsk_WithContext verifies the context block is appended
func TestAsk_WithContext(t *testing.T) {
	provider := &fakeProvider{response: "Because transformers."}
	client := NewClient(provider)

	answer := client.Ask(context.Background(), "Why?", "Article body here.")

	assert.False(t, answer.Degraded)
	assert.Equal(t, "Because transformers.", answer.Text)
	assert.Contains(t, provider.lastPrompt, "Question: Why?")
	assert.Contains(t, provider.lastPrompt, "Article body here.")
}

// TestAsk_FailureReturnsFallback verifies the Q&A fallback string
func TestAsk_FailureReturnsFallback(t *testing.T) {
	provider := &fakeProvider{err: errors.New("timeout")}
	client := NewClient(provider)

	answer := client.Ask(context.Background(), "Why?", "")

	assert.True(t, answer.Degraded)
	assert.Equal(t, "I'm sorry, I couldn't process that question at the moment.", answer.Text)
}

// TestParseLevel verifies level validation
func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("expert")
	require.NoError(t, err)
	assert.Equal(t, Expert, level)

	_, err = ParseLevel("wizard")
	assert.Error(t, err)
}

// TestNewProvider_Unknown verifies provider validation
func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider("mystery", "", "key")
	assert.Error(t, err)
}

// TestNewProvider_MissingKey verifies the API key is required
func TestNewProvider_MissingKey(t *testing.T) {
	_, err := NewProvider("gemini", "", "")
	assert.Error(t, err)
}

// TestGeminiProvider_Generate verifies the Gemini request/response shape
func TestGeminiProvider_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"generated"}]}}]}`)
	}))
	defer server.Close()

	provider := &geminiProvider{
		apiKey:   "test-key",
		model:    "gemini-1.5-pro",
		client:   server.Client(),
		endpoint: server.URL,
	}

	out, err := provider.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "generated", out)
}

// TestGeminiProvider_HTTPError verifies non-200 responses surface as errors
func TestGeminiProvider_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := &geminiProvider{
		apiKey:   "test-key",
		model:    "gemini-1.5-pro",
		client:   server.Client(),
		endpoint: server.URL,
	}

	_, err := provider.Generate(context.Background(), "prompt")
	assert.Error(t, err)
}

// TestOpenAIProvider_Generate verifies the OpenAI request/response shape
func TestOpenAIProvider_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"choices":[{"message":{"content":"generated"}}]}`)
	}))
	defer server.Close()

	provider := &openaiProvider{
		apiKey:   "test-key",
		model:    "gpt-4o-mini",
		client:   server.Client(),
		endpoint: server.URL,
	}

	out, err := provider.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "generated", out)
}

// TestOpenAIProvider_EmptyResponse verifies an empty choices list errors
func TestOpenAIProvider_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer server.Close()

	provider := &openaiProvider{
		apiKey:   "test-key",
		model:    "gpt-4o-mini",
		client:   server.Client(),
		endpoint: server.URL,
	}

	_, err := provider.Generate(context.Background(), "prompt")
	assert.Error(t, err)
}
