package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SoberSalman/AutoEngageFYP/internal/chat"
)

const cerebrasEndpoint = "https://api.cerebras.ai/v1/chat/completions"

// Cerebras generates replies through the Cerebras chat-completions API.
// The completion is fetched whole and then emitted fragment by
// fragment, so interruption still cuts the turn short at a sentence
// boundary.
type Cerebras struct {
	HTTPClient *http.Client
	Endpoint   string // override in tests

	apiKey string
	model  string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream,omitempty"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	FinishReason string      `json:"finish_reason"`
	Message      chatMessage `json:"message"`
}

type chatCompletionsResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

func NewCerebras(apiKey, model string) (*Cerebras, error) {
	if apiKey == "" {
		return nil, errors.New("cerebras: api key missing")
	}
	if model == "" {
		return nil, errors.New("cerebras: model missing")
	}
	return &Cerebras{
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Endpoint:   cerebrasEndpoint,
		apiKey:     apiKey,
		model:      model,
	}, nil
}

// GenerateStream fetches the completion for the history and emits it as
// sentence fragments. When intr fires, emission stops and the already
// emitted prefix stands as the turn's text.
func (c *Cerebras) GenerateStream(ctx context.Context, history chat.History, out chan<- string, intr *chat.Interrupt) (string, error) {
	reply, err := c.complete(ctx, historyMessages(history))
	if err != nil {
		return "", err
	}
	return emitFragments(ctx, SplitSentences(reply), out, intr), nil
}

func (c *Cerebras) complete(ctx context.Context, messages []chatMessage) (string, error) {
	reqBody, _ := json.Marshal(chatCompletionsRequest{Model: c.model, Messages: messages})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("cerebras: status=%d body=%s", resp.StatusCode, string(b))
	}
	var cr chatCompletionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", errors.New("cerebras: empty choices")
	}
	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}

// historyMessages converts dialogue turns to the wire message format
// shared by the OpenAI-compatible chat APIs.
func historyMessages(history chat.History) []chatMessage {
	msgs := make([]chatMessage, 0, len(history))
	for _, t := range history {
		msgs = append(msgs, chatMessage{Role: string(t.Role), Content: t.Text})
	}
	return msgs
}

// emitFragments pushes fragments onto out until they run out or intr
// fires, returning the text actually emitted.
func emitFragments(ctx context.Context, frags []string, out chan<- string, intr *chat.Interrupt) string {
	var emitted []string
	for _, f := range frags {
		select {
		case <-intr.Fired():
			return strings.Join(emitted, " ")
		case <-ctx.Done():
			return strings.Join(emitted, " ")
		case out <- f:
			emitted = append(emitted, f)
		}
	}
	return strings.Join(emitted, " ")
}
