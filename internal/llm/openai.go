package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/SoberSalman/AutoEngageFYP/internal/chat"
)

// OpenAI generates replies with the chat-completions streaming API,
// folding deltas through the sentence splitter so the first fragment
// reaches the mouth before the reply is complete.
type OpenAI struct {
	client openai.Client
	model  string
}

func NewOpenAI(apiKey, model string, opts ...option.RequestOption) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("openai: api key missing")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAI{client: openai.NewClient(opts...), model: model}, nil
}

func (o *OpenAI) GenerateStream(ctx context.Context, history chat.History, out chan<- string, intr *chat.Interrupt) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(o.model),
		Messages: historyParams(history),
	}
	stream := o.client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	var splitter Splitter
	var emitted []string
	interrupted := false

recv:
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		for _, frag := range splitter.Feed(chunk.Choices[0].Delta.Content) {
			select {
			case <-intr.Fired():
				interrupted = true
				break recv
			case <-ctx.Done():
				interrupted = true
				break recv
			case out <- frag:
				emitted = append(emitted, frag)
			}
		}
	}
	if err := stream.Err(); err != nil && !interrupted {
		return "", fmt.Errorf("openai stream: %w", err)
	}

	if !interrupted {
		if tail := splitter.Flush(); tail != "" {
			select {
			case <-intr.Fired():
			case <-ctx.Done():
			case out <- tail:
				emitted = append(emitted, tail)
			}
		}
	}
	return strings.Join(emitted, " "), nil
}

func historyParams(history chat.History) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(history))
	for _, t := range history {
		switch t.Role {
		case chat.RoleSystem:
			msgs = append(msgs, openai.SystemMessage(t.Text))
		case chat.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(t.Text))
		default:
			msgs = append(msgs, openai.UserMessage(t.Text))
		}
	}
	return msgs
}
