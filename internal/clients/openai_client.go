package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	openAIRequestTimeout = 60 * time.Second // Timeout for individual OpenAI API requests
)

const openAITranslatePrompt = `Translate the user's movie review into the language with ISO 639-1 code %q.
Keep emoji, names and the tone of the review. Return only the translated text, with no quotes or explanations.`

var ErrMissingOpenAIKey = errors.New("[OpenAIClient] Missing TRANSLATOR_OPENAI_API_KEY")

// OpenAIClient translates reviews with a chat completion model.
type OpenAIClient struct {
	Client *openai.Client
	model  string
}

// NewOpenAIClient builds a translator. Extra request options are appended
// after the defaults. The SDK's own retries are disabled so one failed
// call is final for that text.
func NewOpenAIClient(apiKey, model string, opts ...option.RequestOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, ErrMissingOpenAIKey
	}
	if model == "" {
		model = string(openai.ChatModelGPT4oMini)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: openAIRequestTimeout}),
		option.WithMaxRetries(0),
	}
	reqOpts = append(reqOpts, opts...)

	slog.Info("[OpenAIClient] OpenAI client initialized with custom HTTP timeout",
		slog.Duration("timeout", openAIRequestTimeout),
		slog.String("model", model))

	return &OpenAIClient{
		Client: openai.NewClient(reqOpts...),
		model:  model,
	}, nil
}

// Translate translates text into target.
func (c *OpenAIClient) Translate(ctx context.Context, text, target string) (string, error) {
	chatCompletion, err := c.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(fmt.Sprintf(openAITranslatePrompt, target)),
			openai.UserMessage(text),
		}),
		Model:       openai.F(openai.ChatModel(c.model)),
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("[OpenAIClient] chat completion failed: %w", err)
	}

	if len(chatCompletion.Choices) == 0 {
		return "", ErrUnexpectedResponse
	}

	out := cleanOpenAIResponse(chatCompletion.Choices[0].Message.Content)
	if out == "" {
		return "", ErrUnexpectedResponse
	}
	return out, nil
}

func cleanOpenAIResponse(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	if len(response) >= 2 && strings.HasPrefix(response, `"`) && strings.HasSuffix(response, `"`) {
		response = response[1 : len(response)-1]
	}

	return strings.TrimSpace(response)
}
