package analysis

import (
	"context"
	"errors"

	"github.com/kpango/glg"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIGateway implements Gateway using the OpenAI chat completions API.
type OpenAIGateway struct {
	client openai.Client
	model  string
}

// NewOpenAIGateway creates a gateway using the provided API key and model
// name. An empty model falls back to gpt-4o.
func NewOpenAIGateway(apiKey, model string) *OpenAIGateway {
	if model == "" {
		model = openai.ChatModelGPT4o
	}

	return &OpenAIGateway{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Analyze submits the rendered report with the prompt template selected by the
// request's analysis type and returns the model's text response.
func (g *OpenAIGateway) Analyze(ctx context.Context, req Request) (string, error) {

	glg.Infof("Submitting gear report for %s analysis", req.AnalysisType)

	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemContext(req.AnalysisType)),
			openai.UserMessage(req.Body),
		},
	})
	if err != nil {
		return "", err
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("analysis response contained no choices")
	}

	return completion.Choices[0].Message.Content, nil
}
