package openai

import (
	"context"
	"fmt"

	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient is an implementation of the Classifier interface using OpenAI
type OpenAIClient struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxURLSize    int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewOpenAIClient creates a new OpenAI classifier
func NewOpenAIClient(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxURLSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *OpenAIClient {
	return &OpenAIClient{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxURLSize:    maxURLSize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Analyze asks the model to score url
func (c *OpenAIClient) Analyze(ctx context.Context, url string) (*core.Verdict, error) {
	prompt := fmt.Sprintf(utils.URLPromptFormat, c.textProcessor.ProcessText(url, c.maxURLSize))

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a phishing detection system. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, &core.ClassificationError{URL: url, Err: fmt.Errorf("failed to create chat completion with OpenAI: %w", err)}
	}

	if len(resp.Choices) == 0 {
		return nil, &core.ClassificationError{URL: url, Err: fmt.Errorf("empty response from OpenAI")}
	}

	verdict, err := utils.ParseURLVerdict(url, resp.Choices[0].Message.Content, c.modelName)
	if err != nil {
		return nil, &core.ClassificationError{URL: url, Err: err}
	}

	c.logger.Debug("OpenAI verdict",
		zap.String("url", url),
		zap.String("response_id", resp.ID),
		zap.Int("risk_score", verdict.RiskScore))

	return verdict, nil
}
