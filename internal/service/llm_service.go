package service

import (
	"context"
	"fmt"
	"strings"

	"investmate/pkg/config"

	"github.com/Role1776/gigago"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// Completer is the narrow contract this service has with a text-completion
// provider. Everything above it depends only on this.
type Completer interface {
	Complete(ctx context.Context, system, user string, temperature float32) (string, error)
}

// NewCompleter builds the provider selected by configuration.
func NewCompleter(cfg *config.LLMConfig, logger *zap.Logger) (Completer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAICompleter(cfg, logger), nil
	case "gigachat":
		return newGigaChatCompleter(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

type openAICompleter struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

func newOpenAICompleter(cfg *config.LLMConfig, logger *zap.Logger) *openAICompleter {
	return &openAICompleter{
		client: openai.NewClient(option.WithAPIKey(cfg.OpenAIKey)),
		model:  cfg.OpenAIModel,
		logger: logger,
	}
}

func (c *openAICompleter) Complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(float64(temperature)),
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

type gigaChatCompleter struct {
	client *gigago.Client
	logger *zap.Logger
}

func newGigaChatCompleter(cfg *config.LLMConfig, logger *zap.Logger) (*gigaChatCompleter, error) {
	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.GigaChatScope),
	}
	if cfg.GigaChatNoVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(context.Background(), cfg.GigaChatKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	return &gigaChatCompleter{
		client: client,
		logger: logger,
	}, nil
}

func (c *gigaChatCompleter) Complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	model := c.client.GenerativeModel("GigaChat")
	model.SystemInstruction = system
	model.Temperature = float64(temperature)

	resp, err := model.Generate(ctx, []gigago.Message{
		{Role: gigago.RoleUser, Content: user},
	})
	if err != nil {
		return "", fmt.Errorf("gigachat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("gigachat returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
