package repository

import (
	"context"
	"fmt"
	"investorly/internal/domain"
	"investorly/internal/util"
	"strings"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"google.golang.org/genai"
)

const (
	groqBaseURL        = "https://api.groq.com/openai/v1"
	defaultGroqModel   = "openai/gpt-oss-120b"
	defaultOpenAIModel = "gpt-4o-mini"
	defaultGeminiModel = "gemini-2.5-flash"
	maxResponseTokens  = 1024
)

// LlmRepository sends one conversation to a hosted model and returns
// the assistant's reply.
type LlmRepository interface {
	Complete(ctx context.Context, systemPrompt string, messages []domain.ChatMessage) (string, error)
	Provider() string
}

func NewLlmRepository(ctx context.Context, secrets util.LlmSecrets) (LlmRepository, error) {
	apiKey := secrets.ApiKey()
	if apiKey == "" {
		return nil, fmt.Errorf("no api key configured for llm provider %s", secrets.Provider)
	}

	switch secrets.Provider {
	case util.LlmProviderGemini:
		return newGeminiRepository(ctx, apiKey, secrets.Model)
	case util.LlmProviderOpenAI:
		return newOpenAIRepository(util.LlmProviderOpenAI, apiKey, secrets.BaseURL, withDefault(secrets.Model, defaultOpenAIModel)), nil
	case util.LlmProviderGroq, "":
		baseURL := withDefault(secrets.BaseURL, groqBaseURL)
		return newOpenAIRepository(util.LlmProviderGroq, apiKey, baseURL, withDefault(secrets.Model, defaultGroqModel)), nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", secrets.Provider)
}

func withDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// openAIRepositoryHandler talks to any OpenAI-compatible chat completion
// endpoint, which covers both OpenAI and Groq.
type openAIRepositoryHandler struct {
	cli      oa.Client
	model    string
	provider string
}

func newOpenAIRepository(provider, apiKey, baseURL, model string) LlmRepository {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return openAIRepositoryHandler{
		cli:      oa.NewClient(opts...),
		model:    model,
		provider: provider,
	}
}

func (h openAIRepositoryHandler) Provider() string {
	return h.provider
}

func (h openAIRepositoryHandler) Complete(ctx context.Context, systemPrompt string, messages []domain.ChatMessage) (string, error) {
	params := []oa.ChatCompletionMessageParamUnion{
		oa.SystemMessage(systemPrompt),
	}
	for _, m := range messages {
		switch m.Role {
		case domain.ChatRoleUser:
			params = append(params, oa.UserMessage(m.Content))
		case domain.ChatRoleAssistant:
			params = append(params, oa.AssistantMessage(m.Content))
		case domain.ChatRoleSystem:
			params = append(params, oa.SystemMessage(m.Content))
		}
	}

	resp, err := h.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model:     oa.ChatModel(h.model),
		Messages:  params,
		MaxTokens: oa.Int(maxResponseTokens),
	})
	if err != nil {
		return "", fmt.Errorf("%s chat completion failed: %w", h.provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", h.provider)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

type geminiRepositoryHandler struct {
	client *genai.Client
	model  string
}

func newGeminiRepository(ctx context.Context, apiKey, model string) (LlmRepository, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to construct gemini client: %w", err)
	}
	return geminiRepositoryHandler{
		client: client,
		model:  withDefault(model, defaultGeminiModel),
	}, nil
}

func (h geminiRepositoryHandler) Provider() string {
	return util.LlmProviderGemini
}

func (h geminiRepositoryHandler) Complete(ctx context.Context, systemPrompt string, messages []domain.ChatMessage) (string, error) {
	contents := []*genai.Content{}
	for _, m := range messages {
		switch m.Role {
		case domain.ChatRoleUser:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		case domain.ChatRoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		}
	}
	if len(contents) == 0 {
		return "", fmt.Errorf("no user messages to send")
	}

	resp, err := h.client.Models.GenerateContent(ctx, h.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		MaxOutputTokens:   maxResponseTokens,
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate content failed: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("no response from gemini")
	}

	return text, nil
}
