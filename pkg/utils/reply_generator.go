package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
	"wayfinder/internal/models/pref_models"
)

// ReplyGenerator produces the assistant's next message in the refinement
// chat.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, prefs pref_models.UserPreferences, history []pref_models.Message) (string, error)
	Close() error
}

const refinementInstruction = `You are a travel assistant helping someone refine where to go.
Their questionnaire answers so far are given as JSON. Ask at most one short follow-up
question or confirm what you learned. Keep replies under 80 words. Never invent
bookings or prices.`

func profileText(prefs pref_models.UserPreferences) string {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// GeminiReplyClient implements ReplyGenerator using Google's Gemini models
type GeminiReplyClient struct {
	client *genai.Client
	model  string
}

// NewGeminiReplyClient creates a new Gemini client
func NewGeminiReplyClient(apiKey, model string) (*GeminiReplyClient, error) {
	if model == "" {
		model = "gemini-1.5-flash" // Free tier model
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiReplyClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiReplyClient) GenerateReply(ctx context.Context, prefs pref_models.UserPreferences, history []pref_models.Message) (string, error) {
	if len(history) == 0 {
		return "", ErrEmptyMessage
	}

	m := c.client.GenerativeModel(c.model)
	m.SetTemperature(0.4)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(refinementInstruction + "\n\nAnswers: " + profileText(prefs))},
	}

	cs := m.StartChat()
	for _, msg := range history[:len(history)-1] {
		role := "user"
		if msg.Sender == pref_models.SenderAI {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(msg.Text)}})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(history[len(history)-1].Text))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no content", ErrUnexpectedBehaviorOfAI)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	reply := strings.TrimSpace(sb.String())
	if reply == "" {
		return "", fmt.Errorf("%w: empty reply", ErrUnexpectedBehaviorOfAI)
	}
	return reply, nil
}

func (c *GeminiReplyClient) Close() error {
	return c.client.Close()
}

type OpenAIReplyClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIReplyClient(apiKey, model string) *OpenAIReplyClient {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIReplyClient{client: openai.NewClient(apiKey), model: model}
}

func (c *OpenAIReplyClient) GenerateReply(ctx context.Context, prefs pref_models.UserPreferences, history []pref_models.Message) (string, error) {
	if len(history) == 0 {
		return "", ErrEmptyMessage
	}

	messages := []openai.ChatCompletionMessage{{
		Role:    openai.ChatMessageRoleSystem,
		Content: refinementInstruction + "\n\nAnswers: " + profileText(prefs),
	}}
	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.Sender == pref_models.SenderAI {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Text})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: no content", ErrUnexpectedBehaviorOfAI)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *OpenAIReplyClient) Close() error { return nil }

// NewReplyGenerator Factory function to create either OpenAI or Gemini client based on config
func NewReplyGenerator(provider, apiKey, model string) (ReplyGenerator, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIReplyClient(apiKey, model), nil
	case "gemini":
		return NewGeminiReplyClient(apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
