package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

// Message is one turn of a conversation, oldest first.
type Message struct {
	Role string // "user" or "model"
	Text string
}

// Responder produces companion replies and daily tips. The production
// implementation calls Gemini; development and tests use a canned fallback.
type Responder interface {
	Reply(ctx context.Context, history []Message, userText string) (string, error)
	DailyTip(ctx context.Context, userName string) (string, error)
}

// systemPrompt shapes the companion persona: warm, brief, in Brazilian
// Portuguese, and never a substitute for professional care.
const systemPrompt = `Você é a Rilane, a companheira virtual do aplicativo Mente & Calma.
Você acolhe pessoas que lidam com ansiedade e cansaço mental.
Responda sempre em português brasileiro, com carinho, em no máximo três parágrafos curtos.
Nunca dê diagnósticos nem prescreva medicamentos.
Se a pessoa mencionar crise grave ou risco de vida, oriente com delicadeza a procurar o CVV (188) ou um profissional de saúde.`

const tipPrompt = `Escreva uma única dica curta de bem-estar mental em português brasileiro (máximo duas frases), acolhedora e prática, sem saudação e sem emojis.`

// FallbackReply is returned when the model is unavailable so the
// conversation never dead-ends on an error.
const FallbackReply = "Desculpe, não consegui te responder agora. Respire fundo, estou aqui quando você quiser tentar de novo."

// FallbackTip is the canned daily tip for development and outages.
const FallbackTip = "Experimente pausar por um minuto e alongar os ombros. Pequenas pausas acalmam a mente."

// Client talks to Gemini.
type Client struct {
	client    *genai.Client
	chatModel string
	tipModel  string
}

func New(apiKey, chatModel, tipModel string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{
		client:    client,
		chatModel: chatModel,
		tipModel:  tipModel,
	}, nil
}

func (c *Client) Reply(ctx context.Context, history []Message, userText string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		role := genai.Role(genai.RoleUser)
		if m.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(userText, genai.RoleUser))

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.chatModel, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned empty reply")
	}

	return text, nil
}

func (c *Client) DailyTip(ctx context.Context, userName string) (string, error) {
	prompt := tipPrompt
	if userName != "" {
		prompt = fmt.Sprintf("%s A dica é para %s.", tipPrompt, userName)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.tipModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini tip failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned empty tip")
	}

	return text, nil
}

// DevResponder logs and answers with canned text. Used when no API key is
// configured in development.
type DevResponder struct{}

func (DevResponder) Reply(ctx context.Context, history []Message, userText string) (string, error) {
	slog.Info("chat reply (dev mode)", "history_len", len(history), "text", userText)
	return FallbackReply, nil
}

func (DevResponder) DailyTip(ctx context.Context, userName string) (string, error) {
	slog.Info("daily tip (dev mode)", "name", userName)
	return FallbackTip, nil
}
