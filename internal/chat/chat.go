// Package chat answers follow-up questions grounded in a normalized listing.
// Degraded modes are explicit: a fixed instructive message when no credential
// is configured, a fixed apology when the model call fails. The conversation
// never crashes the caller.
package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/boligsjekk/boligsjekk/internal/config"
	"github.com/boligsjekk/boligsjekk/internal/model"
	"github.com/boligsjekk/boligsjekk/internal/prompt"
	"github.com/boligsjekk/boligsjekk/pkg/anthropic"
)

// DegradedMessage is returned when no model credential is configured. No
// network call is attempted.
const DegradedMessage = "Chat-assistenten er ikke tilgjengelig: ingen API-nøkkel er konfigurert. Sett BOLIGSJEKK_ANTHROPIC_KEY for å aktivere samtaler om boligen."

// ApologyMessage is returned when a model call fails.
const ApologyMessage = "Beklager, jeg klarte ikke å svare akkurat nå. Prøv igjen om et øyeblikk."

// Assistant builds chat turns over a listing. All configuration is explicit.
type Assistant struct {
	cfg     config.AnthropicConfig
	chatCfg config.ChatConfig
	llm     anthropic.Client
}

// New creates an Assistant. llm may be nil when no credential is configured.
func New(cfg config.AnthropicConfig, chatCfg config.ChatConfig, llm anthropic.Client) *Assistant {
	return &Assistant{cfg: cfg, chatCfg: chatCfg, llm: llm}
}

// BuildTurn produces the assistant's reply to userMessage. The system context
// is built from the listing and optional extended analysis; only the trailing
// window of history is sent, oldest first. History is never mutated.
func (a *Assistant) BuildTurn(ctx context.Context, userMessage string, listing *model.CanonicalListing, extended *model.ExtendedAnalysis, history []model.ChatMessage) model.ChatMessage {
	if !a.cfg.HasCredential() || a.llm == nil {
		return assistantMessage(DegradedMessage)
	}

	var l model.CanonicalListing
	if listing != nil {
		l = *listing
	}
	system := prompt.BuildChatSystemPrompt(l, extended)

	window := model.TailWindow(history)
	messages := make([]anthropic.Message, 0, len(window)+1)
	for _, m := range window {
		messages = append(messages, anthropic.Message{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	messages = append(messages, anthropic.Message{Role: "user", Content: userMessage})

	timeout := time.Duration(a.cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := a.llm.CreateMessage(callCtx, anthropic.MessageRequest{
		Model:     a.cfg.Model,
		MaxTokens: int64(a.chatCfg.MaxTokens),
		System:    system,
		Messages:  messages,
	})
	if err != nil {
		zap.L().Warn("chat: completion failed", zap.Error(err))
		return assistantMessage(ApologyMessage)
	}
	resp.Usage.LogCost(a.cfg.Model, "chat")

	text := resp.Text()
	if text == "" {
		return assistantMessage(ApologyMessage)
	}
	return assistantMessage(text)
}

func assistantMessage(content string) model.ChatMessage {
	return model.ChatMessage{
		ID:        uuid.NewString(),
		Role:      model.RoleAssistant,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}
