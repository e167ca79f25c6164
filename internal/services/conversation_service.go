package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"wayfinder/internal/models/pref_models"
	"wayfinder/pkg/utils"
)

type ConversationServiceInterface interface {
	// SendMessage appends the visitor's text and the assistant's reply to
	// the session transcript.
	SendMessage(ctx context.Context, session *Session, text string) ([]pref_models.Message, error)
}

type ConversationService struct {
	generator utils.ReplyGenerator
	logger    *zap.Logger
}

func NewConversationService(generator utils.ReplyGenerator, logger *zap.Logger) ConversationServiceInterface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationService{generator: generator, logger: logger}
}

func (c *ConversationService) SendMessage(ctx context.Context, session *Session, text string) ([]pref_models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return session.Messages.Get(), utils.ErrEmptyMessage
	}

	transcript := append(session.Messages.Get(), pref_models.Message{
		ID:     uuid.NewString(),
		Text:   text,
		Sender: pref_models.SenderUser,
	})
	if err := session.Messages.Set(ctx, transcript); err != nil {
		return transcript, err
	}
	if !session.ChatStarted.Get() {
		if err := session.ChatStarted.Set(ctx, true); err != nil {
			return transcript, err
		}
	}
	if _, err := session.Prefs.SetConversationSummary(ctx, countUserMessages(transcript)); err != nil {
		return transcript, err
	}

	if c.generator == nil {
		return transcript, fmt.Errorf("%w: no reply generator configured", utils.ErrUnexpectedBehaviorOfAI)
	}
	reply, err := c.generator.GenerateReply(ctx, session.Prefs.Snapshot(), transcript)
	if err != nil {
		c.logger.Warn("reply generation failed", zap.String("session_id", session.ID), zap.Error(err))
		return transcript, fmt.Errorf("%w: %v", utils.ErrUnexpectedBehaviorOfAI, err)
	}

	transcript = append(transcript, pref_models.Message{
		ID:     uuid.NewString(),
		Text:   reply,
		Sender: pref_models.SenderAI,
	})
	if err := session.Messages.Set(ctx, transcript); err != nil {
		return transcript, err
	}
	return transcript, nil
}

func countUserMessages(messages []pref_models.Message) int {
	n := 0
	for _, m := range messages {
		if m.Sender == pref_models.SenderUser {
			n++
		}
	}
	return n
}
