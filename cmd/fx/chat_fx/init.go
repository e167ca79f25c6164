package chat_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"wayfinder/internal/api/controllers"
	"wayfinder/internal/config"
	"wayfinder/internal/services"
	"wayfinder/pkg/utils"
)

var Module = fx.Provide(
	ProvideReplyGenerator,
	ProvideConversationService,
	ProvideConversationController)

// ProvideReplyGenerator returns nil without an API key; the chat then
// answers with an upstream error instead of blocking startup.
func ProvideReplyGenerator(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (utils.ReplyGenerator, error) {
	if cfg.ChatAPIKey() == "" {
		logger.Warn("no chat API key configured, refinement chat disabled", zap.String("provider", cfg.ChatProvider))
		return nil, nil
	}

	logger.Info("initializing reply generator",
		zap.String("provider", cfg.ChatProvider), zap.String("model", cfg.ChatModel()))
	gen, err := utils.NewReplyGenerator(cfg.ChatProvider, cfg.ChatAPIKey(), cfg.ChatModel())
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return gen.Close()
		},
	})
	return gen, nil
}

func ProvideConversationService(gen utils.ReplyGenerator, logger *zap.Logger) services.ConversationServiceInterface {
	return services.NewConversationService(gen, logger.Named("conversation"))
}

func ProvideConversationController(
	sessions services.SessionServiceInterface,
	conversation services.ConversationServiceInterface,
) *controllers.ConversationController {
	return controllers.NewConversationController(sessions, conversation)
}
