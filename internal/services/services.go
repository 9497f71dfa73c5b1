package services

import (
	"log/slog"

	"cinelog/proj/internal/config"
	"cinelog/proj/internal/mails"
	"cinelog/proj/internal/services/auth"
	"cinelog/proj/internal/services/collections"
	"cinelog/proj/internal/services/reviews"
	"cinelog/proj/internal/storage/postgres"
	"cinelog/proj/internal/storage/postgres/models"
)

type Services struct {
	Auth        *auth.AuthService
	Collections *collections.CollectionService
	Reviews     *reviews.ReviewService
}

func New(log *slog.Logger, cfg *config.Config, storage *postgres.Storage, taskExecutor auth.TaskExecutor) *Services {
	dbModels := models.New(storage)
	var mailer auth.MailProvider
	if cfg.SMTPServer.Enabled {
		mailer = mails.New(
			cfg.SMTPServer.Host,
			cfg.SMTPServer.Port,
			cfg.SMTPServer.Timeout,
			cfg.SMTPServer.Username,
			cfg.SMTPServer.Password,
			cfg.SMTPServer.Sender,
			cfg.SMTPServer.RetriesCount,
		)
	}
	return &Services{
		Auth:        auth.New(log, dbModels.User, mailer, taskExecutor, cfg.AppSecret, cfg.TokenTTL),
		Collections: collections.New(log, dbModels.Collection),
		Reviews:     reviews.New(log, dbModels.Review),
	}
}
