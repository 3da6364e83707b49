// Package mailer assembles the mail delivery binary: it consumes mail
// jobs from the outbound queue and sends them over SMTP.
package mailer

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/coddink/interview-backend/internal/config"
	"github.com/coddink/interview-backend/internal/lib/rabbitmq"
	"github.com/coddink/interview-backend/internal/lib/smtp"
	senderservice "github.com/coddink/interview-backend/internal/services/sender"
)

type App struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	sender *senderservice.SenderService
	logger *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetMailQueues())
	if err != nil {
		if cerr := conn.Close(); cerr != nil {
			logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	sender := senderservice.NewSenderService(transport, logger)

	return &App{
		conn:   conn,
		ch:     ch,
		sender: sender,
		logger: logger,
	}, nil
}

// Run consumes the outbound mail queue until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := rabbitmq.ConsumerMessage(ctx, a.ch, "mail.outbound", a.sender.HandleMailJob); err != nil {
		a.logger.Error("failed to start mail.outbound consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("mailer shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	return nil
}
