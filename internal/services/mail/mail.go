// Package services implements the outbound mail publisher. Mail is
// fire-and-forget: a broker failure is logged and never fails the
// operation that triggered the mail.
package services

import (
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/coddink/interview-backend/internal/lib/rabbitmq"
	"github.com/coddink/interview-backend/internal/lib/sl"
	"github.com/coddink/interview-backend/internal/metrics"
	"github.com/coddink/interview-backend/internal/models"
)

// Publisher publishes a message to the broker.
type Publisher interface {
	Publish(exchange, routingKey string, message any) error
}

// MailService turns domain events into mail jobs on the outbound queue.
type MailService struct {
	publisher Publisher
	log       *slog.Logger
}

func NewMailService(publisher Publisher, log *slog.Logger) *MailService {
	return &MailService{publisher: publisher, log: log}
}

// SendVerificationEmail queues a verification code mail.
func (s *MailService) SendVerificationEmail(email, code string) {
	s.publish(models.MailJob{
		Kind:  models.MailVerification,
		Email: email,
		Code:  code,
	})
}

// SendResetPasswordEmail queues a password reset mail.
func (s *MailService) SendResetPasswordEmail(email, nickname, code string) {
	s.publish(models.MailJob{
		Kind:     models.MailPasswordReset,
		Email:    email,
		Nickname: nickname,
		Code:     code,
	})
}

func (s *MailService) publish(job models.MailJob) {
	if err := s.publisher.Publish(rabbitmq.MailExchange, rabbitmq.MailRoutingKey, job); err != nil {
		s.log.Error("failed to publish mail job",
			slog.String("kind", string(job.Kind)), sl.Err(err))
		return
	}
	metrics.MailJobsPublished.WithLabelValues(string(job.Kind)).Inc()
	s.log.Info("mail job published", slog.String("kind", string(job.Kind)))
}

// ChannelPublisher adapts an AMQP channel to the Publisher interface.
type ChannelPublisher struct {
	Ch *amqp.Channel
}

func (p ChannelPublisher) Publish(exchange, routingKey string, message any) error {
	return rabbitmq.PublishMessage(p.Ch, exchange, routingKey, message)
}
