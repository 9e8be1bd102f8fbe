package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Juliussaint/gmianugerah/internal/config"
	"github.com/Juliussaint/gmianugerah/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventMemberRegistered, n.handleMemberRegistered)
	n.dispatcher.Subscribe(events.EventMemberSectorTransferred, n.handleSectorTransferred)
	n.dispatcher.Subscribe(events.EventMemberDeactivated, n.handleMemberDeactivated)
	n.dispatcher.Subscribe(events.EventMemberDeceased, n.handleMemberDeceased)
	n.dispatcher.Subscribe(events.EventFamilyDissolved, n.handleFamilyDissolved)
}

func (n *NotificationService) handleMemberRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("MemberRegistered", zap.String("member_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleSectorTransferred(ctx context.Context, event events.Event) error {
	n.logger.Info("MemberSectorTransferred", zap.String("member_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleMemberDeactivated(ctx context.Context, event events.Event) error {
	n.logger.Info("MemberDeactivated", zap.String("member_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleMemberDeceased(ctx context.Context, event events.Event) error {
	n.logger.Info("MemberDeceased", zap.String("member_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleFamilyDissolved(ctx context.Context, event events.Event) error {
	n.logger.Info("FamilyDissolved", zap.String("family_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}
