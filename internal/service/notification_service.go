package service

import (
	"context"
	"encoding/json"
	"fmt"

	"demarches-be/internal/dto"
	"demarches-be/internal/model"
	"demarches-be/internal/pkg/logger"
	"demarches-be/internal/repository"
	"demarches-be/pkg/events"
	pktNats "demarches-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery defines how to push real-time updates. Implemented by
// the websocket hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
}

// notificationTemplate renders the stored notification for one event type.
// Types not in the registry are ignored.
type notificationTemplate struct {
	Title   string
	Message func(payload map[string]interface{}) string
}

var notificationRegistry = map[string]notificationTemplate{
	events.TypeDocumentUploaded: {
		Title: "Document ajouté",
		Message: func(p map[string]interface{}) string {
			return fmt.Sprintf("« %v » a été ajouté à votre bibliothèque.", p["filename"])
		},
	},
	events.TypeProcedureStarted: {
		Title: "Démarche créée",
		Message: func(p map[string]interface{}) string {
			return fmt.Sprintf("Votre démarche « %v » a été créée.", p["title"])
		},
	},
	events.TypeProcedureComplete: {
		Title: "Démarche terminée",
		Message: func(p map[string]interface{}) string {
			return fmt.Sprintf("Votre démarche « %v » est terminée. Félicitations !", p["title"])
		},
	},
	events.TypeProcedureAbandoned: {
		Title: "Démarche abandonnée",
		Message: func(p map[string]interface{}) string {
			return fmt.Sprintf("Votre démarche « %v » a été abandonnée.", p["title"])
		},
	},
	events.TypeRequirementAutofilled: {
		Title: "Document associé automatiquement",
		Message: func(p map[string]interface{}) string {
			return fmt.Sprintf("« %v » a été associé à « %v » dans votre démarche « %v ».",
				p["filename"], p["requirement"], p["instance_name"])
		},
	},
}

type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus with a durable consumer.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	tmpl, ok := notificationRegistry[event.EventType()]
	if !ok {
		return nil
	}

	payload := event.Payload()
	userIDRaw, _ := payload["user_id"].(string)
	userID, err := uuid.Parse(userIDRaw)
	if err != nil {
		s.logger.Warn("NotificationService", "Event without a valid user_id", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	metaJSON, _ := json.Marshal(payload)
	notif := model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		TypeCode:  event.EventType(),
		Title:     tmpl.Title,
		Message:   tmpl.Message(payload),
		Metadata:  datatypes.JSON(metaJSON),
		IsRead:    false,
		CreatedAt: event.Timestamp(),
	}

	if err := s.repo.CreateNotification(ctx, &notif); err != nil {
		s.logger.Error("NotificationService", "Failed to store notification", map[string]interface{}{"error": err})
		// Returning the error Naks the message for redelivery.
		return err
	}

	if s.delivery != nil {
		s.delivery.Send(userID, notif)
	}

	return nil
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) (*dto.NotificationListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	notifications, total, err := s.repo.GetNotificationsByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		var meta map[string]any
		if len(n.Metadata) > 0 {
			_ = json.Unmarshal(n.Metadata, &meta)
		}
		items = append(items, dto.NotificationResponse{
			Id:        n.ID,
			Type:      n.TypeCode,
			Title:     n.Title,
			Body:      n.Message,
			Metadata:  meta,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}

	return &dto.NotificationListResponse{
		Notifications: items,
		Total:         total,
		UnreadCount:   unread,
	}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, notificationID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
