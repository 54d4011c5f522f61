package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"demarches-be/internal/dto"
	"demarches-be/internal/entity"
	"demarches-be/internal/repository/specification"
	"demarches-be/internal/repository/unitofwork"
	"demarches-be/pkg/events"
	pktNats "demarches-be/pkg/nats"
	"demarches-be/pkg/reconcile"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService auto-fills open procedures when a document arrives: any
// in-progress instance of the uploader whose template has an unbound
// requirement matching the new document's declared type gets bound to it.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	matchPolicy    reconcile.MatchPolicy
	eventPublisher *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	matchPolicy reconcile.MatchPolicy,
	eventPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		matchPolicy:    matchPolicy,
		eventPublisher: eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.DocumentUploadedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		// Invalid payloads are acked, retrying cannot fix them.
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to get document %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}
	if doc == nil {
		// Deleted before we got here.
		msg.Ack()
		return
	}

	instances, err := uow.ProcedureInstanceRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: doc.UserId},
		specification.ByStatus{Status: entity.InstanceStatusInProgress},
	)
	if err != nil {
		log.Printf("[ERROR] Failed to list open procedures for user %s: %v", doc.UserId, err)
		msg.Nack()
		return
	}

	filled := 0
	for _, instance := range instances {
		n, err := cs.fillInstance(ctx, uow, instance, doc)
		if err != nil {
			log.Printf("[ERROR] Auto-fill failed for instance %s: %v", instance.Id, err)
			msg.Nack()
			return
		}
		filled += n
	}

	if filled > 0 {
		log.Printf("[INFO] Auto-filled %d requirement(s) from document %s", filled, doc.Id)
	}
	msg.Ack()
}

func (cs *consumerService) fillInstance(ctx context.Context, uow unitofwork.UnitOfWork, instance *entity.ProcedureInstance, doc *entity.Document) (int, error) {
	template, err := uow.ProcedureTemplateRepository().FindOne(ctx, specification.ByID{ID: instance.TemplateId})
	if err != nil {
		return 0, err
	}
	if template == nil {
		return 0, nil
	}

	filled := 0
	for _, requirement := range template.Requirements {
		if !cs.matchPolicy.Matches(requirement, doc.DeclaredType) {
			continue
		}

		// Only empty slots are auto-filled; an existing binding is the
		// user's choice and is never overwritten.
		existing, err := uow.RequirementBindingRepository().FindOne(ctx,
			specification.ByInstanceID{InstanceID: instance.Id},
			specification.ByRequirement{Requirement: requirement},
		)
		if err != nil {
			return filled, err
		}
		if existing != nil {
			continue
		}

		binding := entity.RequirementBinding{
			Id:          uuid.New(),
			InstanceId:  instance.Id,
			Requirement: requirement,
			DocumentId:  doc.Id,
			CreatedAt:   time.Now(),
		}
		if err := uow.RequirementBindingRepository().Create(ctx, &binding); err != nil {
			return filled, err
		}
		filled++

		cs.publishAutofilled(ctx, instance, requirement, doc)
	}

	return filled, nil
}

func (cs *consumerService) publishAutofilled(ctx context.Context, instance *entity.ProcedureInstance, requirement string, doc *entity.Document) {
	if cs.eventPublisher == nil {
		return
	}
	evt := events.New(events.TypeRequirementAutofilled, map[string]interface{}{
		"user_id":       doc.UserId.String(),
		"instance_id":   instance.Id.String(),
		"instance_name": instance.Title,
		"requirement":   requirement,
		"document_id":   doc.Id.String(),
		"filename":      doc.Filename,
	})
	if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
		log.Printf("[WARN] Failed to publish %s event: %v", events.TypeRequirementAutofilled, err)
	}
}
