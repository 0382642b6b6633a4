package usecases

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"promatch.backend/internal/domain/entities"
	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/internal/domain/gateways"
	"promatch.backend/internal/domain/repositories"
)

// ActivityUsecase merges payments and sessions into a single feed
type ActivityUsecase struct {
	userRepo repositories.UserRepository
	payments repositories.PaymentRepository
	classes  repositories.VirtualClassRepository
	events   gateways.EventPublisher
	now      func() time.Time
}

func NewActivityUsecase(
	userRepo repositories.UserRepository,
	payments repositories.PaymentRepository,
	classes repositories.VirtualClassRepository,
	events gateways.EventPublisher,
) *ActivityUsecase {
	return &ActivityUsecase{
		userRepo: userRepo,
		payments: payments,
		classes:  classes,
		events:   events,
		now:      time.Now,
	}
}

// GetActivity returns the user's latest payments and sessions, newest first
func (u *ActivityUsecase) GetActivity(ctx context.Context, userID uuid.UUID) (*entities.ActivityFeed, error) {
	payments, err := u.payments.ListLatestByUser(ctx, userID, entities.ActivityLimit)
	if err != nil {
		return nil, err
	}
	classes, err := u.classes.ListLatestByParticipant(ctx, userID, entities.ActivityLimit)
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	for _, p := range payments {
		if p.SenderID != nil {
			ids = append(ids, *p.SenderID)
		}
		if p.ReceiverID != nil {
			ids = append(ids, *p.ReceiverID)
		}
	}
	for _, c := range classes {
		ids = append(ids, c.Participants...)
	}

	summaries, err := u.userRepo.GetSummaries(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	resolve := func(id *uuid.UUID) entities.ParticipantRef {
		if id == nil {
			return entities.DeletedParticipant()
		}
		if s, ok := summaries[*id]; ok {
			return entities.ResolvedParticipant(s)
		}
		return entities.DeletedParticipant()
	}

	items := make([]entities.ActivityItem, 0, len(payments)+len(classes))
	for _, p := range payments {
		sender, receiver := resolve(p.SenderID), resolve(p.ReceiverID)
		isSender := p.SenderID != nil && *p.SenderID == userID
		items = append(items, entities.ActivityItem{
			Kind:      entities.ActivityPayment,
			ID:        p.ID,
			CreatedAt: p.CreatedAt,
			Amount:    p.Amount,
			Status:    p.Status,
			IsSender:  &isSender,
			Sender:    &sender,
			Receiver:  &receiver,
		})
	}
	for _, c := range classes {
		participants := make([]entities.ParticipantRef, 0, len(c.Participants))
		for i := range c.Participants {
			participants = append(participants, resolve(&c.Participants[i]))
		}
		items = append(items, entities.ActivityItem{
			Kind:         entities.ActivitySession,
			ID:           c.ID,
			CreatedAt:    c.CreatedAt,
			ChannelID:    c.ChannelID,
			Participants: participants,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return bytes.Compare(items[i].ID[:], items[j].ID[:]) > 0
	})

	return &entities.ActivityFeed{
		Items:         items,
		TotalPayments: len(payments),
		TotalClasses:  len(classes),
	}, nil
}

// RecordSession stores a finished video session. The initiator must be one of the participants.
func (u *ActivityUsecase) RecordSession(ctx context.Context, initiatorID uuid.UUID, input *entities.RecordSessionInput) (*entities.SessionResponse, error) {
	channelID := strings.TrimSpace(input.ChannelID)
	if channelID == "" {
		return nil, domainerrors.MissingFields("channelId")
	}

	participants := uniqueIDs(input.Participants)
	if len(participants) < 2 || len(participants) != len(input.Participants) {
		return nil, domainerrors.Validation("a session needs at least two distinct participants")
	}

	isParticipant := false
	for _, id := range participants {
		if id == initiatorID {
			isParticipant = true
			break
		}
	}
	if !isParticipant {
		return nil, domainerrors.ErrNotParticipant
	}

	summaries, err := u.userRepo.GetSummaries(ctx, participants)
	if err != nil {
		return nil, err
	}
	if len(summaries) != len(participants) {
		return nil, domainerrors.NotFound("participant not found")
	}

	class := &entities.VirtualClass{
		ChannelID:    channelID,
		Participants: participants,
		CreatedAt:    u.now().UTC(),
	}
	if err := u.classes.Create(ctx, class); err != nil {
		return nil, err
	}

	resp := &entities.SessionResponse{
		ID:           class.ID,
		ChannelID:    class.ChannelID,
		Participants: make([]entities.UserSummary, 0, len(participants)),
		CreatedAt:    class.CreatedAt,
	}
	for _, id := range participants {
		resp.Participants = append(resp.Participants, summaries[id])
	}

	publishEvent(ctx, u.events, gateways.EventSessionRecorded, resp)
	return resp, nil
}
