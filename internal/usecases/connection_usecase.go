package usecases

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"promatch.backend/internal/domain/entities"
	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/internal/domain/gateways"
	"promatch.backend/internal/domain/repositories"
)

// ConnectionUsecase manages the student-teacher graph
type ConnectionUsecase struct {
	userRepo    repositories.UserRepository
	connections repositories.ConnectionRepository
	uow         repositories.UnitOfWork
	events      gateways.EventPublisher
}

func NewConnectionUsecase(
	userRepo repositories.UserRepository,
	connections repositories.ConnectionRepository,
	uow repositories.UnitOfWork,
	events gateways.EventPublisher,
) *ConnectionUsecase {
	return &ConnectionUsecase{
		userRepo:    userRepo,
		connections: connections,
		uow:         uow,
		events:      events,
	}
}

// Connect links a student to a teacher. Only students may connect and only to teachers.
func (u *ConnectionUsecase) Connect(ctx context.Context, requesterID, targetID uuid.UUID) error {
	if requesterID == targetID {
		return domainerrors.ErrSelfConnection
	}

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		requester, err := u.userRepo.GetByID(txCtx, requesterID)
		if err != nil {
			return err
		}
		target, err := u.userRepo.GetByID(txCtx, targetID)
		if err != nil {
			return err
		}

		if !requester.IsStudent() {
			return fmt.Errorf("%w: only students can connect with teachers", domainerrors.ErrRoleViolation)
		}
		if !target.IsTeacher() {
			return fmt.Errorf("%w: target user is not a teacher", domainerrors.ErrRoleViolation)
		}

		created, err := u.connections.Connect(txCtx, requesterID, targetID)
		if err != nil {
			return err
		}
		if !created {
			return domainerrors.ErrAlreadyConnected
		}
		return nil
	})
	if err != nil {
		return err
	}

	publishEvent(ctx, u.events, gateways.EventConnectionCreated, ConnectionEvent{StudentID: requesterID, TeacherID: targetID})
	return nil
}

// IsConnected reports whether an edge exists between the two users
func (u *ConnectionUsecase) IsConnected(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return u.connections.Exists(ctx, a, b)
}

// ListConnections returns the display summaries of the user's connections
func (u *ConnectionUsecase) ListConnections(ctx context.Context, userID uuid.UUID) ([]entities.UserSummary, error) {
	summaries, err := u.connections.ListSummaries(ctx, userID)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []entities.UserSummary{}
	}
	return summaries, nil
}
