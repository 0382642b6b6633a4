package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"promatch.backend/internal/domain/entities"
	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/internal/domain/gateways"
	"promatch.backend/internal/domain/repositories"
)

// UserUsecase serves profiles and account deletion
type UserUsecase struct {
	userRepo        repositories.UserRepository
	connections     repositories.ConnectionRepository
	payments        repositories.PaymentRepository
	paymentAccounts repositories.PaymentAccountRepository
	classes         repositories.VirtualClassRepository
	uow             repositories.UnitOfWork
	events          gateways.EventPublisher
}

// NewUserUsecase creates a new user usecase
func NewUserUsecase(
	userRepo repositories.UserRepository,
	connections repositories.ConnectionRepository,
	payments repositories.PaymentRepository,
	paymentAccounts repositories.PaymentAccountRepository,
	classes repositories.VirtualClassRepository,
	uow repositories.UnitOfWork,
	events gateways.EventPublisher,
) *UserUsecase {
	return &UserUsecase{
		userRepo:        userRepo,
		connections:     connections,
		payments:        payments,
		paymentAccounts: paymentAccounts,
		classes:         classes,
		uow:             uow,
		events:          events,
	}
}

// GetTeacher returns an onboarded teacher's public profile
func (u *UserUsecase) GetTeacher(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsTeacher() || !user.IsOnboarded {
		return nil, domainerrors.NotFound("teacher not found")
	}
	return user, nil
}

// DeleteUser removes the user and every reference to it in one transaction.
// Payments survive with the user's side set to NULL.
func (u *UserUsecase) DeleteUser(ctx context.Context, id uuid.UUID) error {
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if _, err := u.userRepo.GetByID(txCtx, id); err != nil {
			return err
		}
		if err := u.payments.DetachUser(txCtx, id); err != nil {
			return err
		}
		if err := u.classes.RemoveParticipant(txCtx, id); err != nil {
			return err
		}
		if err := u.connections.RemoveAllForUser(txCtx, id); err != nil {
			return err
		}
		if err := u.paymentAccounts.DeleteByUserID(txCtx, id); err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
			return err
		}
		return u.userRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	publishEvent(ctx, u.events, gateways.EventUserDeleted, UserEvent{UserID: id})
	return nil
}
