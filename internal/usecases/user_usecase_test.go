package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/internal/domain/gateways"
	"promatch.backend/internal/usecases"
)

type userDeps struct {
	users       *MockUserRepository
	connections *MockConnectionRepository
	payments    *MockPaymentRepository
	accounts    *MockPaymentAccountRepository
	classes     *MockVirtualClassRepository
	uow         *MockUnitOfWork
	events      *MockEventPublisher
}

func newUserUsecaseForTest() (*usecases.UserUsecase, *userDeps) {
	d := &userDeps{
		users:       new(MockUserRepository),
		connections: new(MockConnectionRepository),
		payments:    new(MockPaymentRepository),
		accounts:    new(MockPaymentAccountRepository),
		classes:     new(MockVirtualClassRepository),
		uow:         new(MockUnitOfWork),
		events:      new(MockEventPublisher),
	}
	return usecases.NewUserUsecase(d.users, d.connections, d.payments, d.accounts, d.classes, d.uow, d.events), d
}

func TestUserUsecase_GetTeacher(t *testing.T) {
	uc, d := newUserUsecaseForTest()
	teacher, student := newTeacher(), newStudent()
	pending := newTeacher()
	pending.IsOnboarded = false

	d.users.On("GetByID", mock.Anything, teacher.ID).Return(teacher, nil)
	d.users.On("GetByID", mock.Anything, student.ID).Return(student, nil)
	d.users.On("GetByID", mock.Anything, pending.ID).Return(pending, nil)

	got, err := uc.GetTeacher(context.Background(), teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, teacher, got)

	_, err = uc.GetTeacher(context.Background(), student.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = uc.GetTeacher(context.Background(), pending.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUserUsecase_DeleteUser_Cascade(t *testing.T) {
	uc, d := newUserUsecaseForTest()
	user := newStudent()

	d.uow.On("Do", mock.Anything, mock.Anything).Return(nil).Once()
	d.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()
	d.payments.On("DetachUser", mock.Anything, user.ID).Return(nil).Once()
	d.classes.On("RemoveParticipant", mock.Anything, user.ID).Return(nil).Once()
	d.connections.On("RemoveAllForUser", mock.Anything, user.ID).Return(nil).Once()
	d.accounts.On("DeleteByUserID", mock.Anything, user.ID).Return(domainerrors.ErrNotFound).Once()
	d.users.On("Delete", mock.Anything, user.ID).Return(nil).Once()
	d.events.On("Publish", mock.Anything, gateways.EventUserDeleted, usecases.UserEvent{UserID: user.ID}).Return(nil).Once()

	require.NoError(t, uc.DeleteUser(context.Background(), user.ID))
	d.payments.AssertExpectations(t)
	d.classes.AssertExpectations(t)
	d.connections.AssertExpectations(t)
	d.users.AssertExpectations(t)
	d.events.AssertExpectations(t)
}

func TestUserUsecase_DeleteUser_StopsOnError(t *testing.T) {
	uc, d := newUserUsecaseForTest()
	user := newStudent()

	d.uow.On("Do", mock.Anything, mock.Anything).Return(nil).Once()
	d.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()
	d.payments.On("DetachUser", mock.Anything, user.ID).Return(errors.New("write failed")).Once()

	err := uc.DeleteUser(context.Background(), user.ID)
	assert.EqualError(t, err, "write failed")
	d.users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	d.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserUsecase_DeleteUser_NotFound(t *testing.T) {
	uc, d := newUserUsecaseForTest()
	id := uuid.New()
	d.uow.On("Do", mock.Anything, mock.Anything).Return(nil).Once()
	d.users.On("GetByID", mock.Anything, id).Return(nil, domainerrors.ErrNotFound).Once()

	assert.ErrorIs(t, uc.DeleteUser(context.Background(), id), domainerrors.ErrNotFound)
}
