package usecases_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"promatch.backend/internal/domain/entities"
	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/internal/domain/gateways"
	"promatch.backend/internal/usecases"
)

func newActivityUsecaseForTest() (*usecases.ActivityUsecase, *MockUserRepository, *MockPaymentRepository, *MockVirtualClassRepository, *MockEventPublisher) {
	users, payments, classes, events := new(MockUserRepository), new(MockPaymentRepository), new(MockVirtualClassRepository), new(MockEventPublisher)
	return usecases.NewActivityUsecase(users, payments, classes, events), users, payments, classes, events
}

func TestActivityUsecase_GetActivity_MergesAndResolves(t *testing.T) {
	uc, users, payments, classes, _ := newActivityUsecaseForTest()
	me, teacher := newStudent(), newTeacher()
	gone := uuid.New()
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	// same timestamp: the higher id sorts first
	lowID, highID := uuid.MustParse("00000000-0000-7000-8000-000000000001"), uuid.MustParse("00000000-0000-7000-8000-000000000002")

	paidTeacher := &entities.Payment{ID: lowID, SenderID: &me.ID, ReceiverID: &teacher.ID, Amount: 1500, Status: entities.PaymentStatusApproved, CreatedAt: base}
	fromDeleted := &entities.Payment{ID: uuid.New(), SenderID: nil, ReceiverID: &me.ID, Amount: 10, Status: entities.PaymentStatusPending, CreatedAt: base.Add(-time.Hour)}
	session := &entities.VirtualClass{ID: highID, ChannelID: "ch-1", Participants: []uuid.UUID{me.ID, gone}, CreatedAt: base}
	older := &entities.VirtualClass{ID: uuid.New(), ChannelID: "ch-0", Participants: []uuid.UUID{teacher.ID, me.ID}, CreatedAt: base.Add(-2 * time.Hour)}

	payments.On("ListLatestByUser", mock.Anything, me.ID, entities.ActivityLimit).Return([]*entities.Payment{paidTeacher, fromDeleted}, nil).Once()
	classes.On("ListLatestByParticipant", mock.Anything, me.ID, entities.ActivityLimit).Return([]*entities.VirtualClass{session, older}, nil).Once()
	users.On("GetSummaries", mock.Anything, mock.Anything).Return(map[uuid.UUID]entities.UserSummary{
		me.ID:      me.Summary(),
		teacher.ID: teacher.Summary(),
	}, nil).Once()

	feed, err := uc.GetActivity(context.Background(), me.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, feed.TotalPayments)
	assert.Equal(t, 2, feed.TotalClasses)
	require.Len(t, feed.Items, 4)

	assert.Equal(t, highID, feed.Items[0].ID)
	assert.Equal(t, entities.ActivitySession, feed.Items[0].Kind)
	assert.Equal(t, lowID, feed.Items[1].ID)
	assert.Equal(t, fromDeleted.ID, feed.Items[2].ID)
	assert.Equal(t, older.ID, feed.Items[3].ID)

	assert.True(t, *feed.Items[1].IsSender)
	assert.False(t, *feed.Items[2].IsSender)
	assert.True(t, feed.Items[2].Sender.Deleted())
	assert.True(t, feed.Items[0].Participants[1].Deleted())

	b, err := json.Marshal(feed.Items[2].Sender)
	require.NoError(t, err)
	assert.JSONEq(t, `{"fullName":"(Usuario eliminado)","deleted":true}`, string(b))
}

func TestActivityUsecase_GetActivity_Empty(t *testing.T) {
	uc, users, payments, classes, _ := newActivityUsecaseForTest()
	id := uuid.New()
	payments.On("ListLatestByUser", mock.Anything, id, entities.ActivityLimit).Return([]*entities.Payment{}, nil).Once()
	classes.On("ListLatestByParticipant", mock.Anything, id, entities.ActivityLimit).Return([]*entities.VirtualClass{}, nil).Once()
	users.On("GetSummaries", mock.Anything, mock.Anything).Return(map[uuid.UUID]entities.UserSummary{}, nil).Once()

	feed, err := uc.GetActivity(context.Background(), id)
	require.NoError(t, err)
	assert.NotNil(t, feed.Items)
	assert.Empty(t, feed.Items)
}

func TestActivityUsecase_RecordSession_Validation(t *testing.T) {
	uc, _, _, _, _ := newActivityUsecaseForTest()
	me, other := uuid.New(), uuid.New()

	_, err := uc.RecordSession(context.Background(), me, &entities.RecordSessionInput{Participants: []uuid.UUID{me, other}})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = uc.RecordSession(context.Background(), me, &entities.RecordSessionInput{ChannelID: "c", Participants: []uuid.UUID{me}})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = uc.RecordSession(context.Background(), me, &entities.RecordSessionInput{ChannelID: "c", Participants: []uuid.UUID{me, me}})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = uc.RecordSession(context.Background(), me, &entities.RecordSessionInput{ChannelID: "c", Participants: []uuid.UUID{other, uuid.New()}})
	assert.ErrorIs(t, err, domainerrors.ErrNotParticipant)
	assert.Equal(t, 403, domainerrors.FromError(err).Status)
}

func TestActivityUsecase_RecordSession_UnknownParticipant(t *testing.T) {
	uc, users, _, classes, _ := newActivityUsecaseForTest()
	me := newStudent()
	ghost := uuid.New()
	users.On("GetSummaries", mock.Anything, []uuid.UUID{me.ID, ghost}).Return(map[uuid.UUID]entities.UserSummary{me.ID: me.Summary()}, nil).Once()

	_, err := uc.RecordSession(context.Background(), me.ID, &entities.RecordSessionInput{ChannelID: "c", Participants: []uuid.UUID{me.ID, ghost}})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	classes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestActivityUsecase_RecordSession(t *testing.T) {
	uc, users, _, classes, events := newActivityUsecaseForTest()
	me, teacher := newStudent(), newTeacher()
	users.On("GetSummaries", mock.Anything, []uuid.UUID{teacher.ID, me.ID}).Return(map[uuid.UUID]entities.UserSummary{
		me.ID: me.Summary(), teacher.ID: teacher.Summary(),
	}, nil).Once()
	classes.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.VirtualClass) bool {
		return c.ChannelID == "messaging:abc" && len(c.Participants) == 2 && c.Participants[0] == teacher.ID
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entities.VirtualClass).ID = uuid.New()
	}).Return(nil).Once()
	events.On("Publish", mock.Anything, gateways.EventSessionRecorded, mock.Anything).Return(nil).Once()

	resp, err := uc.RecordSession(context.Background(), me.ID, &entities.RecordSessionInput{
		ChannelID:    "  messaging:abc ",
		Participants: []uuid.UUID{teacher.ID, me.ID},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, "messaging:abc", resp.ChannelID)
	assert.Equal(t, []entities.UserSummary{teacher.Summary(), me.Summary()}, resp.Participants)
	events.AssertExpectations(t)
}
