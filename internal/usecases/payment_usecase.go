package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"promatch.backend/internal/domain/entities"
	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/internal/domain/gateways"
	"promatch.backend/internal/domain/repositories"
	"promatch.backend/pkg/logger"
)

const oauthStatePrefix = "uid:"

// PaymentOptions holds the URLs and currency used when talking to the processor
type PaymentOptions struct {
	FrontendURL     string
	NotificationURL string
	Currency        string
}

// PaymentUsecase handles processor account linking, checkout and payment notifications
type PaymentUsecase struct {
	userRepo  repositories.UserRepository
	payments  repositories.PaymentRepository
	accounts  repositories.PaymentAccountRepository
	processor gateways.PaymentProcessor
	events    gateways.EventPublisher
	opts      PaymentOptions
	now       func() time.Time
}

func NewPaymentUsecase(
	userRepo repositories.UserRepository,
	payments repositories.PaymentRepository,
	accounts repositories.PaymentAccountRepository,
	processor gateways.PaymentProcessor,
	events gateways.EventPublisher,
	opts PaymentOptions,
) *PaymentUsecase {
	opts.FrontendURL = strings.TrimRight(opts.FrontendURL, "/")
	return &PaymentUsecase{
		userRepo:  userRepo,
		payments:  payments,
		accounts:  accounts,
		processor: processor,
		events:    events,
		opts:      opts,
		now:       time.Now,
	}
}

// ConnectURL returns the processor consent URL for the user
func (u *PaymentUsecase) ConnectURL(userID uuid.UUID) string {
	return u.processor.AuthorizeURL(oauthStatePrefix + userID.String())
}

// ConnectedRedirect and FailedRedirect are where the browser lands after the OAuth callback
func (u *PaymentUsecase) ConnectedRedirect() string {
	return u.opts.FrontendURL + "/onboarding?mp_connected=true"
}

func (u *PaymentUsecase) FailedRedirect() string {
	return u.opts.FrontendURL + "/onboarding?mp_error=true"
}

// CompleteOAuth exchanges the authorization code and stores the user's credentials
func (u *PaymentUsecase) CompleteOAuth(ctx context.Context, code, state string) error {
	if strings.TrimSpace(code) == "" {
		return domainerrors.Validation("Authorization code not provided")
	}
	if !strings.HasPrefix(state, oauthStatePrefix) {
		return domainerrors.Validation("Invalid state parameter")
	}
	userID, err := uuid.Parse(strings.TrimPrefix(state, oauthStatePrefix))
	if err != nil {
		return domainerrors.Validation("Invalid state parameter")
	}

	if _, err := u.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	creds, err := u.processor.ExchangeCode(ctx, code)
	if err != nil {
		return domainerrors.External(err)
	}

	account, err := u.accounts.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domainerrors.ErrNotFound) {
			return err
		}
		account = &entities.PaymentAccount{UserID: userID}
	}
	account.ApplyCredentials(creds, u.now())

	if err := u.accounts.Upsert(ctx, account); err != nil {
		return err
	}
	logger.Info(ctx, "Payment account connected", zap.String("user_id", userID.String()), zap.String("seller_id", account.SellerID.String))
	return nil
}

// Status reports the user's payment account state
func (u *PaymentUsecase) Status(ctx context.Context, userID uuid.UUID) (entities.PaymentAccountStatus, error) {
	account, err := u.accounts.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return entities.PaymentAccountStatus{}, err
	}
	return account.StatusAt(u.now()), nil
}

// CreateCheckout creates a checkout for one class with the teacher at the teacher's price
func (u *PaymentUsecase) CreateCheckout(ctx context.Context, studentID, teacherID uuid.UUID) (*entities.Checkout, error) {
	if studentID == teacherID {
		return nil, domainerrors.Validation("cannot pay yourself")
	}

	student, err := u.userRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !student.IsStudent() {
		return nil, fmt.Errorf("%w: only students can pay for classes", domainerrors.ErrRoleViolation)
	}

	teacher, err := u.userRepo.GetByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if !teacher.IsTeacher() {
		return nil, domainerrors.Validation("The user you are trying to pay is not a teacher")
	}
	if teacher.Price <= 0 {
		return nil, domainerrors.Validation("teacher has no price set")
	}

	sellerToken, err := u.sellerToken(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	ref := entities.ExternalRef{SenderID: studentID, ReceiverID: teacherID, IssuedAt: u.now()}
	backURL := fmt.Sprintf("%s/professor/%s?payment=", u.opts.FrontendURL, teacherID)
	checkout, err := u.processor.CreateCheckout(ctx, sellerToken, entities.CheckoutRequest{
		Title:           "Clase con " + teacher.FullName,
		Description:     "Clase con " + teacher.FullName,
		PayerName:       student.FullName,
		PayerEmail:      student.Email,
		Amount:          teacher.Price,
		Currency:        u.opts.Currency,
		ExternalRef:     ref.String(),
		NotificationURL: u.opts.NotificationURL,
		SuccessURL:      backURL + "success",
		FailureURL:      backURL + "failure",
		PendingURL:      backURL + "pending",
	})
	if err != nil {
		return nil, domainerrors.External(err)
	}
	return checkout, nil
}

// sellerToken returns a usable access token for the teacher, refreshing it when expired
func (u *PaymentUsecase) sellerToken(ctx context.Context, teacherID uuid.UUID) (string, error) {
	account, err := u.accounts.GetByUserID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return "", domainerrors.ErrAccountNotLinked
		}
		return "", err
	}
	if !account.IsConnected || account.AccessToken == "" {
		return "", domainerrors.ErrAccountNotLinked
	}
	if account.HasValidToken(u.now()) {
		return account.AccessToken, nil
	}

	if account.RefreshToken == "" {
		return "", domainerrors.ErrAccountNotLinked
	}
	creds, err := u.processor.RefreshToken(ctx, account.RefreshToken)
	if err != nil {
		logger.Warn(ctx, "Seller token refresh failed", zap.String("user_id", teacherID.String()), zap.Error(err))
		return "", domainerrors.ErrAccountNotLinked
	}
	account.ApplyCredentials(creds, u.now())
	if err := u.accounts.Upsert(ctx, account); err != nil {
		return "", err
	}
	return account.AccessToken, nil
}

// HandleNotification records the payment a processor notification points at.
// Non-payment notifications are acknowledged and return nil.
func (u *PaymentUsecase) HandleNotification(ctx context.Context, n *entities.PaymentNotification) (*entities.Payment, error) {
	if n.Type != "payment" {
		logger.Debug(ctx, "Ignoring payment notification", zap.String("type", n.Type))
		return nil, nil
	}
	paymentID := n.Data.ID.String()
	if paymentID == "" {
		return nil, domainerrors.MissingFields("data.id")
	}

	// retries of the same notification
	if existing, err := u.payments.GetByExternalID(ctx, paymentID); err == nil {
		return existing, nil
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	details, err := u.processor.FetchPaymentDetails(ctx, paymentID)
	if err != nil {
		return nil, domainerrors.External(err)
	}

	ref, err := entities.ParseExternalRef(details.ExternalRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrInvalidExternalRef, err)
	}
	if details.Amount <= 0 {
		return nil, domainerrors.Validation("payment amount must be positive")
	}

	// parties deleted since checkout are stored as NULL
	summaries, err := u.userRepo.GetSummaries(ctx, []uuid.UUID{ref.SenderID, ref.ReceiverID})
	if err != nil {
		return nil, err
	}
	payment := &entities.Payment{
		Amount:            details.Amount,
		Status:            entities.PaymentStatusFromProvider(details.Status),
		ExternalPaymentID: null.StringFrom(details.ID),
		CreatedAt:         u.now().UTC(),
	}
	if _, ok := summaries[ref.SenderID]; ok {
		sender := ref.SenderID
		payment.SenderID = &sender
	}
	if _, ok := summaries[ref.ReceiverID]; ok {
		receiver := ref.ReceiverID
		payment.ReceiverID = &receiver
	}
	if details.ID == "" {
		payment.ExternalPaymentID = null.StringFrom(paymentID)
	}

	if err := u.payments.Create(ctx, payment); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return u.payments.GetByExternalID(ctx, payment.ExternalPaymentID.String)
		}
		return nil, err
	}

	publishEvent(ctx, u.events, gateways.EventPaymentRecorded, payment)
	return payment, nil
}
