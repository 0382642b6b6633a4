// Package gateways declares the external collaborators the usecases depend on.
package gateways

import (
	"context"
	"io"

	"github.com/google/uuid"
	"promatch.backend/internal/domain/entities"
)

// ChatService mirrors identities into the chat provider and issues client tokens
type ChatService interface {
	UpsertIdentity(ctx context.Context, identity entities.ChatIdentity) error
	IssueAccessToken(userID uuid.UUID) (string, error)
	UnreadCounts(ctx context.Context, userID uuid.UUID) (entities.UnreadCounts, error)
	VerifyWebhook(body []byte, signature string) bool
	APIKey() string
}

// PaymentProcessor wraps the payment provider's OAuth, checkout and payment lookup APIs
type PaymentProcessor interface {
	AuthorizeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*entities.OAuthCredentials, error)
	RefreshToken(ctx context.Context, refreshToken string) (*entities.OAuthCredentials, error)
	CreateCheckout(ctx context.Context, sellerAccessToken string, req entities.CheckoutRequest) (*entities.Checkout, error)
	FetchPaymentDetails(ctx context.Context, paymentID string) (*entities.PaymentDetails, error)
}

// MediaUploader stores an already validated image and returns its public URL
type MediaUploader interface {
	Upload(ctx context.Context, file io.Reader, filename string) (string, error)
}

// Event names published on the domain event exchange
const (
	EventUserOnboarded     = "user.onboarded"
	EventUserDeleted       = "user.deleted"
	EventConnectionCreated = "connection.created"
	EventPaymentRecorded   = "payment.recorded"
	EventSessionRecorded   = "session.recorded"
)

// EventPublisher emits domain events. Implementations must not block request handling on broker failure.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}
