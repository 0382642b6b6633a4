package entities

import (
	"encoding/json"
	"time"
)

// CheckoutRequest describes a one-item checkout created on the seller's behalf
type CheckoutRequest struct {
	Title           string
	Description     string
	PayerName       string
	Amount          float64
	Currency        string
	PayerEmail      string
	ExternalRef     string
	NotificationURL string
	SuccessURL      string
	FailureURL      string
	PendingURL      string
}

// Checkout is the processor's answer to a checkout creation
type Checkout struct {
	PreferenceID     string `json:"preferenceId"`
	InitPoint        string `json:"initPoint"`
	SandboxInitPoint string `json:"sandboxInitPoint"`
	ExternalRef      string `json:"externalRef"`
}

// OAuthCredentials are returned by the processor's token endpoint
type OAuthCredentials struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
	SellerID     string
}

// PaymentDetails is the processor's view of a single payment
type PaymentDetails struct {
	ID          string
	Status      string
	Amount      float64
	ExternalRef string
}

// PaymentNotification is the processor's webhook body. data.id arrives either as a number or a numeric string.
type PaymentNotification struct {
	Type string `json:"type"`
	Data struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}
