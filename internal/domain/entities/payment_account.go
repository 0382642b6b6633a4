package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// PaymentAccount holds a teacher's linked payment-processor credentials
type PaymentAccount struct {
	ID           uuid.UUID   `json:"id"`
	UserID       uuid.UUID   `json:"userId"`
	AccessToken  string      `json:"-"`
	RefreshToken string      `json:"-"`
	ExpiresAt    null.Time   `json:"expiresAt"`
	SellerID     null.String `json:"sellerId"`
	IsConnected  bool        `json:"isConnected"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// HasValidToken reports whether the stored access token can still be used at now
func (a *PaymentAccount) HasValidToken(now time.Time) bool {
	if a == nil || !a.IsConnected || a.AccessToken == "" {
		return false
	}
	return !a.ExpiresAt.Valid || a.ExpiresAt.Time.After(now)
}

// ApplyCredentials stores freshly issued processor credentials. A response
// without an expiry keeps the previous ExpiresAt.
func (a *PaymentAccount) ApplyCredentials(creds *OAuthCredentials, now time.Time) {
	a.AccessToken = creds.AccessToken
	if creds.RefreshToken != "" {
		a.RefreshToken = creds.RefreshToken
	}
	if creds.ExpiresIn > 0 {
		a.ExpiresAt = null.TimeFrom(now.Add(creds.ExpiresIn))
	}
	if creds.SellerID != "" {
		a.SellerID = null.StringFrom(creds.SellerID)
	}
	a.IsConnected = true
}

// PaymentAccountStatus is returned by GET /payments/status
type PaymentAccountStatus struct {
	IsConnected   bool        `json:"isConnected"`
	SellerID      null.String `json:"sellerId"`
	ExpiresAt     null.Time   `json:"expiresAt"`
	HasValidToken bool        `json:"hasValidToken"`
}

// StatusAt projects the account into its public status
func (a *PaymentAccount) StatusAt(now time.Time) PaymentAccountStatus {
	if a == nil {
		return PaymentAccountStatus{}
	}
	return PaymentAccountStatus{
		IsConnected:   a.IsConnected,
		SellerID:      a.SellerID,
		ExpiresAt:     a.ExpiresAt,
		HasValidToken: a.HasValidToken(now),
	}
}
