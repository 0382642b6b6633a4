package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// PaymentStatusFromProvider maps the processor's status vocabulary onto ours
func PaymentStatusFromProvider(status string) PaymentStatus {
	switch strings.ToLower(status) {
	case "approved":
		return PaymentStatusApproved
	case "rejected", "cancelled", "refunded", "charged_back":
		return PaymentStatusRejected
	default:
		return PaymentStatusPending
	}
}

// Payment represents a payment from a student to a teacher.
// Sender and receiver become nil once the referenced user is deleted.
type Payment struct {
	ID                uuid.UUID     `json:"id"`
	SenderID          *uuid.UUID    `json:"senderId"`
	ReceiverID        *uuid.UUID    `json:"receiverId"`
	Amount            float64       `json:"amount"`
	Status            PaymentStatus `json:"status"`
	ExternalPaymentID null.String   `json:"externalPaymentId"`
	CreatedAt         time.Time     `json:"createdAt"`
}

const externalRefTag = "payment"

// ExternalRef identifies the parties of a checkout inside the processor's external_reference field
type ExternalRef struct {
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	IssuedAt   time.Time
}

// String encodes the ref as payment_<sender>_<receiver>_<unixMillis>
func (r ExternalRef) String() string {
	return fmt.Sprintf("%s_%s_%s_%d", externalRefTag, r.SenderID, r.ReceiverID, r.IssuedAt.UnixMilli())
}

// ParseExternalRef decodes a ref produced by ExternalRef.String. The trailing
// timestamp segment is optional; anything else is rejected.
func ParseExternalRef(raw string) (ExternalRef, error) {
	parts := strings.Split(raw, "_")
	if len(parts) != 3 && len(parts) != 4 {
		return ExternalRef{}, fmt.Errorf("expected 3 or 4 segments, got %d", len(parts))
	}
	if parts[0] != externalRefTag {
		return ExternalRef{}, fmt.Errorf("unexpected tag %q", parts[0])
	}

	sender, err := uuid.Parse(parts[1])
	if err != nil {
		return ExternalRef{}, fmt.Errorf("sender: %w", err)
	}
	receiver, err := uuid.Parse(parts[2])
	if err != nil {
		return ExternalRef{}, fmt.Errorf("receiver: %w", err)
	}
	if sender == uuid.Nil || receiver == uuid.Nil || sender == receiver {
		return ExternalRef{}, fmt.Errorf("invalid parties")
	}

	ref := ExternalRef{SenderID: sender, ReceiverID: receiver}
	if len(parts) == 4 {
		ms, err := strconv.ParseInt(parts[3], 10, 64)
		if err != nil || ms <= 0 {
			return ExternalRef{}, fmt.Errorf("invalid timestamp %q", parts[3])
		}
		ref.IssuedAt = time.UnixMilli(ms).UTC()
	}
	return ref, nil
}
