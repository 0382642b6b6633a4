package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActivityLimit caps how many payments and sessions each feed contributes
const ActivityLimit = 50

// DeletedUserName is shown in place of a party that no longer exists
const DeletedUserName = "(Usuario eliminado)"

type ActivityKind string

const (
	ActivityPayment ActivityKind = "payment"
	ActivitySession ActivityKind = "session"
)

// ParticipantRef is either a resolved user or a marker for a deleted one.
// Both variants serialise into the same object shape.
type ParticipantRef struct {
	user *UserSummary
}

// ResolvedParticipant wraps an existing user
func ResolvedParticipant(u UserSummary) ParticipantRef {
	return ParticipantRef{user: &u}
}

// DeletedParticipant marks a party whose account is gone
func DeletedParticipant() ParticipantRef {
	return ParticipantRef{}
}

// Deleted reports whether the party no longer exists
func (p ParticipantRef) Deleted() bool { return p.user == nil }

// User returns the resolved summary; ok is false for deleted parties
func (p ParticipantRef) User() (UserSummary, bool) {
	if p.user == nil {
		return UserSummary{}, false
	}
	return *p.user, true
}

type participantJSON struct {
	ID       *uuid.UUID `json:"id,omitempty"`
	FullName string     `json:"fullName"`
	Avatar   string     `json:"avatar,omitempty"`
	Deleted  bool       `json:"deleted"`
}

func (p ParticipantRef) MarshalJSON() ([]byte, error) {
	if p.user == nil {
		return json.Marshal(participantJSON{FullName: DeletedUserName, Deleted: true})
	}
	id := p.user.ID
	return json.Marshal(participantJSON{ID: &id, FullName: p.user.FullName, Avatar: p.user.Avatar})
}

// ActivityItem is one entry of the merged activity feed.
// Payment fields are set only for payment items, Participants only for sessions.
type ActivityItem struct {
	Kind         ActivityKind     `json:"type"`
	ID           uuid.UUID        `json:"id"`
	CreatedAt    time.Time        `json:"createdAt"`
	Amount       float64          `json:"amount,omitempty"`
	Status       PaymentStatus    `json:"status,omitempty"`
	IsSender     *bool            `json:"isSender,omitempty"`
	Sender       *ParticipantRef  `json:"sender,omitempty"`
	Receiver     *ParticipantRef  `json:"receiver,omitempty"`
	ChannelID    string           `json:"channelId,omitempty"`
	Participants []ParticipantRef `json:"participants,omitempty"`
}

// ActivityFeed is the response of GET /activity
type ActivityFeed struct {
	Items         []ActivityItem `json:"items"`
	TotalPayments int            `json:"totalPayments"`
	TotalClasses  int            `json:"totalClasses"`
}
