package entities

import "github.com/google/uuid"

// ChatToken is handed to clients for the chat and video SDKs
type ChatToken struct {
	Token  string    `json:"token"`
	APIKey string    `json:"apiKey"`
	UserID uuid.UUID `json:"userId"`
}

// UnreadChannel is the unread state of one direct channel
type UnreadChannel struct {
	Count     int    `json:"count"`
	ChannelID string `json:"channelId"`
}

// UnreadCounts maps a counterpart user id to its channel's unread state
type UnreadCounts map[string]UnreadChannel

// ChatEvent is the subset of a chat webhook payload the backend acts on
type ChatEvent struct {
	Type      string `json:"type"`
	ChannelID string `json:"channel_id"`
	User      struct {
		ID string `json:"id"`
	} `json:"user"`
	Members []struct {
		UserID string `json:"user_id"`
	} `json:"members"`
}

// StaleUnreadUsers lists the users whose unread counters this event changes:
// the other channel members for a new message, the reader for a read marker.
func (e ChatEvent) StaleUnreadUsers() []string {
	switch e.Type {
	case "message.new":
		ids := make([]string, 0, len(e.Members))
		for _, m := range e.Members {
			if m.UserID != "" && m.UserID != e.User.ID {
				ids = append(ids, m.UserID)
			}
		}
		return ids
	case "message.read":
		if e.User.ID == "" {
			return nil
		}
		return []string{e.User.ID}
	}
	return nil
}

// ChatIdentity is the profile mirrored into the chat provider
type ChatIdentity struct {
	ID     uuid.UUID
	Name   string
	Avatar string
}
