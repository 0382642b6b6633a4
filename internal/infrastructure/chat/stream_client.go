// Package chat talks to the Stream chat REST API.
package chat

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"promatch.backend/internal/config"
	"promatch.backend/internal/domain/entities"
	"promatch.backend/pkg/crypto"
	"promatch.backend/pkg/httpx"
)

// StreamClient implements gateways.ChatService against Stream's server-side API
type StreamClient struct {
	apiKey    string
	apiSecret string
	baseURL   string
	http      *httpx.Client
	now       func() time.Time
}

// NewStreamClient creates a Stream client
func NewStreamClient(cfg config.StreamConfig, timeout time.Duration) *StreamClient {
	return &StreamClient{
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		http:      httpx.New(timeout),
		now:       time.Now,
	}
}

// APIKey returns the public key clients need alongside their token
func (c *StreamClient) APIKey() string {
	return c.apiKey
}

// IssueAccessToken signs a user token accepted by the chat and video SDKs
func (c *StreamClient) IssueAccessToken(userID uuid.UUID) (string, error) {
	if c.apiSecret == "" {
		return "", fmt.Errorf("stream api secret not configured")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"iat":     c.now().Unix(),
	})
	return token.SignedString([]byte(c.apiSecret))
}

func (c *StreamClient) serverToken() (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"server": true})
	return token.SignedString([]byte(c.apiSecret))
}

func (c *StreamClient) request(method, path string, payload interface{}) (httpx.Request, error) {
	req, err := httpx.JSONRequest(method, c.baseURL+path+"?api_key="+url.QueryEscape(c.apiKey), payload)
	if err != nil {
		return req, err
	}
	token, err := c.serverToken()
	if err != nil {
		return req, err
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("Stream-Auth-Type", "jwt")
	return req, nil
}

type streamUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// UpsertIdentity creates or updates the user's chat profile
func (c *StreamClient) UpsertIdentity(ctx context.Context, identity entities.ChatIdentity) error {
	id := identity.ID.String()
	req, err := c.request(http.MethodPost, "/users", map[string]interface{}{
		"users": map[string]streamUser{
			id: {ID: id, Name: identity.Name, Image: identity.Avatar},
		},
	})
	if err != nil {
		return err
	}
	if err := c.http.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("upsert stream user: %w", err)
	}
	return nil
}

type channelsResponse struct {
	Channels []channelState `json:"channels"`
}

type channelState struct {
	Channel struct {
		ID string `json:"id"`
	} `json:"channel"`
	Messages []struct {
		ID   string `json:"id"`
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	} `json:"messages"`
	Members []struct {
		UserID string `json:"user_id"`
	} `json:"members"`
	Read []struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		LastReadMessageID string `json:"last_read_message_id"`
	} `json:"read"`
}

// UnreadCounts returns, per counterpart, how many messages the user has not read
func (c *StreamClient) UnreadCounts(ctx context.Context, userID uuid.UUID) (entities.UnreadCounts, error) {
	id := userID.String()
	req, err := c.request(http.MethodPost, "/channels", map[string]interface{}{
		"filter_conditions": map[string]interface{}{
			"members": map[string]interface{}{"$in": []string{id}},
		},
		"sort":    []map[string]interface{}{{"field": "last_message_at", "direction": -1}},
		"state":   true,
		"watch":   false,
		"user_id": id,
	})
	if err != nil {
		return nil, err
	}

	var resp channelsResponse
	if err := c.http.Do(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("query stream channels: %w", err)
	}

	counts := entities.UnreadCounts{}
	for _, ch := range resp.Channels {
		unread := unreadFor(ch, id)
		if unread == 0 {
			continue
		}
		for _, m := range ch.Members {
			if m.UserID != id {
				counts[m.UserID] = entities.UnreadChannel{Count: unread, ChannelID: ch.Channel.ID}
				break
			}
		}
	}
	return counts, nil
}

// unreadFor counts the messages from other members after the user's last read
// marker. With no marker, or a marker outside the loaded window, every loaded
// message from another member is unread.
func unreadFor(ch channelState, userID string) int {
	lastRead := ""
	for _, r := range ch.Read {
		if r.User.ID == userID {
			lastRead = r.LastReadMessageID
			break
		}
	}

	start := 0
	if lastRead != "" {
		for i, msg := range ch.Messages {
			if msg.ID == lastRead {
				start = i + 1
				break
			}
		}
	}

	unread := 0
	for _, msg := range ch.Messages[start:] {
		if msg.User.ID != userID {
			unread++
		}
	}
	return unread
}

// VerifyWebhook checks the X-Signature header against an HMAC of the raw body
func (c *StreamClient) VerifyWebhook(body []byte, signature string) bool {
	return crypto.VerifyHMACSHA256(c.apiSecret, body, signature)
}
