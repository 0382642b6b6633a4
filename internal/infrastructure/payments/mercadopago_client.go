// Package payments talks to the MercadoPago OAuth, checkout and payments APIs.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"promatch.backend/internal/config"
	"promatch.backend/internal/domain/entities"
	"promatch.backend/pkg/httpx"
)

// MercadoPagoClient implements gateways.PaymentProcessor
type MercadoPagoClient struct {
	cfg     config.MercadoPagoConfig
	baseURL string
	http    *httpx.Client
}

// NewMercadoPagoClient creates a MercadoPago client
func NewMercadoPagoClient(cfg config.MercadoPagoConfig, timeout time.Duration) *MercadoPagoClient {
	return &MercadoPagoClient{
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		http:    httpx.New(timeout),
	}
}

// AuthorizeURL builds the marketplace OAuth consent URL. state is echoed back on the callback.
func (c *MercadoPagoClient) AuthorizeURL(state string) string {
	params := url.Values{}
	params.Set("client_id", c.cfg.ClientID)
	params.Set("response_type", "code")
	params.Set("platform_id", "mp")
	params.Set("redirect_uri", c.cfg.RedirectURI)
	params.Set("state", state)
	return c.cfg.AuthURL + "?" + params.Encode()
}

type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
	UserID       json.Number `json:"user_id"`
}

// ExchangeCode trades an authorization code for seller credentials
func (c *MercadoPagoClient) ExchangeCode(ctx context.Context, code string) (*entities.OAuthCredentials, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.cfg.RedirectURI)
	return c.token(ctx, form)
}

// RefreshToken renews seller credentials
func (c *MercadoPagoClient) RefreshToken(ctx context.Context, refreshToken string) (*entities.OAuthCredentials, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	return c.token(ctx, form)
}

func (c *MercadoPagoClient) token(ctx context.Context, form url.Values) (*entities.OAuthCredentials, error) {
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)

	req := httpx.Request{
		Method:      http.MethodPost,
		URL:         c.baseURL + "/oauth/token",
		Header:      http.Header{},
		Body:        []byte(form.Encode()),
		ContentType: "application/x-www-form-urlencoded",
	}

	var resp tokenResponse
	if err := c.http.Do(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("mercadopago oauth: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("mercadopago oauth: empty access token")
	}
	return &entities.OAuthCredentials{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    time.Duration(resp.ExpiresIn) * time.Second,
		SellerID:     resp.UserID.String(),
	}, nil
}

type preferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

type preferenceRequest struct {
	Items []preferenceItem `json:"items"`
	Payer struct {
		Email string `json:"email,omitempty"`
		Name  string `json:"name,omitempty"`
	} `json:"payer"`
	ExternalReference string `json:"external_reference"`
	NotificationURL   string `json:"notification_url,omitempty"`
	BackURLs          struct {
		Success string `json:"success,omitempty"`
		Failure string `json:"failure,omitempty"`
		Pending string `json:"pending,omitempty"`
	} `json:"back_urls"`
	PaymentMethods struct {
		Installments int `json:"installments"`
	} `json:"payment_methods"`
}

type preferenceResponse struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// CreateCheckout creates a single-item preference on behalf of the seller
func (c *MercadoPagoClient) CreateCheckout(ctx context.Context, sellerAccessToken string, in entities.CheckoutRequest) (*entities.Checkout, error) {
	body := preferenceRequest{
		Items: []preferenceItem{{
			Title:      in.Description,
			Quantity:   1,
			UnitPrice:  in.Amount,
			CurrencyID: in.Currency,
		}},
		ExternalReference: in.ExternalRef,
		NotificationURL:   in.NotificationURL,
	}
	body.Payer.Email = in.PayerEmail
	body.Payer.Name = in.PayerName
	body.BackURLs.Success = in.SuccessURL
	body.BackURLs.Failure = in.FailureURL
	body.BackURLs.Pending = in.PendingURL
	body.PaymentMethods.Installments = 1
	if in.Title != "" {
		body.Items[0].Title = in.Title
	}

	req, err := httpx.JSONRequest(http.MethodPost, c.baseURL+"/checkout/preferences", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+sellerAccessToken)

	var resp preferenceResponse
	if err := c.http.Do(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("mercadopago preference: %w", err)
	}
	return &entities.Checkout{
		PreferenceID:     resp.ID,
		InitPoint:        resp.InitPoint,
		SandboxInitPoint: resp.SandboxInitPoint,
		ExternalRef:      in.ExternalRef,
	}, nil
}

type paymentResponse struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	TransactionAmount float64     `json:"transaction_amount"`
	ExternalReference string      `json:"external_reference"`
}

// FetchPaymentDetails looks a payment up with the platform token
func (c *MercadoPagoClient) FetchPaymentDetails(ctx context.Context, paymentID string) (*entities.PaymentDetails, error) {
	req := httpx.Request{
		Method: http.MethodGet,
		URL:    c.baseURL + "/v1/payments/" + url.PathEscape(paymentID),
		Header: http.Header{},
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.PlatformAccessToken)

	var resp paymentResponse
	if err := c.http.Do(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("mercadopago payment %s: %w", paymentID, err)
	}
	return &entities.PaymentDetails{
		ID:          resp.ID.String(),
		Status:      resp.Status,
		Amount:      resp.TransactionAmount,
		ExternalRef: resp.ExternalReference,
	}, nil
}
