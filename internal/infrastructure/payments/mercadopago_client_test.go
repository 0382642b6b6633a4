package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"promatch.backend/internal/config"
	"promatch.backend/internal/domain/entities"
)

func newTestClient(baseURL string) *MercadoPagoClient {
	return NewMercadoPagoClient(config.MercadoPagoConfig{
		ClientID:            "cid",
		ClientSecret:        "csecret",
		RedirectURI:         "https://api.promatch.io/cb",
		PlatformAccessToken: "platform-token",
		APIBaseURL:          baseURL,
		AuthURL:             "https://auth.mercadopago.com/authorization",
	}, time.Second)
}

func TestAuthorizeURL(t *testing.T) {
	raw := newTestClient("http://unused").AuthorizeURL("uid:123")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "auth.mercadopago.com", u.Host)
	assert.Equal(t, "/authorization", u.Path)
	q := u.Query()
	assert.Equal(t, "cid", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "mp", q.Get("platform_id"))
	assert.Equal(t, "https://api.promatch.io/cb", q.Get("redirect_uri"))
	assert.Equal(t, "uid:123", q.Get("state"))
}

func TestExchangeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth/token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		assert.Equal(t, "cid", r.PostForm.Get("client_id"))
		assert.Equal(t, "csecret", r.PostForm.Get("client_secret"))
		_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","expires_in":21600,"user_id":987654}`))
	}))
	defer srv.Close()

	creds, err := newTestClient(srv.URL).ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "at", creds.AccessToken)
	assert.Equal(t, "rt", creds.RefreshToken)
	assert.Equal(t, 6*time.Hour, creds.ExpiresIn)
	assert.Equal(t, "987654", creds.SellerID)
}

func TestRefreshToken_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).RefreshToken(context.Background(), "old")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestExchangeCode_EmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).ExchangeCode(context.Background(), "c")
	require.Error(t, err)
}

func TestCreateCheckout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkout/preferences", r.URL.Path)
		assert.Equal(t, "Bearer seller-token", r.Header.Get("Authorization"))

		var body preferenceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Items, 1)
		assert.Equal(t, 1500.0, body.Items[0].UnitPrice)
		assert.Equal(t, "ARS", body.Items[0].CurrencyID)
		assert.Equal(t, "Clase con Ana", body.Items[0].Title)
		assert.Equal(t, "payment_a_b_1", body.ExternalReference)
		assert.Equal(t, "https://front/ok", body.BackURLs.Success)
		_, _ = w.Write([]byte(`{"id":"pref-1","init_point":"https://mp/init","sandbox_init_point":"https://mp/sandbox"}`))
	}))
	defer srv.Close()

	checkout, err := newTestClient(srv.URL).CreateCheckout(context.Background(), "seller-token", entities.CheckoutRequest{
		Description: "Clase con Ana",
		Amount:      1500,
		Currency:    "ARS",
		ExternalRef: "payment_a_b_1",
		SuccessURL:  "https://front/ok",
	})
	require.NoError(t, err)
	assert.Equal(t, "pref-1", checkout.PreferenceID)
	assert.Equal(t, "https://mp/init", checkout.InitPoint)
	assert.Equal(t, "https://mp/sandbox", checkout.SandboxInitPoint)
	assert.Equal(t, "payment_a_b_1", checkout.ExternalRef)
}

func TestFetchPaymentDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/123", r.URL.Path)
		assert.Equal(t, "Bearer platform-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":123,"status":"approved","transaction_amount":99.5,"external_reference":"payment_x_y_1"}`))
	}))
	defer srv.Close()

	details, err := newTestClient(srv.URL).FetchPaymentDetails(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "123", details.ID)
	assert.Equal(t, "approved", details.Status)
	assert.Equal(t, 99.5, details.Amount)
	assert.Equal(t, "payment_x_y_1", details.ExternalRef)
}
