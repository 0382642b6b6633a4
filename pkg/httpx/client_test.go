package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Do_DecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		b, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"x"}`, string(b))
		_, _ = w.Write([]byte(`{"id":"42"}`))
	}))
	defer srv.Close()

	req, err := JSONRequest(http.MethodPost, srv.URL, map[string]string{"name": "x"})
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer tok")

	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, New(time.Second).Do(context.Background(), req, &out))
	assert.Equal(t, "42", out.ID)
}

func TestClient_Do_RetriesOnceOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		b, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"a":1}`, string(b))
		if n == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(time.Second)
	c.backoff = time.Millisecond
	req, _ := JSONRequest(http.MethodPost, srv.URL, map[string]int{"a": 1})
	require.NoError(t, c.Do(context.Background(), req, nil))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Do_GivesUpAfterSecondFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(time.Second)
	c.backoff = time.Millisecond
	err := c.Do(context.Background(), Request{Method: http.MethodGet, URL: srv.URL}, nil)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Do_NoRetryOnClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"bad"}`))
	}))
	defer srv.Close()

	err := New(time.Second).Do(context.Background(), Request{Method: http.MethodGet, URL: srv.URL}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Do_TimeoutPerAttempt(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		select {
		case <-r.Context().Done():
		case <-time.After(500 * time.Millisecond):
		}
	}))
	defer srv.Close()

	c := New(20 * time.Millisecond)
	c.backoff = time.Millisecond
	err := c.Do(context.Background(), Request{Method: http.MethodGet, URL: srv.URL}, nil)
	require.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Do_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	var out map[string]interface{}
	err := New(time.Second).Do(context.Background(), Request{Method: http.MethodGet, URL: srv.URL}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestRetry(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), time.Second, func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("flaky")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	err = Retry(context.Background(), time.Second, func(ctx context.Context) error {
		calls++
		return errors.New("down")
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}
