package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testServiceID = "26785a09-ab16-4eb0-8407-a37497a57506"
	testSecret    = "3d844edf-8d35-48ac-975b-e847b4f122b0"
)

func testAPIKey() string {
	return "facade_test-" + testServiceID + "-" + testSecret
}

func TestSplitNotifyKey(t *testing.T) {
	serviceID, secret, err := splitNotifyKey(testAPIKey())
	require.NoError(t, err)
	assert.Equal(t, testServiceID, serviceID)
	assert.Equal(t, testSecret, secret)

	_, _, err = splitNotifyKey("short")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNotifyProvider_SendTemplate(t *testing.T) {
	var got notifyEmailRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/notifications/email", r.URL.Path)

		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		token, err := jwt.Parse(raw, func(tok *jwt.Token) (interface{}, error) {
			return []byte(testSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, testServiceID, claims["iss"])

		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"740e5834-3a29-46b4-9a6f-16142fde533a"}`))
	}))
	defer srv.Close()

	p, err := NewNotify(NotifyConfig{BaseURL: srv.URL, APIKey: testAPIKey(), Timeout: time.Second})
	require.NoError(t, err)

	id, err := p.SendTemplate(context.Background(), "alice@example.com", "tmpl-1", map[string]string{"first_name": "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "740e5834-3a29-46b4-9a6f-16142fde533a", id)
	assert.Equal(t, "alice@example.com", got.EmailAddress)
	assert.Equal(t, "tmpl-1", got.TemplateID)
	assert.Equal(t, "Alice", got.Personalisation["first_name"])
}

func TestNotifyProvider_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status_code":400,"errors":[{"error":"BadRequestError","message":"Missing personalisation: name"}]}`))
	}))
	defer srv.Close()

	p, err := NewNotify(NotifyConfig{BaseURL: srv.URL, APIKey: testAPIKey()})
	require.NoError(t, err)

	id, err := p.SendTemplate(context.Background(), "alice@example.com", "tmpl-1", nil)
	assert.Empty(t, id)
	assert.ErrorIs(t, err, ErrDeliveryFailed)
	assert.Contains(t, err.Error(), "Missing personalisation")
}

func TestNoOpProvider(t *testing.T) {
	id, err := (&NoOpProvider{}).SendTemplate(context.Background(), "a@example.com", "t", nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "noop-"))
}
