package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const notifyKeySegment = 36

type NotifyConfig struct {
	BaseURL string
	// APIKey has the form <name>-<service id>-<secret>; both ids are UUIDs.
	APIKey  string
	Timeout time.Duration
}

type notifyEmailRequest struct {
	EmailAddress    string            `json:"email_address"`
	TemplateID      string            `json:"template_id"`
	Personalisation map[string]string `json:"personalisation,omitempty"`
	Reference       string            `json:"reference,omitempty"`
}

type notifyEmailResponse struct {
	ID string `json:"id"`
}

type notifyErrorResponse struct {
	StatusCode int `json:"status_code"`
	Errors     []struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	} `json:"errors"`
}

// NotifyProvider talks to a GOV.UK Notify compatible email API.
type NotifyProvider struct {
	baseURL   string
	serviceID string
	secret    []byte
	client    *http.Client
	now       func() time.Time
}

func NewNotify(cfg NotifyConfig) (*NotifyProvider, error) {
	serviceID, secret, err := splitNotifyKey(cfg.APIKey)
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NotifyProvider{
		baseURL:   strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		serviceID: serviceID,
		secret:    []byte(secret),
		client:    &http.Client{Timeout: timeout},
		now:       time.Now,
	}, nil
}

func splitNotifyKey(raw string) (string, string, error) {
	key := strings.TrimSpace(raw)
	if len(key) < 2*notifyKeySegment+1 {
		return "", "", fmt.Errorf("%w: notify api key too short", ErrInvalidConfig)
	}
	secret := key[len(key)-notifyKeySegment:]
	serviceID := key[len(key)-2*notifyKeySegment-1 : len(key)-notifyKeySegment-1]
	if key[len(key)-notifyKeySegment-1] != '-' {
		return "", "", fmt.Errorf("%w: malformed notify api key", ErrInvalidConfig)
	}
	return serviceID, secret, nil
}

func (p *NotifyProvider) token() (string, error) {
	claims := jwt.MapClaims{
		"iss": p.serviceID,
		"iat": p.now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

func (p *NotifyProvider) SendTemplate(ctx context.Context, recipient string, templateID string, personalisation map[string]string) (string, error) {
	payload, err := json.Marshal(notifyEmailRequest{
		EmailAddress:    recipient,
		TemplateID:      templateID,
		Personalisation: personalisation,
	})
	if err != nil {
		return "", err
	}

	token, err := p.token()
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %v", ErrDeliveryFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v2/notifications/email", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var notifyErr notifyErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&notifyErr); err != nil || len(notifyErr.Errors) == 0 {
			return "", fmt.Errorf("%w: status %d", ErrDeliveryFailed, resp.StatusCode)
		}
		return "", fmt.Errorf("%w: %s: %s", ErrDeliveryFailed, notifyErr.Errors[0].Error, notifyErr.Errors[0].Message)
	}

	var out notifyEmailResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	if strings.TrimSpace(out.ID) == "" {
		return "", fmt.Errorf("%w: %w", ErrDeliveryFailed, errors.New("notify_response_invalid"))
	}
	return out.ID, nil
}
