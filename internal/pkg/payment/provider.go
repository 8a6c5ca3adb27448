// Package payment wraps the external card processor used to authorize
// enrollment charges.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lifelearn/lifelearn/internal/pkg/logger"
)

// ErrDeclined is returned when the processor refuses to authorize the charge.
var ErrDeclined = errors.New("payment declined by processor")

// Intent is an authorized charge awaiting client-side confirmation
type Intent struct {
	ClientSecret string
	AmountMinor  int64
	Currency     string
}

// Provider authorizes charges denominated in minor currency units
type Provider interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string) (*Intent, error)
	VerifyIntent(ctx context.Context, transactionID string) error
}

// HTTPProvider talks to a Stripe-compatible payment intents API
type HTTPProvider struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

// NewHTTPProvider creates an HTTPProvider for the given API endpoint
func NewHTTPProvider(baseURL, secretKey string) *HTTPProvider {
	return &HTTPProvider{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type intentResponse struct {
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Error        *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// CreateIntent authorizes a charge of amountMinor in the given currency
func (p *HTTPProvider) CreateIntent(ctx context.Context, amountMinor int64, currency string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountMinor, 10))
	form.Set("currency", currency)
	form.Set("payment_method_types[]", "card")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build payment intent request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment intent request failed: %w", err)
	}
	defer resp.Body.Close()

	var body intentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode payment intent response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if body.Error != nil {
			logger.Warn().
				Str("code", body.Error.Code).
				Str("message", body.Error.Message).
				Msg("Payment intent rejected")
		}
		if resp.StatusCode == http.StatusPaymentRequired {
			return nil, ErrDeclined
		}
		if body.Error != nil && body.Error.Code == "card_declined" {
			return nil, ErrDeclined
		}
		return nil, fmt.Errorf("payment intent request returned status %d", resp.StatusCode)
	}

	return &Intent{
		ClientSecret: body.ClientSecret,
		AmountMinor:  body.Amount,
		Currency:     body.Currency,
	}, nil
}

type intentStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// VerifyIntent checks that the intent identified by transactionID has been
// confirmed. Returns ErrDeclined for any non-succeeded status.
func (p *HTTPProvider) VerifyIntent(ctx context.Context, transactionID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.baseURL+"/payment_intents/"+url.PathEscape(transactionID), nil)
	if err != nil {
		return fmt.Errorf("failed to build payment verification request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("payment verification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("payment verification returned status %d", resp.StatusCode)
	}

	var body intentStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode payment verification response: %w", err)
	}

	if body.Status != "succeeded" {
		logger.Warn().Str("transactionID", transactionID).Str("status", body.Status).Msg("Payment intent not confirmed")
		return ErrDeclined
	}

	return nil
}
