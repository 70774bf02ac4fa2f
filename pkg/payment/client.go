package payment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/coursehub/coursehub-api/pkg/config"
)

// CheckoutSession mirrors the provider's checkout session resource. Only the
// fields the application reads are mapped.
type CheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
}

// PaymentStatusPaid marks a settled checkout session.
const PaymentStatusPaid = "paid"

// CreateSessionParams describes a one-time payment session.
type CreateSessionParams struct {
	CourseID    string
	CourseName  string
	UserID      string
	AmountMinor int64
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to the hosted checkout provider's REST API. Calls are
// synchronous with a per-request timeout; failures are not retried.
type Client struct {
	http *resty.Client
	cfg  config.PaymentConfig
}

// NewClient constructs a provider client from configuration.
func NewClient(cfg config.PaymentConfig) *Client {
	http := resty.New().
		SetBaseURL(cfg.APIBase).
		SetTimeout(cfg.RequestTimeout).
		SetAuthToken(cfg.SecretKey)

	return &Client{http: http, cfg: cfg}
}

// CreateCheckoutSession opens a hosted checkout session for a one-time
// payment, attaching course and user IDs as opaque metadata so the webhook
// can reconcile the enrollment later.
func (c *Client) CreateCheckoutSession(ctx context.Context, params CreateSessionParams) (*CheckoutSession, error) {
	form := map[string]string{
		"mode":                           "payment",
		"payment_method_types[0]":        "card",
		"line_items[0][quantity]":        "1",
		"line_items[0][price_data][currency]":                  c.cfg.Currency,
		"line_items[0][price_data][unit_amount]":               strconv.FormatInt(params.AmountMinor, 10),
		"line_items[0][price_data][product_data][name]":        params.CourseName,
		"line_items[0][price_data][product_data][description]": fmt.Sprintf("Enrollment in %s", params.CourseName),
		"success_url":          c.cfg.SuccessURL,
		"cancel_url":           c.cfg.CancelURL,
		"client_reference_id":  params.UserID,
		"metadata[courseId]":   params.CourseID,
		"metadata[userId]":     params.UserID,
	}

	var session CheckoutSession
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&session).
		SetError(&apiErr).
		Post("/v1/checkout/sessions")
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("create checkout session: %s (%s)", apiErr.Error.Message, resp.Status())
	}

	return &session, nil
}

// GetCheckoutSession fetches a checkout session by ID.
func (c *Client) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	var session CheckoutSession
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&session).
		SetError(&apiErr).
		Get("/v1/checkout/sessions/" + sessionID)
	if err != nil {
		return nil, fmt.Errorf("get checkout session %s: %w", sessionID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("get checkout session %s: %s (%s)", sessionID, apiErr.Error.Message, resp.Status())
	}

	return &session, nil
}
