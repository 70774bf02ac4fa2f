package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EventCheckoutCompleted is the only event type this service consumes.
const EventCheckoutCompleted = "checkout.session.completed"

// Event is a provider webhook event wrapping a checkout session.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object CheckoutSession `json:"object"`
	} `json:"data"`
}

// WebhookVerifier validates provider event signatures. The provider signs
// "<timestamp>.<body>" with HMAC-SHA256 and sends the result in a header of
// the form "t=<unix>,v1=<hex>[,v1=<hex>...]".
type WebhookVerifier struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewWebhookVerifier constructs a verifier with the shared endpoint secret.
func NewWebhookVerifier(secret string, maxAge time.Duration) *WebhookVerifier {
	if maxAge <= 0 {
		maxAge = 5 * time.Minute
	}
	return &WebhookVerifier{secret: []byte(secret), maxAge: maxAge, now: time.Now}
}

// VerifyAndParse checks the signature header against the raw body and
// decodes the event. An unverified body must never be trusted, so any
// signature problem fails closed.
func (v *WebhookVerifier) VerifyAndParse(body []byte, sigHeader string) (*Event, error) {
	if sigHeader == "" {
		return nil, fmt.Errorf("missing signature header")
	}
	if len(v.secret) == 0 {
		return nil, fmt.Errorf("webhook secret not configured")
	}

	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return nil, err
	}

	issuedAt := time.Unix(timestamp, 0)
	if v.now().Sub(issuedAt) > v.maxAge {
		return nil, fmt.Errorf("signature timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, v.secret)
	_, _ = mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write(body)
	expected := mac.Sum(nil)

	valid := false
	for _, sig := range signatures {
		decoded, decodeErr := hex.DecodeString(sig)
		if decodeErr != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("no matching signature")
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	return &event, nil
}

// SignPayload produces a signature header for the given body. Used by tests
// and local tooling to emulate the provider.
func SignPayload(body []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(strconv.FormatInt(ts.Unix(), 10)))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write(body)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func parseSignatureHeader(header string) (int64, []string, error) {
	var timestamp int64 = -1
	var signatures []string

	for _, pair := range strings.Split(header, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			continue
		}
		switch parts[0] {
		case "t":
			ts, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("invalid signature timestamp")
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, parts[1])
		}
	}

	if timestamp < 0 {
		return 0, nil, fmt.Errorf("signature header missing timestamp")
	}
	if len(signatures) == 0 {
		return 0, nil, fmt.Errorf("signature header missing signature")
	}

	return timestamp, signatures, nil
}
