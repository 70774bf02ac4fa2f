package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const webhookSecret = "whsec_test"

func testVerifier(now time.Time) *WebhookVerifier {
	v := NewWebhookVerifier(webhookSecret, 5*time.Minute)
	v.now = func() time.Time { return now }
	return v
}

func TestVerifyAndParseValidSignature(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	body := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_123","payment_status":"paid","metadata":{"courseId":"course-1","userId":"user-1"}}}}`)
	header := SignPayload(body, webhookSecret, now)

	event, err := testVerifier(now).VerifyAndParse(body, header)
	require.NoError(t, err)
	require.Equal(t, EventCheckoutCompleted, event.Type)
	require.Equal(t, "cs_123", event.Data.Object.ID)
	require.Equal(t, PaymentStatusPaid, event.Data.Object.PaymentStatus)
	require.Equal(t, "course-1", event.Data.Object.Metadata["courseId"])
	require.Equal(t, "user-1", event.Data.Object.Metadata["userId"])
}

func TestVerifyAndParseMissingHeader(t *testing.T) {
	_, err := testVerifier(time.Now()).VerifyAndParse([]byte(`{}`), "")
	require.Error(t, err)
}

func TestVerifyAndParseWrongSecret(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	body := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	header := SignPayload(body, "whsec_other", now)

	_, err := testVerifier(now).VerifyAndParse(body, header)
	require.Error(t, err)
}

func TestVerifyAndParseTamperedBody(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	body := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	header := SignPayload(body, webhookSecret, now)

	_, err := testVerifier(now).VerifyAndParse([]byte(`{"id":"evt_2"}`), header)
	require.Error(t, err)
}

func TestVerifyAndParseStaleTimestamp(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	body := []byte(`{"id":"evt_1"}`)
	header := SignPayload(body, webhookSecret, issued)

	_, err := testVerifier(issued.Add(10 * time.Minute)).VerifyAndParse(body, header)
	require.Error(t, err)
}

func TestVerifyAndParseMalformedHeader(t *testing.T) {
	v := testVerifier(time.Now())

	for _, header := range []string{"t=abc,v1=00", "v1=00", "t=123"} {
		_, err := v.VerifyAndParse([]byte(`{}`), header)
		require.Error(t, err, "header %q", header)
	}
}
