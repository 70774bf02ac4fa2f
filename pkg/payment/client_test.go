package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/coursehub/coursehub-api/pkg/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.PaymentConfig{
		APIBase:        server.URL,
		SecretKey:      "sk_test",
		SuccessURL:     "http://localhost:3000/success",
		CancelURL:      "http://localhost:3000/cancel",
		Currency:       "usd",
		RequestTimeout: 5 * time.Second,
	})
}

func TestCreateCheckoutSession(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		require.Equal(t, "payment", r.PostForm.Get("mode"))
		require.Equal(t, "5000", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		require.Equal(t, "Algorithms", r.PostForm.Get("line_items[0][price_data][product_data][name]"))
		require.Equal(t, "course-1", r.PostForm.Get("metadata[courseId]"))
		require.Equal(t, "user-1", r.PostForm.Get("metadata[userId]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_123","url":"https://pay.example/cs_123","payment_status":"unpaid"}`))
	})

	session, err := client.CreateCheckoutSession(context.Background(), CreateSessionParams{
		CourseID:    "course-1",
		CourseName:  "Algorithms",
		UserID:      "user-1",
		AmountMinor: 5000,
	})
	require.NoError(t, err)
	require.Equal(t, "cs_123", session.ID)
	require.Equal(t, "https://pay.example/cs_123", session.URL)
}

func TestCreateCheckoutSessionProviderError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"amount too small"}}`))
	})

	_, err := client.CreateCheckoutSession(context.Background(), CreateSessionParams{
		CourseID:    "course-1",
		CourseName:  "Algorithms",
		UserID:      "user-1",
		AmountMinor: 1,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "amount too small")
}

func TestGetCheckoutSession(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v1/checkout/sessions/cs_123", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_123","payment_status":"paid","metadata":{"courseId":"course-1","userId":"user-1"}}`))
	})

	session, err := client.GetCheckoutSession(context.Background(), "cs_123")
	require.NoError(t, err)
	require.Equal(t, PaymentStatusPaid, session.PaymentStatus)
	require.Equal(t, "course-1", session.Metadata["courseId"])
}
