package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/coursehub-api/internal/models"
	"github.com/coursehub/coursehub-api/internal/repository"
	appErrors "github.com/coursehub/coursehub-api/pkg/errors"
	"github.com/coursehub/coursehub-api/pkg/payment"
)

type mockCheckoutProvider struct {
	sessions    map[string]payment.CheckoutSession
	lastParams  payment.CreateSessionParams
	createErr   error
	fetchErr    error
	createCalls int
}

func (m *mockCheckoutProvider) CreateCheckoutSession(ctx context.Context, params payment.CreateSessionParams) (*payment.CheckoutSession, error) {
	m.createCalls++
	m.lastParams = params
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &payment.CheckoutSession{ID: "cs_123", URL: "https://pay.example/cs_123"}, nil
}

func (m *mockCheckoutProvider) GetCheckoutSession(ctx context.Context, sessionID string) (*payment.CheckoutSession, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	if s, ok := m.sessions[sessionID]; ok {
		return &s, nil
	}
	return &payment.CheckoutSession{ID: sessionID, PaymentStatus: "unpaid"}, nil
}

type mockPaidEnroller struct {
	calls []string
}

func (m *mockPaidEnroller) EnrollFromPayment(ctx context.Context, userID, courseID, paymentID string) error {
	m.calls = append(m.calls, userID+"|"+courseID+"|"+paymentID)
	return nil
}

func signedEvent(t *testing.T, secret string, event payment.Event) ([]byte, string) {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return body, payment.SignPayload(body, secret, time.Now())
}

func paidSessionEvent(sessionID, courseID, userID string) payment.Event {
	event := payment.Event{ID: "evt_1", Type: payment.EventCheckoutCompleted}
	event.Data.Object = payment.CheckoutSession{
		ID:            sessionID,
		PaymentStatus: payment.PaymentStatusPaid,
		Metadata:      map[string]string{"courseId": courseID, "userId": userID},
	}
	return event
}

func newPaymentService(provider *mockCheckoutProvider, enroller *mockPaidEnroller, secret string) *PaymentService {
	verifier := payment.NewWebhookVerifier(secret, 5*time.Minute)
	return NewPaymentService(provider, verifier, enroller, nil, nil, nil)
}

func TestCreateCheckoutConvertsToMinorUnits(t *testing.T) {
	provider := &mockCheckoutProvider{}
	svc := newPaymentService(provider, &mockPaidEnroller{}, "whsec")

	resp, err := svc.CreateCheckout(context.Background(), "u1", models.CheckoutRequest{
		CourseID: testCourseID, CourseName: "Algorithms", Price: 49.99,
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_123", resp.SessionID)
	assert.Equal(t, int64(4999), provider.lastParams.AmountMinor)
	assert.Equal(t, "u1", provider.lastParams.UserID)
}

func TestCreateCheckoutValidation(t *testing.T) {
	provider := &mockCheckoutProvider{}
	svc := newPaymentService(provider, &mockPaidEnroller{}, "whsec")

	_, err := svc.CreateCheckout(context.Background(), "u1", models.CheckoutRequest{CourseID: testCourseID, CourseName: "Algorithms", Price: 0})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, provider.createCalls)
}

func TestWebhookPaidSessionEnrolls(t *testing.T) {
	enroller := &mockPaidEnroller{}
	svc := newPaymentService(&mockCheckoutProvider{}, enroller, "whsec")

	body, sig := signedEvent(t, "whsec", paidSessionEvent("cs_123", "c1", "u1"))
	require.NoError(t, svc.HandleWebhook(context.Background(), body, sig))
	require.Len(t, enroller.calls, 1)
	assert.Equal(t, "u1|c1|cs_123", enroller.calls[0])
}

func TestWebhookDoubleDeliverySingleEnrollment(t *testing.T) {
	// The enroller below is the real service over an in-memory repo, so the
	// duplicate insert path is exercised end to end.
	repo := &mockEnrollmentRepo{}
	enrollments := NewEnrollmentService(repo, &mockCourseLookup{}, nil, nil)
	verifier := payment.NewWebhookVerifier("whsec", 5*time.Minute)
	svc := NewPaymentService(&mockCheckoutProvider{}, verifier, enrollments, nil, nil, nil)

	body, sig := signedEvent(t, "whsec", paidSessionEvent("cs_123", "c1", "u1"))
	require.NoError(t, svc.HandleWebhook(context.Background(), body, sig))
	require.NoError(t, svc.HandleWebhook(context.Background(), body, sig))
	assert.Equal(t, 1, repo.creates)
}

func TestWebhookDeletedCourseStillAcknowledged(t *testing.T) {
	// Course deletion does not cascade, so a session can settle after its
	// course row is gone. The event must still be acknowledged or the
	// provider retries it forever.
	repo := &mockEnrollmentRepo{createErr: repository.ErrMissingReference}
	enrollments := NewEnrollmentService(repo, &mockCourseLookup{}, nil, nil)
	verifier := payment.NewWebhookVerifier("whsec", 5*time.Minute)
	svc := NewPaymentService(&mockCheckoutProvider{}, verifier, enrollments, nil, nil, nil)

	body, sig := signedEvent(t, "whsec", paidSessionEvent("cs_123", "deleted-course", "u1"))
	require.NoError(t, svc.HandleWebhook(context.Background(), body, sig))
	assert.Zero(t, repo.creates)
}

func TestWebhookBadSignatureNoWrites(t *testing.T) {
	enroller := &mockPaidEnroller{}
	svc := newPaymentService(&mockCheckoutProvider{}, enroller, "whsec")

	body, _ := signedEvent(t, "whsec", paidSessionEvent("cs_123", "c1", "u1"))
	badSig := payment.SignPayload(body, "wrong-secret", time.Now())

	err := svc.HandleWebhook(context.Background(), body, badSig)
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
	assert.Empty(t, enroller.calls)
}

func TestWebhookUnpaidSessionIgnored(t *testing.T) {
	enroller := &mockPaidEnroller{}
	svc := newPaymentService(&mockCheckoutProvider{}, enroller, "whsec")

	event := paidSessionEvent("cs_123", "c1", "u1")
	event.Data.Object.PaymentStatus = "unpaid"
	body, sig := signedEvent(t, "whsec", event)

	require.NoError(t, svc.HandleWebhook(context.Background(), body, sig))
	assert.Empty(t, enroller.calls)
}

func TestWebhookMissingMetadataStillAccepted(t *testing.T) {
	enroller := &mockPaidEnroller{}
	svc := newPaymentService(&mockCheckoutProvider{}, enroller, "whsec")

	event := paidSessionEvent("cs_123", "", "")
	event.Data.Object.Metadata = map[string]string{}
	body, sig := signedEvent(t, "whsec", event)

	require.NoError(t, svc.HandleWebhook(context.Background(), body, sig))
	assert.Empty(t, enroller.calls)
}

func TestVerifySessionPaidEnrolls(t *testing.T) {
	provider := &mockCheckoutProvider{sessions: map[string]payment.CheckoutSession{
		"cs_123": {ID: "cs_123", PaymentStatus: payment.PaymentStatusPaid, Metadata: map[string]string{"courseId": "c1", "userId": "u1"}},
	}}
	enroller := &mockPaidEnroller{}
	svc := newPaymentService(provider, enroller, "whsec")

	resp, err := svc.VerifySession(context.Background(), models.VerifySessionRequest{SessionID: "cs_123"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "c1", resp.CourseID)
	require.Len(t, enroller.calls, 1)
	assert.Equal(t, "u1|c1|cs_123", enroller.calls[0])
}

func TestVerifySessionUnpaid(t *testing.T) {
	enroller := &mockPaidEnroller{}
	svc := newPaymentService(&mockCheckoutProvider{}, enroller, "whsec")

	_, err := svc.VerifySession(context.Background(), models.VerifySessionRequest{SessionID: "cs_unpaid"})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
	assert.Empty(t, enroller.calls)
}
