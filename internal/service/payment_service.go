package service

import (
	"context"
	"math"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/coursehub/coursehub-api/internal/models"
	appErrors "github.com/coursehub/coursehub-api/pkg/errors"
	"github.com/coursehub/coursehub-api/pkg/payment"
)

type checkoutProvider interface {
	CreateCheckoutSession(ctx context.Context, params payment.CreateSessionParams) (*payment.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*payment.CheckoutSession, error)
}

type webhookVerifier interface {
	VerifyAndParse(payload []byte, signatureHeader string) (*payment.Event, error)
}

type paidEnroller interface {
	EnrollFromPayment(ctx context.Context, userID, courseID, paymentID string) error
}

// PaymentService orchestrates the hosted checkout flow and reconciles paid
// sessions into enrollments. Reconciliation happens on two paths, the
// webhook and verify-session; the enrollment unique index arbitrates the
// race between them.
type PaymentService struct {
	provider    checkoutProvider
	verifier    webhookVerifier
	enrollments paidEnroller
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewPaymentService constructs the payment service.
func NewPaymentService(provider checkoutProvider, verifier webhookVerifier, enrollments paidEnroller, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		provider:    provider,
		verifier:    verifier,
		enrollments: enrollments,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// CreateCheckout opens a hosted checkout session for the course and returns
// its handle. Prices are converted to minor units.
func (s *PaymentService) CreateCheckout(ctx context.Context, userID string, req models.CheckoutRequest) (*models.CheckoutResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid checkout payload")
	}

	session, err := s.provider.CreateCheckoutSession(ctx, payment.CreateSessionParams{
		CourseID:    req.CourseID,
		CourseName:  req.CourseName,
		UserID:      userID,
		AmountMinor: int64(math.Round(req.Price * 100)),
	})
	s.metrics.RecordProviderCall("payment", err)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to create checkout session")
	}

	s.logger.Info("checkout session created",
		zap.String("session_id", session.ID), zap.String("user_id", userID), zap.String("course_id", req.CourseID))
	return &models.CheckoutResponse{SessionID: session.ID, URL: session.URL}, nil
}

// HandleWebhook verifies the provider signature and reconciles completed
// paid sessions into enrollments. It returns a validation error on bad
// signatures; verified events always succeed even when metadata is missing.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := s.verifier.VerifyAndParse(payload, signatureHeader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "webhook signature verification failed")
	}

	if event.Type != payment.EventCheckoutCompleted {
		return nil
	}
	session := event.Data.Object
	if session.PaymentStatus != payment.PaymentStatusPaid {
		return nil
	}

	courseID := session.Metadata["courseId"]
	userID := session.Metadata["userId"]
	if courseID == "" || userID == "" {
		s.logger.Warn("completed session missing metadata, skipping",
			zap.String("session_id", session.ID))
		return nil
	}

	return s.enrollments.EnrollFromPayment(ctx, userID, courseID, session.ID)
}

// VerifySession fetches the session from the provider. An unpaid session is
// a 400. A paid session also triggers the idempotent enrollment, covering
// clients that land on the success page before the webhook arrives.
func (s *PaymentService) VerifySession(ctx context.Context, req models.VerifySessionRequest) (*models.VerifySessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid verify payload")
	}

	session, err := s.provider.GetCheckoutSession(ctx, req.SessionID)
	s.metrics.RecordProviderCall("payment", err)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to fetch checkout session")
	}

	if session.PaymentStatus != payment.PaymentStatusPaid {
		return nil, appErrors.Clone(appErrors.ErrValidation, "payment not completed")
	}

	courseID := session.Metadata["courseId"]
	userID := session.Metadata["userId"]
	if courseID != "" && userID != "" {
		if err := s.enrollments.EnrollFromPayment(ctx, userID, courseID, session.ID); err != nil {
			return nil, err
		}
	}
	return &models.VerifySessionResponse{Success: true, CourseID: courseID}, nil
}
