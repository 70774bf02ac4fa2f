package models

// CheckoutRequest starts a hosted checkout session for a paid course.
type CheckoutRequest struct {
	CourseID   string  `json:"courseId" validate:"required,uuid4"`
	CourseName string  `json:"courseName" validate:"required,max=200"`
	Price      float64 `json:"price" validate:"required,gt=0"`
}

// CheckoutResponse returns the provider session handle for redirecting the
// client.
type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url,omitempty"`
}

// VerifySessionRequest asks the provider for a session's payment state.
type VerifySessionRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

// VerifySessionResponse reports whether the session is paid and which course
// it unlocks.
type VerifySessionResponse struct {
	Success  bool   `json:"success"`
	CourseID string `json:"courseId,omitempty"`
}
