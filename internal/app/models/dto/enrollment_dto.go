package dto

// CreateSelectionRequest is the student payload for selecting a course
type CreateSelectionRequest struct {
	Email    string `json:"email" binding:"required,email" example:"student@lifelearn.app"`
	CourseID int64  `json:"courseId" binding:"required,gt=0" example:"1"`
}

// PaymentIntentRequest asks the payment capability to authorize a charge.
// Price is in major currency units; the server converts to minor units.
type PaymentIntentRequest struct {
	Price float64 `json:"price" binding:"required,gt=0" example:"20.00"`
}

// PaymentIntentResponse carries the client secret used to complete the
// payment out-of-band
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	AmountMinor  int64  `json:"amountMinor" example:"2000"`
	Currency     string `json:"currency" example:"usd"`
}

// CompleteEnrollmentRequest records a finished payment and claims a seat
type CompleteEnrollmentRequest struct {
	Email         string  `json:"email" binding:"required,email" example:"student@lifelearn.app"`
	CourseID      int64   `json:"courseId" binding:"required,gt=0" example:"1"`
	Price         float64 `json:"price" binding:"required,gt=0" example:"20.00"`
	TransactionID string  `json:"transactionId" binding:"required" example:"pi_3OaFxA2eZvKYlo2C"`
}
