package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	appauth "github.com/lifelearn/lifelearn/internal/app/auth"
	"github.com/lifelearn/lifelearn/internal/app/models"
	"github.com/lifelearn/lifelearn/internal/app/models/dto"
	"github.com/lifelearn/lifelearn/internal/app/repositories"
	"github.com/lifelearn/lifelearn/internal/pkg/apperrors"
	"github.com/lifelearn/lifelearn/internal/pkg/cache"
	"github.com/lifelearn/lifelearn/internal/pkg/helpers"
	"github.com/lifelearn/lifelearn/internal/pkg/payment"
)

// EnrollmentService coordinates the select, pay, enroll path
type EnrollmentService interface {
	Select(ctx context.Context, actorEmail string, req *dto.CreateSelectionRequest) (*models.Selection, error)
	ListSelections(ctx context.Context, actorEmail, email string) ([]*models.Selection, error)
	DeleteSelection(ctx context.Context, actorEmail string, selectionID int64) error
	AuthorizePayment(ctx context.Context, req *dto.PaymentIntentRequest) (*dto.PaymentIntentResponse, error)
	CompleteEnrollment(ctx context.Context, actorEmail string, req *dto.CompleteEnrollmentRequest) (*models.Payment, error)
	ListEnrolled(ctx context.Context, actorEmail, email string) ([]*models.Payment, error)
}

type enrollmentServiceImpl struct {
	courses     CourseStore
	selections  SelectionStore
	payments    PaymentStore
	enrollments EnrollmentStore
	provider    payment.Provider
	authz       *appauth.AuthorizationService
	cache       *cache.Cache
	currency    string
	logger      zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(
	courses CourseStore,
	selections SelectionStore,
	payments PaymentStore,
	enrollments EnrollmentStore,
	provider payment.Provider,
	authz *appauth.AuthorizationService,
	c *cache.Cache,
	currency string,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentServiceImpl{
		courses:     courses,
		selections:  selections,
		payments:    payments,
		enrollments: enrollments,
		provider:    provider,
		authz:       authz,
		cache:       c,
		currency:    currency,
		logger:      logger,
	}
}

// Select records a student's interest in a course. Selection is advisory:
// no seat is held until enrollment completes.
func (s *enrollmentServiceImpl) Select(ctx context.Context, actorEmail string, req *dto.CreateSelectionRequest) (*models.Selection, error) {
	email := normalizeEmail(req.Email)
	if err := s.authz.RequireOwner(actorEmail, email); err != nil {
		return nil, err
	}

	if _, err := s.courses.GetCourseByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, err
	}

	selection := &models.Selection{Email: email, CourseID: req.CourseID}
	id, err := s.selections.CreateSelection(ctx, selection)
	if err != nil {
		if errors.Is(err, repositories.ErrSelectionExists) {
			return nil, apperrors.ErrSelectionExists
		}
		s.logger.Error().Err(err).Str("email", email).Int64("courseID", req.CourseID).Msg("Error creating selection")
		return nil, err
	}

	return s.selections.GetSelectionByID(ctx, id)
}

// ListSelections returns a student's current selections
func (s *enrollmentServiceImpl) ListSelections(ctx context.Context, actorEmail, email string) ([]*models.Selection, error) {
	email = normalizeEmail(email)
	if err := s.authz.RequireOwner(actorEmail, email); err != nil {
		return nil, err
	}
	return s.selections.GetSelectionsByEmail(ctx, email)
}

// DeleteSelection removes a selection owned by the caller
func (s *enrollmentServiceImpl) DeleteSelection(ctx context.Context, actorEmail string, selectionID int64) error {
	selection, err := s.selections.GetSelectionByID(ctx, selectionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrSelectionNotFound
		}
		return err
	}
	if err := s.authz.RequireOwner(actorEmail, selection.Email); err != nil {
		return err
	}
	return s.selections.DeleteSelection(ctx, selectionID)
}

// AuthorizePayment asks the processor for a payment intent. The price
// arrives in major currency units and is converted to minor units here;
// conversions that do not yield a positive amount are rejected.
func (s *enrollmentServiceImpl) AuthorizePayment(ctx context.Context, req *dto.PaymentIntentRequest) (*dto.PaymentIntentResponse, error) {
	amountMinor := helpers.ToMinorUnits(req.Price)
	if amountMinor <= 0 {
		return nil, apperrors.ErrInvalidPaymentAmount
	}

	intent, err := s.provider.CreateIntent(ctx, amountMinor, s.currency)
	if err != nil {
		if errors.Is(err, payment.ErrDeclined) {
			return nil, apperrors.ErrPaymentDeclined
		}
		s.logger.Error().Err(err).Int64("amountMinor", amountMinor).Msg("Error creating payment intent")
		return nil, err
	}

	return &dto.PaymentIntentResponse{
		ClientSecret: intent.ClientSecret,
		AmountMinor:  intent.AmountMinor,
		Currency:     intent.Currency,
	}, nil
}

// CompleteEnrollment verifies the confirmed payment, then takes a seat and
// records the payment in one transaction. If the processor does not confirm
// the payment nothing is written.
func (s *enrollmentServiceImpl) CompleteEnrollment(ctx context.Context, actorEmail string, req *dto.CompleteEnrollmentRequest) (*models.Payment, error) {
	email := normalizeEmail(req.Email)
	if err := s.authz.RequireOwner(actorEmail, email); err != nil {
		return nil, err
	}

	amountMinor := helpers.ToMinorUnits(req.Price)
	if amountMinor <= 0 {
		return nil, apperrors.ErrInvalidPaymentAmount
	}

	course, err := s.courses.GetCourseByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, err
	}

	if err := s.provider.VerifyIntent(ctx, req.TransactionID); err != nil {
		if errors.Is(err, payment.ErrDeclined) {
			return nil, apperrors.ErrPaymentDeclined
		}
		s.logger.Error().Err(err).Str("transactionID", req.TransactionID).Msg("Error verifying payment intent")
		return nil, err
	}

	// Clear the triggering selection in the same transaction if one exists
	var selectionID int64
	selections, err := s.selections.GetSelectionsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	for _, sel := range selections {
		if sel.CourseID == req.CourseID {
			selectionID = sel.ID
			break
		}
	}

	record := &models.Payment{
		Email:         email,
		CourseID:      course.ID,
		CourseName:    course.Name,
		AmountMinor:   amountMinor,
		Currency:      s.currency,
		TransactionID: req.TransactionID,
	}

	if err := s.enrollments.CompleteEnrollment(ctx, record, selectionID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrCourseSoldOut):
			return nil, apperrors.ErrSoldOut
		case errors.Is(err, repositories.ErrCourseNotApproved):
			return nil, apperrors.ErrCourseNotApproved
		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperrors.ErrCourseNotFound
		}
		s.logger.Error().Err(err).Str("email", email).Int64("courseID", req.CourseID).Msg("Error completing enrollment")
		return nil, err
	}

	s.cache.Invalidate(ctx, popularCoursesKey)
	return record, nil
}

// ListEnrolled returns the caller's payment history, newest first
func (s *enrollmentServiceImpl) ListEnrolled(ctx context.Context, actorEmail, email string) ([]*models.Payment, error) {
	email = normalizeEmail(email)
	if err := s.authz.RequireOwner(actorEmail, email); err != nil {
		return nil, err
	}
	return s.payments.GetPaymentsByEmail(ctx, email)
}
