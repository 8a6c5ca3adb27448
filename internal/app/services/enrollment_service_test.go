package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	appauth "github.com/lifelearn/lifelearn/internal/app/auth"
	"github.com/lifelearn/lifelearn/internal/app/models"
	"github.com/lifelearn/lifelearn/internal/app/models/dto"
	"github.com/lifelearn/lifelearn/internal/pkg/apperrors"
)

const testCurrency = "usd"

func newEnrollmentFixture(seats int) (*memStore, *fakeProvider, EnrollmentService, *models.Course) {
	store := newMemStore()
	provider := &fakeProvider{}
	authz := appauth.NewAuthorizationService(store)
	svc := NewEnrollmentService(store, store, store, store, provider, authz, nil, testCurrency, zerolog.Nop())

	course := &models.Course{
		Name:            "Watercolor Basics",
		InstructorName:  "Pat Teach",
		InstructorEmail: "teach@example.com",
		Price:           20.00,
		Seats:           seats,
	}
	id, _ := store.CreateCourse(context.Background(), course)
	store.mu.Lock()
	store.courses[id].Status = models.CourseStatusApproved
	store.mu.Unlock()
	course, _ = store.GetCourseByID(context.Background(), id)

	return store, provider, svc, course
}

func TestSelectRequiresOwnership(t *testing.T) {
	_, _, svc, course := newEnrollmentFixture(10)

	_, err := svc.Select(context.Background(), "mallory@example.com", &dto.CreateSelectionRequest{
		Email: "alice@example.com", CourseID: course.ID,
	})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("got %v, want ErrPermissionDenied", err)
	}
}

func TestSelectAndList(t *testing.T) {
	_, _, svc, course := newEnrollmentFixture(10)

	sel, err := svc.Select(context.Background(), "alice@example.com", &dto.CreateSelectionRequest{
		Email: "alice@example.com", CourseID: course.ID,
	})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if sel.Email != "alice@example.com" || sel.CourseID != course.ID {
		t.Errorf("unexpected selection %+v", sel)
	}

	// Selecting the same course twice is a conflict
	if _, err := svc.Select(context.Background(), "alice@example.com", &dto.CreateSelectionRequest{
		Email: "alice@example.com", CourseID: course.ID,
	}); !errors.Is(err, apperrors.ErrSelectionExists) {
		t.Errorf("duplicate select: got %v, want ErrSelectionExists", err)
	}

	selections, err := svc.ListSelections(context.Background(), "alice@example.com", "alice@example.com")
	if err != nil {
		t.Fatalf("ListSelections failed: %v", err)
	}
	if len(selections) != 1 {
		t.Fatalf("got %d selections, want 1", len(selections))
	}
	if selections[0].Course == nil || selections[0].Course.Name != "Watercolor Basics" {
		t.Error("selection missing joined course")
	}

	if _, err := svc.ListSelections(context.Background(), "mallory@example.com", "alice@example.com"); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("foreign list: got %v, want ErrPermissionDenied", err)
	}
}

func TestDeleteSelectionOwnership(t *testing.T) {
	_, _, svc, course := newEnrollmentFixture(10)

	sel, err := svc.Select(context.Background(), "alice@example.com", &dto.CreateSelectionRequest{
		Email: "alice@example.com", CourseID: course.ID,
	})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if err := svc.DeleteSelection(context.Background(), "mallory@example.com", sel.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("foreign delete: got %v, want ErrPermissionDenied", err)
	}
	if err := svc.DeleteSelection(context.Background(), "alice@example.com", sel.ID); err != nil {
		t.Errorf("owner delete failed: %v", err)
	}
	if err := svc.DeleteSelection(context.Background(), "alice@example.com", sel.ID); !errors.Is(err, apperrors.ErrSelectionNotFound) {
		t.Errorf("second delete: got %v, want ErrSelectionNotFound", err)
	}
}

func TestAuthorizePaymentConvertsToMinorUnits(t *testing.T) {
	_, provider, svc, _ := newEnrollmentFixture(10)

	resp, err := svc.AuthorizePayment(context.Background(), &dto.PaymentIntentRequest{Price: 20.00})
	if err != nil {
		t.Fatalf("AuthorizePayment failed: %v", err)
	}
	if resp.AmountMinor != 2000 {
		t.Errorf("AmountMinor = %d, want 2000", resp.AmountMinor)
	}
	if resp.Currency != testCurrency {
		t.Errorf("Currency = %q, want %q", resp.Currency, testCurrency)
	}
	if resp.ClientSecret == "" {
		t.Error("empty client secret")
	}
	if len(provider.created) != 1 || provider.created[0] != 2000 {
		t.Errorf("provider saw %v, want one intent of 2000", provider.created)
	}
}

func TestAuthorizePaymentRejectsNonPositive(t *testing.T) {
	_, provider, svc, _ := newEnrollmentFixture(10)

	for _, price := range []float64{0, -5, 0.001} {
		if _, err := svc.AuthorizePayment(context.Background(), &dto.PaymentIntentRequest{Price: price}); !errors.Is(err, apperrors.ErrInvalidPaymentAmount) {
			t.Errorf("price %v: got %v, want ErrInvalidPaymentAmount", price, err)
		}
	}
	if len(provider.created) != 0 {
		t.Error("provider called for invalid amount")
	}
}

func TestAuthorizePaymentDeclined(t *testing.T) {
	_, provider, svc, _ := newEnrollmentFixture(10)
	provider.declineCreate = true

	if _, err := svc.AuthorizePayment(context.Background(), &dto.PaymentIntentRequest{Price: 20}); !errors.Is(err, apperrors.ErrPaymentDeclined) {
		t.Errorf("got %v, want ErrPaymentDeclined", err)
	}
}

func TestCompleteEnrollment(t *testing.T) {
	store, _, svc, course := newEnrollmentFixture(5)

	sel, err := svc.Select(context.Background(), "alice@example.com", &dto.CreateSelectionRequest{
		Email: "alice@example.com", CourseID: course.ID,
	})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	record, err := svc.CompleteEnrollment(context.Background(), "alice@example.com", &dto.CompleteEnrollmentRequest{
		Email: "alice@example.com", CourseID: course.ID, Price: 20.00, TransactionID: "pi_123",
	})
	if err != nil {
		t.Fatalf("CompleteEnrollment failed: %v", err)
	}
	if record.AmountMinor != 2000 {
		t.Errorf("AmountMinor = %d, want 2000", record.AmountMinor)
	}
	if record.CourseName != "Watercolor Basics" {
		t.Errorf("CourseName = %q", record.CourseName)
	}

	got, _ := store.GetCourseByID(context.Background(), course.ID)
	if got.Seats != 4 || got.Enrolled != 1 {
		t.Errorf("seats/enrolled = %d/%d, want 4/1", got.Seats, got.Enrolled)
	}

	// The triggering selection is cleared with the enrollment
	if _, err := store.GetSelectionByID(context.Background(), sel.ID); err == nil {
		t.Error("selection still present after enrollment")
	}

	history, err := svc.ListEnrolled(context.Background(), "alice@example.com", "alice@example.com")
	if err != nil {
		t.Fatalf("ListEnrolled failed: %v", err)
	}
	if len(history) != 1 || history[0].TransactionID != "pi_123" {
		t.Errorf("unexpected history %+v", history)
	}
}

func TestCompleteEnrollmentOwnership(t *testing.T) {
	_, _, svc, course := newEnrollmentFixture(5)

	_, err := svc.CompleteEnrollment(context.Background(), "mallory@example.com", &dto.CompleteEnrollmentRequest{
		Email: "alice@example.com", CourseID: course.ID, Price: 20, TransactionID: "pi_123",
	})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("got %v, want ErrPermissionDenied", err)
	}
}

func TestCompleteEnrollmentDeclinedPaymentWritesNothing(t *testing.T) {
	store, provider, svc, course := newEnrollmentFixture(5)
	provider.declineVerify = true

	_, err := svc.CompleteEnrollment(context.Background(), "alice@example.com", &dto.CompleteEnrollmentRequest{
		Email: "alice@example.com", CourseID: course.ID, Price: 20, TransactionID: "pi_bad",
	})
	if !errors.Is(err, apperrors.ErrPaymentDeclined) {
		t.Fatalf("got %v, want ErrPaymentDeclined", err)
	}

	got, _ := store.GetCourseByID(context.Background(), course.ID)
	if got.Seats != 5 || got.Enrolled != 0 {
		t.Errorf("seats/enrolled mutated to %d/%d on declined payment", got.Seats, got.Enrolled)
	}
	history, _ := store.GetPaymentsByEmail(context.Background(), "alice@example.com")
	if len(history) != 0 {
		t.Error("payment recorded despite declined verification")
	}
}

func TestCompleteEnrollmentUnapprovedCourse(t *testing.T) {
	store, _, svc, course := newEnrollmentFixture(5)
	store.mu.Lock()
	store.courses[course.ID].Status = models.CourseStatusPending
	store.mu.Unlock()

	_, err := svc.CompleteEnrollment(context.Background(), "alice@example.com", &dto.CompleteEnrollmentRequest{
		Email: "alice@example.com", CourseID: course.ID, Price: 20, TransactionID: "pi_123",
	})
	if !errors.Is(err, apperrors.ErrCourseNotApproved) {
		t.Errorf("got %v, want ErrCourseNotApproved", err)
	}
}

func TestConcurrentEnrollmentNeverOversells(t *testing.T) {
	const seats = 5
	const contenders = seats + 8

	store, _, svc, course := newEnrollmentFixture(seats)

	var wg sync.WaitGroup
	results := make(chan error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := fmt.Sprintf("student%d@example.com", i)
			_, err := svc.CompleteEnrollment(context.Background(), email, &dto.CompleteEnrollmentRequest{
				Email:         email,
				CourseID:      course.ID,
				Price:         20.00,
				TransactionID: fmt.Sprintf("pi_%d", i),
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var succeeded, soldOut int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperrors.ErrSoldOut):
			soldOut++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if succeeded != seats {
		t.Errorf("%d enrollments succeeded, want exactly %d", succeeded, seats)
	}
	if soldOut != contenders-seats {
		t.Errorf("%d sold-out failures, want %d", soldOut, contenders-seats)
	}

	got, _ := store.GetCourseByID(context.Background(), course.ID)
	if got.Seats != 0 {
		t.Errorf("seats = %d, want 0", got.Seats)
	}
	if got.Seats < 0 {
		t.Errorf("seat count went negative: %d", got.Seats)
	}
	if got.Enrolled != seats {
		t.Errorf("enrolled = %d, want %d", got.Enrolled, seats)
	}

	store.mu.Lock()
	recorded := len(store.payments)
	store.mu.Unlock()
	if recorded != seats {
		t.Errorf("%d payment records, want %d", recorded, seats)
	}
}
