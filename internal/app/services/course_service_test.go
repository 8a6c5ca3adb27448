package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lifelearn/lifelearn/internal/app/models"
	"github.com/lifelearn/lifelearn/internal/app/models/dto"
	"github.com/lifelearn/lifelearn/internal/pkg/apperrors"
)

func seedInstructor(t *testing.T, store *memStore) string {
	t.Helper()
	_, err := store.CreateUser(context.Background(), &models.User{
		Email: "teach@example.com",
		Name:  "Pat Teach",
		Role:  models.RoleInstructor,
	})
	if err != nil {
		t.Fatalf("seeding instructor: %v", err)
	}
	return "teach@example.com"
}

func TestSubmitCreatesPendingCourse(t *testing.T) {
	store := newMemStore()
	svc := NewCourseService(store, store, nil, zerolog.Nop())
	instructor := seedInstructor(t, store)

	course, err := svc.Submit(context.Background(), instructor, &dto.CreateCourseRequest{
		Name:  "Watercolor Basics",
		Price: 20.00,
		Seats: 25,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if course.Status != models.CourseStatusPending {
		t.Errorf("status = %q, want pending", course.Status)
	}
	if course.Enrolled != 0 {
		t.Errorf("enrolled = %d, want 0", course.Enrolled)
	}
	if course.InstructorEmail != "teach@example.com" {
		t.Errorf("instructor email = %q", course.InstructorEmail)
	}
}

func TestSubmitRejectsInvalidCourse(t *testing.T) {
	store := newMemStore()
	svc := NewCourseService(store, store, nil, zerolog.Nop())
	instructor := seedInstructor(t, store)

	cases := []dto.CreateCourseRequest{
		{Name: "  ", Price: 20, Seats: 5},
		{Name: "Free Course", Price: 0, Seats: 5},
		{Name: "Negative Seats", Price: 20, Seats: -1},
	}
	for _, req := range cases {
		if _, err := svc.Submit(context.Background(), instructor, &req); !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Errorf("Submit(%+v): got %v, want ErrValidationFailed", req, err)
		}
	}
}

func TestDecideTransitions(t *testing.T) {
	store := newMemStore()
	svc := NewCourseService(store, store, nil, zerolog.Nop())
	instructor := seedInstructor(t, store)

	course, err := svc.Submit(context.Background(), instructor, &dto.CreateCourseRequest{
		Name: "Watercolor Basics", Price: 20, Seats: 25,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if err := svc.Decide(context.Background(), course.ID, &dto.DecideCourseRequest{Status: "approved"}); err != nil {
		t.Fatalf("Decide failed: %v", err)
	}

	got, err := svc.GetCourse(context.Background(), course.ID)
	if err != nil {
		t.Fatalf("GetCourse failed: %v", err)
	}
	if got.Status != models.CourseStatusApproved {
		t.Errorf("status = %q, want approved", got.Status)
	}
}

func TestDecideTwiceIsConflict(t *testing.T) {
	store := newMemStore()
	svc := NewCourseService(store, store, nil, zerolog.Nop())
	instructor := seedInstructor(t, store)

	course, err := svc.Submit(context.Background(), instructor, &dto.CreateCourseRequest{
		Name: "Watercolor Basics", Price: 20, Seats: 25,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if err := svc.Decide(context.Background(), course.ID, &dto.DecideCourseRequest{Status: "denied", Feedback: "too thin"}); err != nil {
		t.Fatalf("first Decide failed: %v", err)
	}

	err = svc.Decide(context.Background(), course.ID, &dto.DecideCourseRequest{Status: "approved"})
	if !errors.Is(err, apperrors.ErrCourseAlreadyDecided) {
		t.Errorf("second Decide: got %v, want ErrCourseAlreadyDecided", err)
	}

	got, _ := svc.GetCourse(context.Background(), course.ID)
	if got.Status != models.CourseStatusDenied {
		t.Errorf("status = %q, want denied after rejected re-decision", got.Status)
	}
	if got.Feedback == nil || *got.Feedback != "too thin" {
		t.Error("denial feedback not preserved")
	}
}

func TestDecideUnknownCourse(t *testing.T) {
	store := newMemStore()
	svc := NewCourseService(store, store, nil, zerolog.Nop())
	err := svc.Decide(context.Background(), 999, &dto.DecideCourseRequest{Status: "approved"})
	if !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Errorf("got %v, want ErrCourseNotFound", err)
	}
}

func TestListPopularCapsAndOrders(t *testing.T) {
	store := newMemStore()
	svc := NewCourseService(store, store, nil, zerolog.Nop())
	instructor := seedInstructor(t, store)

	for i := 0; i < PopularCourseLimit+3; i++ {
		course, err := svc.Submit(context.Background(), instructor, &dto.CreateCourseRequest{
			Name: fmt.Sprintf("Course %d", i), Price: 10, Seats: 100,
		})
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if err := svc.Decide(context.Background(), course.ID, &dto.DecideCourseRequest{Status: "approved"}); err != nil {
			t.Fatalf("Decide failed: %v", err)
		}
		store.mu.Lock()
		store.courses[course.ID].Enrolled = i
		store.mu.Unlock()
	}

	popular, err := svc.ListPopular(context.Background())
	if err != nil {
		t.Fatalf("ListPopular failed: %v", err)
	}
	if len(popular) != PopularCourseLimit {
		t.Fatalf("got %d popular courses, want %d", len(popular), PopularCourseLimit)
	}
	for i := 1; i < len(popular); i++ {
		if popular[i].Enrolled > popular[i-1].Enrolled {
			t.Errorf("popular courses not ordered by enrollment: %d before %d",
				popular[i-1].Enrolled, popular[i].Enrolled)
		}
	}
}

func TestListApprovedExcludesOthers(t *testing.T) {
	store := newMemStore()
	svc := NewCourseService(store, store, nil, zerolog.Nop())
	instructor := seedInstructor(t, store)

	approved, _ := svc.Submit(context.Background(), instructor, &dto.CreateCourseRequest{Name: "A", Price: 10, Seats: 5})
	denied, _ := svc.Submit(context.Background(), instructor, &dto.CreateCourseRequest{Name: "B", Price: 10, Seats: 5})
	if _, err := svc.Submit(context.Background(), instructor, &dto.CreateCourseRequest{Name: "C", Price: 10, Seats: 5}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if err := svc.Decide(context.Background(), approved.ID, &dto.DecideCourseRequest{Status: "approved"}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Decide(context.Background(), denied.ID, &dto.DecideCourseRequest{Status: "denied"}); err != nil {
		t.Fatal(err)
	}

	list, err := svc.ListApproved(context.Background())
	if err != nil {
		t.Fatalf("ListApproved failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != approved.ID {
		t.Errorf("ListApproved returned %d courses, want only the approved one", len(list))
	}

	mine, err := svc.ListByInstructor(context.Background(), "teach@example.com")
	if err != nil {
		t.Fatalf("ListByInstructor failed: %v", err)
	}
	if len(mine) != 3 {
		t.Errorf("ListByInstructor returned %d courses, want 3", len(mine))
	}
}
