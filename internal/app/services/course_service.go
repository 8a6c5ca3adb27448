package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lifelearn/lifelearn/internal/app/models"
	"github.com/lifelearn/lifelearn/internal/app/models/dto"
	"github.com/lifelearn/lifelearn/internal/app/repositories"
	"github.com/lifelearn/lifelearn/internal/pkg/apperrors"
	"github.com/lifelearn/lifelearn/internal/pkg/cache"
)

const (
	// PopularCourseLimit caps the public popular-courses projection
	PopularCourseLimit = 6

	popularCoursesKey = "courses:popular"
	popularCoursesTTL = 30 * time.Second
)

// CourseService handles the course approval lifecycle and catalog views
type CourseService interface {
	Submit(ctx context.Context, instructorEmail string, req *dto.CreateCourseRequest) (*models.Course, error)
	Decide(ctx context.Context, courseID int64, req *dto.DecideCourseRequest) error
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	ListApproved(ctx context.Context) ([]*models.Course, error)
	ListPopular(ctx context.Context) ([]*models.Course, error)
	ListPending(ctx context.Context) ([]*models.Course, error)
	ListByInstructor(ctx context.Context, instructorEmail string) ([]*models.Course, error)
}

type courseServiceImpl struct {
	courses CourseStore
	users   UserStore
	cache   *cache.Cache
	logger  zerolog.Logger
}

// NewCourseService creates a new CourseService. cache may be nil, in which
// case popular-course reads always hit the store.
func NewCourseService(courses CourseStore, users UserStore, c *cache.Cache, logger zerolog.Logger) CourseService {
	return &courseServiceImpl{courses: courses, users: users, cache: c, logger: logger}
}

// Submit creates a new course in pending state on behalf of an instructor
func (s *courseServiceImpl) Submit(ctx context.Context, instructorEmail string, req *dto.CreateCourseRequest) (*models.Course, error) {
	instructor, err := s.users.GetUserByEmail(ctx, normalizeEmail(instructorEmail))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}
	if req.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", apperrors.ErrValidationFailed)
	}
	if req.Seats < 0 {
		return nil, fmt.Errorf("%w: seats cannot be negative", apperrors.ErrValidationFailed)
	}

	course := &models.Course{
		Name:            name,
		InstructorName:  instructor.Name,
		InstructorEmail: instructor.Email,
		Price:           req.Price,
		Seats:           req.Seats,
		Status:          models.CourseStatusPending,
	}
	if req.ImageURL != "" {
		course.ImageURL = &req.ImageURL
	}

	id, err := s.courses.CreateCourse(ctx, course)
	if err != nil {
		s.logger.Error().Err(err).Str("instructor", instructor.Email).Msg("Error creating course")
		return nil, err
	}

	created, err := s.courses.GetCourseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Decide applies an admin approval or denial to a pending course. Deciding
// a course that is no longer pending is rejected as a conflict rather than
// overwriting the earlier decision.
func (s *courseServiceImpl) Decide(ctx context.Context, courseID int64, req *dto.DecideCourseRequest) error {
	status := models.CourseStatus(req.Status)
	if !status.IsValid() || status == models.CourseStatusPending {
		return fmt.Errorf("%w: status must be approved or denied", apperrors.ErrValidationFailed)
	}

	var feedback *string
	if req.Feedback != "" {
		feedback = &req.Feedback
	}

	if err := s.courses.UpdateStatus(ctx, courseID, status, feedback); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return apperrors.ErrCourseNotFound
		case errors.Is(err, repositories.ErrCourseAlreadyDecided):
			return apperrors.ErrCourseAlreadyDecided
		}
		s.logger.Error().Err(err).Int64("courseID", courseID).Str("status", req.Status).Msg("Error deciding course")
		return err
	}

	s.cache.Invalidate(ctx, popularCoursesKey)
	return nil
}

// GetCourse retrieves a single course
func (s *courseServiceImpl) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.courses.GetCourseByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// ListApproved returns the public catalog of approved courses
func (s *courseServiceImpl) ListApproved(ctx context.Context) ([]*models.Course, error) {
	return s.courses.ListCourses(ctx, repositories.CourseFilter{Status: models.CourseStatusApproved})
}

// ListPopular returns the most-enrolled approved courses. The projection is
// served from cache when one is configured.
func (s *courseServiceImpl) ListPopular(ctx context.Context) ([]*models.Course, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, popularCoursesKey, popularCoursesTTL,
		func(ctx context.Context) ([]*models.Course, error) {
			return s.courses.ListCourses(ctx, repositories.CourseFilter{
				Status:          models.CourseStatusApproved,
				OrderByEnrolled: true,
				Limit:           PopularCourseLimit,
			})
		})
}

// ListPending returns courses awaiting an admin decision
func (s *courseServiceImpl) ListPending(ctx context.Context) ([]*models.Course, error) {
	return s.courses.ListCourses(ctx, repositories.CourseFilter{Status: models.CourseStatusPending})
}

// ListByInstructor returns every course an instructor has submitted,
// whatever its status.
func (s *courseServiceImpl) ListByInstructor(ctx context.Context, instructorEmail string) ([]*models.Course, error) {
	return s.courses.ListCourses(ctx, repositories.CourseFilter{
		InstructorEmail: normalizeEmail(instructorEmail),
	})
}
