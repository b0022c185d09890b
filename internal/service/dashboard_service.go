package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/student-portal-api/internal/academic"
	"github.com/noah-isme/student-portal-api/internal/models"
	appErrors "github.com/noah-isme/student-portal-api/pkg/errors"
)

const teacherDashboardKeyPrefix = "dashboard:teacher:"

type enrollmentCounter interface {
	CountByStudent(ctx context.Context, studentID string) (int, error)
}

type documentCounter interface {
	CountByStudent(ctx context.Context, studentID string) (int, error)
}

type transcriptSummarizer interface {
	Summary(ctx context.Context, studentID string) (academic.Transcript, error)
}

type teacherCountsRepository interface {
	TeacherCounts(ctx context.Context, teacherID string) (*models.TeacherDashboard, error)
}

// dashboardInvalidator is implemented by DashboardService for writers whose
// changes move the teacher counters.
type dashboardInvalidator interface {
	InvalidateTeacher(ctx context.Context, teacherID string)
	InvalidateAllTeachers(ctx context.Context)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Students    studentLookup
	Enrollments enrollmentCounter
	Documents   documentCounter
	Transcripts transcriptSummarizer
	Counts      teacherCountsRepository
	Cache       *CacheService
	Logger      *zap.Logger
	Config      DashboardServiceConfig
}

// DashboardService composes the student and teacher landing pages.
type DashboardService struct {
	students    studentLookup
	enrollments enrollmentCounter
	documents   documentCounter
	transcripts transcriptSummarizer
	counts      teacherCountsRepository
	cache       *CacheService
	logger      *zap.Logger
	cfg         DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		students:    params.Students,
		enrollments: params.Enrollments,
		documents:   params.Documents,
		transcripts: params.Transcripts,
		counts:      params.Counts,
		cache:       params.Cache,
		logger:      logger,
		cfg:         cfg,
	}
}

// Student returns the profile, course and document counts and the current GPA.
// The GPA is always computed from fresh grade records.
func (s *DashboardService) Student(ctx context.Context, studentID string) (*models.StudentDashboard, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, notFoundOr(err, "student not found", "failed to load student")
	}
	courses, err := s.enrollments.CountByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count courses")
	}
	docs, err := s.documents.CountByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count documents")
	}
	transcript, err := s.transcripts.Summary(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &models.StudentDashboard{
		Profile:       *student,
		CourseCount:   courses,
		DocumentCount: docs,
		GPA:           academic.Round2(transcript.Totals.GPA),
	}, nil
}

// Teacher returns the teacher's course and student counters and whether they came from cache.
func (s *DashboardService) Teacher(ctx context.Context, teacherID string) (*models.TeacherDashboard, bool, error) {
	key := teacherDashboardKeyPrefix + teacherID
	var cached models.TeacherDashboard
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}
	dash, err := s.counts.TeacherCounts(ctx, teacherID)
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to load dashboard")
	}
	s.cache.Set(ctx, key, dash, s.cfg.CacheTTL)
	return dash, false, nil
}

// InvalidateTeacher drops one teacher's cached counters.
func (s *DashboardService) InvalidateTeacher(ctx context.Context, teacherID string) {
	if s == nil {
		return
	}
	s.cache.Delete(ctx, teacherDashboardKeyPrefix+teacherID)
}

// InvalidateAllTeachers drops every cached teacher dashboard.
func (s *DashboardService) InvalidateAllTeachers(ctx context.Context) {
	if s == nil {
		return
	}
	s.cache.Invalidate(ctx, teacherDashboardKeyPrefix+"*")
}
