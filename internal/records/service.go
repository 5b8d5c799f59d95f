package records

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var defaultTotalMarks = decimal.NewFromInt(100)

// Service coordinates result publication and announcement creation.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// PublishResult upserts the single result for (student, subject). Repeated
// calls converge on the latest values; the first call's creator and
// created_at are retained. Marks are stored as supplied, negative or
// exceeding the total included.
func (s *Service) PublishResult(ctx context.Context, studentID, subject string, marks, total decimal.Decimal, grade string, remarks *string, gradedBy string) (Result, error) {
	if studentID == "" || subject == "" {
		return Result{}, errors.New("records: student and subject required")
	}
	if gradedBy == "" {
		return Result{}, errors.New("records: grader required")
	}
	if total.IsZero() {
		total = defaultTotalMarks
	}
	return s.store.UpsertResult(ctx, Result{
		StudentID:     studentID,
		Subject:       subject,
		MarksObtained: marks,
		TotalMarks:    total,
		Grade:         grade,
		Remarks:       remarks,
		CreatedBy:     gradedBy,
	})
}

// CreateAnnouncement records a global (studentID nil) or targeted announcement.
func (s *Service) CreateAnnouncement(ctx context.Context, title, content string, priority Priority, createdBy string, studentID *string) (Announcement, error) {
	if title == "" {
		return Announcement{}, errors.New("records: title required")
	}
	if createdBy == "" {
		return Announcement{}, errors.New("records: author required")
	}
	if !priority.Valid() {
		priority = PriorityMedium
	}
	return s.store.CreateAnnouncement(ctx, Announcement{
		Title:     title,
		Content:   content,
		Priority:  priority,
		CreatedBy: createdBy,
		Active:    true,
		StudentID: studentID,
	})
}

// StudentResults returns the results owned by the student.
func (s *Service) StudentResults(ctx context.Context, studentID string) ([]Result, error) {
	return s.store.ResultsByStudent(ctx, studentID)
}

// AllResults returns every result across students.
func (s *Service) AllResults(ctx context.Context) ([]Result, error) {
	return s.store.ListResults(ctx)
}

// AllAnnouncements returns every announcement regardless of targeting.
func (s *Service) AllAnnouncements(ctx context.Context) ([]Announcement, error) {
	return s.store.ListAnnouncements(ctx)
}

// VisibleAnnouncements returns the active announcements a student may see.
func (s *Service) VisibleAnnouncements(ctx context.Context, studentID string) ([]Announcement, error) {
	return s.store.AnnouncementsForStudent(ctx, studentID)
}

// DeactivateAnnouncement soft-deletes an announcement.
func (s *Service) DeactivateAnnouncement(ctx context.Context, id string) error {
	return s.store.DeactivateAnnouncement(ctx, id)
}
