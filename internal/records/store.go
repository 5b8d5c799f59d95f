package records

import "context"

// Store persists results and announcements.
type Store interface {
	// UpsertResult creates or overwrites the row keyed by (student, subject).
	// On overwrite the original created_by and created_at survive and
	// updated_at is refreshed. Must be atomic under concurrent submissions.
	UpsertResult(ctx context.Context, res Result) (Result, error)
	ResultsByStudent(ctx context.Context, studentID string) ([]Result, error)
	ListResults(ctx context.Context) ([]Result, error)

	CreateAnnouncement(ctx context.Context, a Announcement) (Announcement, error)
	ListAnnouncements(ctx context.Context) ([]Announcement, error)
	// AnnouncementsForStudent returns active announcements that are global
	// or aimed at the given student, newest first.
	AnnouncementsForStudent(ctx context.Context, studentID string) ([]Announcement, error)
	DeactivateAnnouncement(ctx context.Context, id string) error
}
