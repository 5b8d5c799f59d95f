package records

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Repository persists academic records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

var _ Store = (*Repository)(nil)

const resultColumns = `id, student_id, subject, marks_obtained, total_marks, grade, remarks, created_by, created_at, updated_at`

// UpsertResult writes the single row for (student, subject). The ON CONFLICT
// arm keeps the original creator and created_at so provenance survives
// regrades; the insert and update race atomically under the unique index.
func (r *Repository) UpsertResult(ctx context.Context, res Result) (Result, error) {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO results (id, student_id, subject, marks_obtained, total_marks, grade, remarks, created_by, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
		ON CONFLICT (student_id, subject) DO UPDATE SET
			marks_obtained = EXCLUDED.marks_obtained,
			total_marks    = EXCLUDED.total_marks,
			grade          = EXCLUDED.grade,
			remarks        = EXCLUDED.remarks,
			updated_at     = NOW()
		RETURNING `+resultColumns+`
	`, res.ID, res.StudentID, res.Subject, res.MarksObtained, res.TotalMarks, res.Grade, res.Remarks, res.CreatedBy)
	return scanResult(row)
}

// ResultsByStudent returns the student's results, newest first.
func (r *Repository) ResultsByStudent(ctx context.Context, studentID string) ([]Result, error) {
	return r.queryResults(ctx, `SELECT `+resultColumns+` FROM results WHERE student_id = $1 ORDER BY created_at DESC`, studentID)
}

// ListResults returns all results across students, newest first.
func (r *Repository) ListResults(ctx context.Context) ([]Result, error) {
	return r.queryResults(ctx, `SELECT `+resultColumns+` FROM results ORDER BY created_at DESC`)
}

func (r *Repository) queryResults(ctx context.Context, query string, args ...any) ([]Result, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var res Result
		if err := rows.Scan(&res.ID, &res.StudentID, &res.Subject, &res.MarksObtained, &res.TotalMarks, &res.Grade, &res.Remarks, &res.CreatedBy, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func scanResult(row *sql.Row) (Result, error) {
	var res Result
	if err := row.Scan(&res.ID, &res.StudentID, &res.Subject, &res.MarksObtained, &res.TotalMarks, &res.Grade, &res.Remarks, &res.CreatedBy, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return Result{}, err
	}
	return res, nil
}

const announcementColumns = `id, title, content, priority, created_by, created_at, active, student_id`

// CreateAnnouncement inserts a new announcement.
func (r *Repository) CreateAnnouncement(ctx context.Context, a Announcement) (Announcement, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO announcements (id, title, content, priority, created_by, created_at, active, student_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, a.ID, a.Title, a.Content, a.Priority, a.CreatedBy, a.CreatedAt, a.Active, a.StudentID)
	if err != nil {
		return Announcement{}, err
	}
	return a, nil
}

// ListAnnouncements returns every announcement, newest first.
func (r *Repository) ListAnnouncements(ctx context.Context) ([]Announcement, error) {
	return r.queryAnnouncements(ctx, `SELECT `+announcementColumns+` FROM announcements ORDER BY created_at DESC`)
}

// AnnouncementsForStudent returns active announcements visible to the student.
func (r *Repository) AnnouncementsForStudent(ctx context.Context, studentID string) ([]Announcement, error) {
	return r.queryAnnouncements(ctx, `
		SELECT `+announcementColumns+` FROM announcements
		WHERE active AND (student_id IS NULL OR student_id = $1)
		ORDER BY created_at DESC
	`, studentID)
}

// DeactivateAnnouncement clears the active flag.
func (r *Repository) DeactivateAnnouncement(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE announcements SET active = FALSE WHERE id = $1`, id)
	return err
}

func (r *Repository) queryAnnouncements(ctx context.Context, query string, args ...any) ([]Announcement, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var anns []Announcement
	for rows.Next() {
		var a Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.Priority, &a.CreatedBy, &a.CreatedAt, &a.Active, &a.StudentID); err != nil {
			return nil, err
		}
		anns = append(anns, a)
	}
	return anns, rows.Err()
}
