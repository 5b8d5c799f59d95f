package records

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is a map-backed store for dev/testing.
type Memory struct {
	mu            sync.RWMutex
	results       map[string]Result // keyed by student_id + "\x00" + subject
	announcements []Announcement
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{results: make(map[string]Result)}
}

var _ Store = (*Memory)(nil)

func resultKey(studentID, subject string) string {
	return studentID + "\x00" + subject
}

// UpsertResult creates or overwrites the row for (student, subject),
// keeping the original creator and created_at on overwrite.
func (m *Memory) UpsertResult(_ context.Context, res Result) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	key := resultKey(res.StudentID, res.Subject)
	if existing, ok := m.results[key]; ok {
		existing.MarksObtained = res.MarksObtained
		existing.TotalMarks = res.TotalMarks
		existing.Grade = res.Grade
		existing.Remarks = res.Remarks
		existing.UpdatedAt = now
		m.results[key] = existing
		return existing, nil
	}
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	res.CreatedAt = now
	res.UpdatedAt = now
	m.results[key] = res
	return res, nil
}

// ResultsByStudent returns the student's results, newest first.
func (m *Memory) ResultsByStudent(_ context.Context, studentID string) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var results []Result
	for _, res := range m.results {
		if res.StudentID == studentID {
			results = append(results, res)
		}
	}
	sortResults(results)
	return results, nil
}

// ListResults returns all results, newest first.
func (m *Memory) ListResults(_ context.Context) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	results := make([]Result, 0, len(m.results))
	for _, res := range m.results {
		results = append(results, res)
	}
	sortResults(results)
	return results, nil
}

func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.After(results[j].CreatedAt)
		}
		return results[i].Subject < results[j].Subject
	})
}

// CreateAnnouncement appends a new announcement.
func (m *Memory) CreateAnnouncement(_ context.Context, a Announcement) (Announcement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	m.announcements = append(m.announcements, a)
	return a, nil
}

// ListAnnouncements returns every announcement, newest first.
func (m *Memory) ListAnnouncements(_ context.Context) ([]Announcement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	anns := make([]Announcement, len(m.announcements))
	copy(anns, m.announcements)
	sortAnnouncements(anns)
	return anns, nil
}

// AnnouncementsForStudent returns active announcements visible to the student.
func (m *Memory) AnnouncementsForStudent(_ context.Context, studentID string) ([]Announcement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var anns []Announcement
	for _, a := range m.announcements {
		if a.Active && (a.StudentID == nil || *a.StudentID == studentID) {
			anns = append(anns, a)
		}
	}
	sortAnnouncements(anns)
	return anns, nil
}

// DeactivateAnnouncement clears the active flag.
func (m *Memory) DeactivateAnnouncement(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.announcements {
		if m.announcements[i].ID == id {
			m.announcements[i].Active = false
		}
	}
	return nil
}

func sortAnnouncements(anns []Announcement) {
	sort.SliceStable(anns, func(i, j int) bool {
		return anns[i].CreatedAt.After(anns[j].CreatedAt)
	})
}
