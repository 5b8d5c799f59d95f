// Package policy holds the pure visibility and capability checks that
// decide what a viewer may see or change. No storage, no side effects;
// an unauthorized viewer simply gets an empty set from the caller.
package policy

import (
	"gradebook/internal/identity"
	"gradebook/internal/records"
)

// CanViewResult reports whether viewer may read the result.
// Teachers see every result; students only their own.
func CanViewResult(viewer identity.User, res records.Result) bool {
	switch viewer.Role {
	case identity.RoleTeacher:
		return true
	case identity.RoleStudent:
		return viewer.ID == res.StudentID
	}
	return false
}

// CanEditResult reports whether viewer may create or overwrite the result.
// Only teachers grade; there is no per-teacher partitioning.
func CanEditResult(viewer identity.User, _ records.Result) bool {
	return viewer.Role == identity.RoleTeacher
}

// CanViewAnnouncement reports whether viewer may read the announcement.
// Students see active announcements that are global or aimed at them.
func CanViewAnnouncement(viewer identity.User, a records.Announcement) bool {
	switch viewer.Role {
	case identity.RoleTeacher:
		return true
	case identity.RoleStudent:
		if !a.Active {
			return false
		}
		return a.StudentID == nil || *a.StudentID == viewer.ID
	}
	return false
}

// CanEditAnnouncement reports whether viewer may create or deactivate announcements.
func CanEditAnnouncement(viewer identity.User, _ records.Announcement) bool {
	return viewer.Role == identity.RoleTeacher
}

// FilterResults keeps only the results viewer may see.
func FilterResults(viewer identity.User, results []records.Result) []records.Result {
	visible := make([]records.Result, 0, len(results))
	for _, res := range results {
		if CanViewResult(viewer, res) {
			visible = append(visible, res)
		}
	}
	return visible
}

// FilterAnnouncements keeps only the announcements viewer may see.
func FilterAnnouncements(viewer identity.User, anns []records.Announcement) []records.Announcement {
	visible := make([]records.Announcement, 0, len(anns))
	for _, a := range anns {
		if CanViewAnnouncement(viewer, a) {
			visible = append(visible, a)
		}
	}
	return visible
}
