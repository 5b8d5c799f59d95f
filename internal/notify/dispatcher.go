package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"gradebook/internal/identity"
	"gradebook/internal/queue"
	"gradebook/internal/records"
)

const mailMessageType = "mail"

// Dispatcher turns record writes into queued mail jobs. Every method is
// best-effort: failures are logged and swallowed, and no method reports
// an error back to the write path that triggered it.
type Dispatcher struct {
	q   queue.Queue
	log *zap.Logger
}

// NewDispatcher creates a dispatcher publishing to q.
func NewDispatcher(q queue.Queue, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{q: q, log: log}
}

// GlobalAnnouncement fans an announcement out to every active student email.
func (d *Dispatcher) GlobalAnnouncement(ctx context.Context, a records.Announcement, recipients []string) {
	if len(recipients) == 0 {
		return
	}
	body := fmt.Sprintf("Priority: %s\n\n%s\n\nThis is an automated message from the Academic Management System.",
		strings.ToUpper(string(a.Priority)), a.Content)
	d.enqueue(ctx, Email{
		To:      recipients,
		Subject: "New Announcement: " + a.Title,
		Body:    body,
	})
}

// TargetedAnnouncement notifies the one student an announcement is aimed at.
func (d *Dispatcher) TargetedAnnouncement(ctx context.Context, a records.Announcement, student identity.User) {
	body := fmt.Sprintf("Dear %s,\n\nPriority: %s\n\n%s\n\nThis is a personal announcement from your teacher.",
		student.DisplayName(), strings.ToUpper(string(a.Priority)), a.Content)
	d.enqueue(ctx, Email{
		To:      []string{student.Email},
		Subject: "New Personal Announcement: " + a.Title,
		Body:    body,
	})
}

// ResultPublished notifies the owning student, including the computed percentage.
func (d *Dispatcher) ResultPublished(ctx context.Context, res records.Result, student identity.User) {
	remarks := "No remarks"
	if res.Remarks != nil && *res.Remarks != "" {
		remarks = *res.Remarks
	}
	body := fmt.Sprintf("Dear %s,\n\nYour result for %s has been published:\n\nMarks Obtained: %s/%s\nGrade: %s\nPercentage: %s%%\n\nRemarks: %s\n\nThis is an automated message from the Academic Management System.",
		student.DisplayName(), res.Subject,
		res.MarksObtained.String(), res.TotalMarks.String(),
		res.Grade, res.Percentage().StringFixed(2), remarks)
	d.enqueue(ctx, Email{
		To:      []string{student.Email},
		Subject: "New Result Published: " + res.Subject,
		Body:    body,
	})
}

// enqueue publishes a mail job without letting a slow or dead queue stall
// the caller. The triggering write has already committed by the time this
// runs, so a drop here costs a mail, never data.
func (d *Dispatcher) enqueue(ctx context.Context, email Email) {
	payload, err := json.Marshal(email)
	if err != nil {
		d.log.Warn("mail job marshal failed", zap.Error(err))
		mailsDropped.Inc()
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := d.q.Publish(ctx, queue.Message{Type: mailMessageType, Body: payload}); err != nil {
		d.log.Warn("mail job enqueue failed", zap.Error(err), zap.String("subject", email.Subject))
		mailsDropped.Inc()
		return
	}
	mailsEnqueued.Inc()
}
