package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradebook/internal/identity"
	"gradebook/internal/notify"
	"gradebook/internal/queue"
	"gradebook/internal/records"
)

func drainOne(t *testing.T, q queue.Queue) notify.Email {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	msgs, err := q.Consume(ctx)
	require.NoError(t, err)
	msg := <-msgs
	assert.Equal(t, "mail", msg.Type)
	var email notify.Email
	require.NoError(t, json.Unmarshal(msg.Body, &email))
	return email
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestGlobalAnnouncementFanOut(t *testing.T) {
	q := queue.NewInMemory(4)
	d := notify.NewDispatcher(q, nil)

	ann := records.Announcement{Title: "Exam week", Content: "Starts Monday", Priority: records.PriorityHigh}
	d.GlobalAnnouncement(context.Background(), ann, []string{"a@school.test", "b@school.test"})

	email := drainOne(t, q)
	assert.Equal(t, []string{"a@school.test", "b@school.test"}, email.To)
	assert.Equal(t, "New Announcement: Exam week", email.Subject)
	assert.Contains(t, email.Body, "Priority: HIGH")
	assert.Contains(t, email.Body, "Starts Monday")
}

func TestGlobalAnnouncementNoRecipients(t *testing.T) {
	q := queue.NewInMemory(1)
	d := notify.NewDispatcher(q, nil)

	d.GlobalAnnouncement(context.Background(), records.Announcement{Title: "x"}, nil)

	// nothing enqueued
	ctx, cancel := context.WithCancel(context.Background())
	msgs, err := q.Consume(ctx)
	require.NoError(t, err)
	cancel()
	_, open := <-msgs
	assert.False(t, open)
}

func TestTargetedAnnouncement(t *testing.T) {
	q := queue.NewInMemory(4)
	d := notify.NewDispatcher(q, nil)

	name := "Jane Doe"
	student := identity.User{ID: "s1", Email: "jane@school.test", FullName: &name}
	ann := records.Announcement{Title: "See me", Content: "Office hours", Priority: records.PriorityLow, StudentID: &student.ID}
	d.TargetedAnnouncement(context.Background(), ann, student)

	email := drainOne(t, q)
	assert.Equal(t, []string{"jane@school.test"}, email.To)
	assert.Equal(t, "New Personal Announcement: See me", email.Subject)
	assert.Contains(t, email.Body, "Dear Jane Doe")
	assert.Contains(t, email.Body, "Priority: LOW")
}

func TestResultPublishedIncludesPercentage(t *testing.T) {
	q := queue.NewInMemory(4)
	d := notify.NewDispatcher(q, nil)

	student := identity.User{ID: "s1", Email: "jane@school.test"}
	res := records.Result{
		StudentID:     "s1",
		Subject:       "Math",
		MarksObtained: mustDecimal(t, "45"),
		TotalMarks:    mustDecimal(t, "50"),
		Grade:         "A-",
	}
	d.ResultPublished(context.Background(), res, student)

	email := drainOne(t, q)
	assert.Equal(t, "New Result Published: Math", email.Subject)
	assert.Contains(t, email.Body, "Marks Obtained: 45/50")
	assert.Contains(t, email.Body, "Percentage: 90.00%")
	assert.Contains(t, email.Body, "Remarks: No remarks")
}

// deadQueue refuses every publish.
type deadQueue struct{}

func (deadQueue) Publish(context.Context, queue.Message) error {
	return errors.New("queue down")
}

func (deadQueue) Consume(context.Context) (<-chan queue.Message, error) {
	return nil, errors.New("queue down")
}

func TestDispatchSwallowsQueueFailure(t *testing.T) {
	d := notify.NewDispatcher(deadQueue{}, nil)

	// must not panic or surface the error in any way
	d.GlobalAnnouncement(context.Background(), records.Announcement{Title: "x"}, []string{"a@school.test"})
	d.TargetedAnnouncement(context.Background(), records.Announcement{Title: "x"}, identity.User{Email: "a@school.test"})
	d.ResultPublished(context.Background(), records.Result{Subject: "Math", TotalMarks: mustDecimal(t, "100")}, identity.User{Email: "a@school.test"})
}
