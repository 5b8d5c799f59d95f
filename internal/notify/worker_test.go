package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradebook/internal/notify"
	"gradebook/internal/queue"
)

// recordingMailer captures sends and optionally fails them all.
type recordingMailer struct {
	mu   sync.Mutex
	sent []notify.Email
	fail bool
}

func (m *recordingMailer) Send(_ context.Context, email notify.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp down")
	}
	m.sent = append(m.sent, email)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func enqueueMail(t *testing.T, q queue.Queue, email notify.Email) {
	t.Helper()
	body, err := json.Marshal(email)
	require.NoError(t, err)
	require.NoError(t, q.Publish(context.Background(), queue.Message{Type: "mail", Body: body}))
}

func TestWorkerDeliversQueuedMail(t *testing.T) {
	q := queue.NewInMemory(4)
	mailer := &recordingMailer{}
	w := notify.NewWorker(q, mailer, nil)

	enqueueMail(t, q, notify.Email{To: []string{"a@school.test"}, Subject: "hi", Body: "hello"})

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = w.Run(ctx)

	require.Equal(t, 1, mailer.count())
	assert.Equal(t, "hi", mailer.sent[0].Subject)
}

func TestWorkerSurvivesDeliveryFailure(t *testing.T) {
	q := queue.NewInMemory(4)
	mailer := &recordingMailer{fail: true}
	w := notify.NewWorker(q, mailer, nil)

	enqueueMail(t, q, notify.Email{To: []string{"a@school.test"}, Subject: "doomed"})
	enqueueMail(t, q, notify.Email{To: []string{"b@school.test"}, Subject: "also doomed"})

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	// failures are swallowed; Run only returns when the context ends
	err := w.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, mailer.count())
}

func TestWorkerIgnoresUnknownMessageTypes(t *testing.T) {
	q := queue.NewInMemory(4)
	mailer := &recordingMailer{}
	w := notify.NewWorker(q, mailer, nil)

	require.NoError(t, q.Publish(context.Background(), queue.Message{Type: "checkin", Body: json.RawMessage(`{}`)}))
	require.NoError(t, q.Publish(context.Background(), queue.Message{Type: "mail", Body: json.RawMessage(`not json`)}))
	enqueueMail(t, q, notify.Email{To: []string{"a@school.test"}, Subject: "real"})

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = w.Run(ctx)

	require.Equal(t, 1, mailer.count())
	assert.Equal(t, "real", mailer.sent[0].Subject)
}
