package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mailsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gradebook_mails_enqueued_total",
		Help: "Mail jobs handed to the queue.",
	})
	mailsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gradebook_mails_dropped_total",
		Help: "Mail jobs the queue refused; delivery is best-effort so these are lost.",
	})
	mailsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gradebook_mails_sent_total",
		Help: "Mails accepted by the SMTP transport.",
	})
	mailsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gradebook_mails_failed_total",
		Help: "Mails the SMTP transport rejected.",
	})
)
