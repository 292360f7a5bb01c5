// Package digest implements the scheduled feedback summary mail.
package digest

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avasiliev/feedback-service/internal/repository"
)

// Mailer is the slice of the mail sender the digest needs.
type Mailer interface {
	SendDigest(to string, count int, since time.Time) error
}

// Job counts feedback posted in the last 24 hours and mails the summary
// to the admin address. It satisfies cron.Job.
type Job struct {
	store  repository.Store
	mailer Mailer
	log    *logrus.Logger
	admin  string
}

// New creates a digest job
func New(store repository.Store, mailer Mailer, log *logrus.Logger, admin string) *Job {
	return &Job{store: store, mailer: mailer, log: log, admin: admin}
}

// Run executes one digest pass
func (j *Job) Run() {
	since := time.Now().Add(-24 * time.Hour)
	count, err := j.store.CountFeedbackSince(since)
	if err != nil {
		j.log.Errorf("Digest: failed to count feedback: %v", err)
		return
	}
	if count == 0 {
		j.log.Debug("Digest: no new feedback, skipping mail")
		return
	}
	if err := j.mailer.SendDigest(j.admin, count, since); err != nil {
		// already logged by the sender
		return
	}
	j.log.Infof("Digest sent: %d new entries", count)
}
