package platform

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/autopeer-io/alarmbridge/pkg/log"
)

// Renewer signs the session in again on a cron schedule. Listeners pick up
// the new identity on their next reconnect.
type Renewer struct {
	session  *Session
	schedule string
}

// NewRenewer returns nil when schedule is empty.
func NewRenewer(session *Session, schedule string) *Renewer {
	if schedule == "" {
		return nil
	}
	return &Renewer{session: session, schedule: schedule}
}

// Start runs the schedule until ctx is cancelled.
func (r *Renewer) Start(ctx context.Context) error {
	logger := log.WithName("renewer")
	c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.SkipIfStillRunning(logger)))

	if _, err := c.AddFunc(r.schedule, func() { r.renew(ctx) }); err != nil {
		return err
	}

	log.Info("Session renewal scheduled", "schedule", r.schedule)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func (r *Renewer) renew(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := r.session.SignIn(ctx); err != nil {
		log.Error(err, "Scheduled re-sign-in failed; keeping previous session")
		return
	}
	log.Info("Session renewed")
}
