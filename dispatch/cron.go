package dispatch

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/egtechgeek/annunciator/alert"
	"github.com/egtechgeek/annunciator/xlog"
)

// Enqueuer is the minimal queue surface CronProducer needs.
type Enqueuer interface {
	AddToBack(a alert.Alertable) *alert.Utterance
}

// CronProducer schedules recurring announcements onto a queue, generalising
// main.go's StationCronJob/PromoCronJob/SafetyCronJob: each job there was
// a fixed schedule plus a fixed payload; here a job is a cron schedule
// plus a factory, so callers can vary the alertable per firing (e.g. pull
// the next station name from elsewhere).
type CronProducer struct {
	cron   *cron.Cron
	queue  Enqueuer
	logger xlog.Logger
}

// NewCronProducer creates a CronProducer. logger may be nil.
func NewCronProducer(queue Enqueuer, logger xlog.Logger) *CronProducer {
	if logger == nil {
		logger = xlog.NoOpLogger{}
	}
	return &CronProducer{
		cron:   cron.New(),
		queue:  queue,
		logger: logger,
	}
}

// Schedule registers factory to run on a standard five-field cron schedule
// (no seconds field), enqueuing whatever it returns via AddToBack.
func (p *CronProducer) Schedule(spec string, factory func() alert.Alertable) (cron.EntryID, error) {
	return p.cron.AddFunc(spec, func() {
		a := factory()
		if a == nil {
			return
		}
		p.queue.AddToBack(a)
		p.logger.Debug("cron producer fired", "spec", spec)
	})
}

// Remove cancels a previously scheduled job.
func (p *CronProducer) Remove(id cron.EntryID) {
	p.cron.Remove(id)
}

// Start begins running scheduled jobs in the background.
func (p *CronProducer) Start() { p.cron.Start() }

// Stop halts the scheduler, returning a context that is done once any
// running job finishes.
func (p *CronProducer) Stop() context.Context { return p.cron.Stop() }
