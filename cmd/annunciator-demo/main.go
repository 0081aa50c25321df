// Command annunciator-demo wires the queue, the speech-synthesis
// announcer, a tick source, and a recurring cron announcement together —
// the library equivalent of main.go's wiring, minus the admin HTTP panel
// and file-based configuration that main.go carried for its own
// standalone deployment.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/egtechgeek/annunciator/alert"
	"github.com/egtechgeek/annunciator/dispatch"
	"github.com/egtechgeek/annunciator/queue"
	"github.com/egtechgeek/annunciator/speechsynth"
	"github.com/egtechgeek/annunciator/speechsynth/beepplatform"
	"github.com/egtechgeek/annunciator/xlog"
)

func main() {
	fmt.Println("Starting announcement queue demo...")

	cfg := dispatch.LoadConfig()
	logger := xlog.NewStdLogger(nil)

	platform := beepplatform.New()
	synth := speechsynth.NewAdapter(platform,
		speechsynth.WithPendingTimeout(cfg.PendingTimeout),
		speechsynth.WithInterUtteranceGap(cfg.InterUtteranceGap),
		speechsynth.WithKeepAliveInterval(cfg.KeepAliveInterval),
		speechsynth.WithPauseResumeInterval(cfg.PauseResumeInterval),
	)
	defer synth.Close()

	q := queue.New(synth, queue.WithLogger(logger), queue.WithHistory(50))
	defer q.Close()

	ticks := dispatch.NewTickSource(q, cfg.TickInterval)
	ticks.Start()
	defer ticks.Stop()
	log.Println("tick source started")

	cronProducer := dispatch.NewCronProducer(q, logger)
	if _, err := cronProducer.Schedule("* * * * *", func() alert.Alertable {
		return "Minute check complete."
	}); err != nil {
		log.Printf("warning: failed to schedule recurring announcement: %v", err)
	}
	cronProducer.Start()
	defer cronProducer.Stop()
	log.Println("cron producer started")

	q.AddToBack(alert.New("Welcome to the platform.", alert.WithPriority(1)))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	fmt.Println("Shutting down...")
}
