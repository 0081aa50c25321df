package queue

import (
	"time"

	"github.com/egtechgeek/annunciator/internal/debugassert"
)

func announceCompletionTime() time.Time { return time.Now() }

func debugAssertUtteranceQueued() {
	debugassert.Fail("queue: operation requires utterance to have a queued entry")
}
