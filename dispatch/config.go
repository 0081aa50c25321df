package dispatch

import (
	"os"
	"strconv"
	"time"
)

// Config holds the environment-driven knobs dispatch needs. Loaded with
// plain os.Getenv, matching the configuration style already used in
// main.go/utils.go rather than a flags or viper-based loader.
type Config struct {
	TickInterval        time.Duration
	PendingTimeout      time.Duration
	InterUtteranceGap   time.Duration
	KeepAliveInterval   time.Duration
	PauseResumeInterval time.Duration
}

// DefaultConfig returns the baseline defaults.
func DefaultConfig() Config {
	return Config{
		TickInterval:        100 * time.Millisecond,
		PendingTimeout:      5 * time.Second,
		InterUtteranceGap:   200 * time.Millisecond,
		KeepAliveInterval:   7 * time.Second,
		PauseResumeInterval: 10 * time.Second,
	}
}

// LoadConfig reads Config from the environment, falling back to
// DefaultConfig for anything unset or unparsable.
//
//	ANNUNCIATOR_TICK_INTERVAL_MS     - tick interval in milliseconds
//	ANNUNCIATOR_PENDING_TIMEOUT_MS   - speech-synth pending timeout in milliseconds
//	ANNUNCIATOR_INTER_UTTERANCE_MS   - speech-synth inter-utterance gap in milliseconds
//	ANNUNCIATOR_KEEP_ALIVE_MS        - speech-synth idle keep-alive interval in milliseconds
//	ANNUNCIATOR_PAUSE_RESUME_MS      - speech-synth pause/resume interval in milliseconds
func LoadConfig() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("ANNUNCIATOR_TICK_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.TickInterval = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("ANNUNCIATOR_PENDING_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.PendingTimeout = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("ANNUNCIATOR_INTER_UTTERANCE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.InterUtteranceGap = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("ANNUNCIATOR_KEEP_ALIVE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.KeepAliveInterval = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("ANNUNCIATOR_PAUSE_RESUME_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.PauseResumeInterval = time.Duration(ms) * time.Millisecond
		}
	}
	return cfg
}
