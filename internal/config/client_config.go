package config

import "time"

type ClientConfig interface {
	GetHTTPTimeout() time.Duration
	GetCheckInReloadDelay() time.Duration
	GetCheckInWindow() time.Duration
}

type Client struct{}

var _ ClientConfig = Client{}

func (Client) GetHTTPTimeout() time.Duration {
	return GetEnvAsDuration("HTTP_TIMEOUT", 15*time.Second)
}

// GetCheckInReloadDelay is how long the kiosk waits after a batch check-in
// before reloading the athlete list, so updated counts are visible.
func (Client) GetCheckInReloadDelay() time.Duration {
	return GetEnvAsDuration("CHECKIN_RELOAD_DELAY", 1500*time.Millisecond)
}

// GetCheckInWindow is how far before and after a training session check-in is
// accepted. Only the stub backend enforces it; the real backend owns the rule.
func (Client) GetCheckInWindow() time.Duration {
	return GetEnvAsDuration("CHECKIN_WINDOW", 30*time.Minute)
}
