package clients

import "time"

const (
	MAX_RETRIES     = 4
	INITIAL_BACKOFF = 500 * time.Millisecond
	MAX_BACKOFF     = 8 * time.Second
	USER_AGENT      = "reelpulse-client/1.0 (+https://github.com/spacesedan/reelpulse)"
)
