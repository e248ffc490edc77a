package poll

import "errors"

var (
	ErrPollClosed = errors.New("poll closed")
	ErrMaxVoters  = errors.New("poll reached maxvoters")
	ErrBadChoice  = errors.New("choice out of range")
)
