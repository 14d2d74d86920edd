package scenesync

import "errors"

var (
	ErrNoUpdater = errors.New("scenesync: no updater registered for intent")
	ErrNoSession = errors.New("scenesync: no render session")
)
