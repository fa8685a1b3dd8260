package ecs

import "errors"

// ErrNoSuchEntity is returned when an operation references an EntityId that is
// not currently live.
var ErrNoSuchEntity = errors.New("no such entity")
