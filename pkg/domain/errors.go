package domain

import "errors"

// ErrUnknownType is returned when a node references a type with no definition.
var ErrUnknownType = errors.New("unknown node type")

// ErrUndefinedState is returned when a transition or initial state is not
// among the states declared for its node type.
var ErrUndefinedState = errors.New("undefined state")

// ErrDuplicateNode is returned when two declarations share the same node id.
var ErrDuplicateNode = errors.New("duplicate node id")

// ErrDriverStarted is returned when Start is called on a running driver.
var ErrDriverStarted = errors.New("driver already started")

// ErrDriverStopped is returned when a stopped driver is asked to tick again.
var ErrDriverStopped = errors.New("driver stopped")
