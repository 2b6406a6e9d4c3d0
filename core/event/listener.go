package event

import (
	"context"
	"fmt"
)

// Listener receives published events. A returned error is logged by the bus
// and never reaches the publisher.
type Listener func(ctx context.Context, evt Event) error

// safeCall invokes a listener with panic recovery.
// A panic is converted to an error so one faulty listener cannot break delivery.
func safeCall(l Listener, ctx context.Context, evt Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrListenerPanicked, r)
		}
	}()
	return l(ctx, evt)
}
