package command

import "context"

// Gate admits one store-mutating operation at a time. Components writing to
// the same store share one Gate so their operations never interleave.
type Gate struct {
	slot chan struct{}
}

// NewGate creates an open gate.
func NewGate() *Gate {
	return &Gate{slot: make(chan struct{}, 1)}
}

// Acquire blocks until the gate is free or ctx is done.
func (g *Gate) Acquire(ctx context.Context) error {
	select {
	case g.slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees the gate. It must follow a successful Acquire.
func (g *Gate) Release() {
	<-g.slot
}
