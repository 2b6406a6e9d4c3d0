// Package event provides the synchronous domain-event bus used by the command
// engine to broadcast what happened after a command executes, is undone or
// is redone.
//
// Listeners subscribe per event type or to every event through the wildcard
// type "*". Delivery is synchronous and follows registration order: listeners
// of the exact type first, then wildcard listeners. A slow listener delays the
// publisher.
//
// Delivery is fault isolated. An error returned (or a panic raised) by one
// listener is logged and reported to the optional error handler, and the
// remaining listeners still receive the event. Publish never fails.
//
// # Usage
//
//	bus := event.NewBus(event.WithLogger(logger))
//
//	unsubscribe := bus.On("node.created", func(ctx context.Context, evt event.Event) error {
//	    log.Println("created", evt.AggregateID)
//	    return nil
//	})
//	defer unsubscribe()
//
//	bus.Once(event.Wildcard, func(ctx context.Context, evt event.Event) error {
//	    return nil // called for the next event only
//	})
//
//	bus.Publish(ctx, event.New("node.created", "n1", payload))
//
// Off removes every listener of a type:
//
//	bus.Off("node.created")
package event
