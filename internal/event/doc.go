// Package event provides the signal bus that connects browsermotion's
// components.
//
// Components never call each other directly for cross-cutting signals. The
// store watcher, the authoring service and the CLI publish on a topic; the
// session, the picker and the authoring service subscribe. Delivery is
// synchronous in the publisher's goroutine, in subscription order.
//
// # Topics
//
// Topics use dot notation:
//
//	keybinds.reload   - the stored keybind table changed
//	picker.start      - enter interactive selector picking
//	picker.stop       - leave picker mode without a result
//	picker.selected   - the picker produced a selector
//	topbar.toggle     - show or hide the authoring UI
//
// A subscription pattern ending in ".*" matches every topic below it, and
// "*" matches everything:
//
//	bus.SubscribeFunc("picker.*", handler)
//
// # Usage
//
//	bus := event.NewBus(event.WithLogger(logger))
//	_ = bus.Start()
//	defer bus.Stop(ctx)
//
//	sub, _ := bus.SubscribeFunc(event.TopicPickerSelected, func(ctx context.Context, e any) error {
//		ev := e.(event.Event[event.PickerSelected])
//		fmt.Println(ev.Payload.Selector)
//		return nil
//	})
//	defer sub.Cancel()
//
//	_ = bus.Publish(ctx, event.NewEvent(event.TopicPickerSelected, event.PickerSelected{Selector: "a"}, "picker"))
//
// Handler errors and panics are logged and counted in Stats; they never reach
// the publisher.
package event
