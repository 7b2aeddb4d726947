package gui

import "context"

// runCancellable runs task in a goroutine. The returned cancel func stops it
// early; the context is released once task returns either way.
func runCancellable(task func(ctx context.Context)) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer cancel()
		task(ctx)
	}()
	return cancel
}
