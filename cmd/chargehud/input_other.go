//go:build !linux

package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

// readDeviceEvents is the portable fallback: a blocking read loop.
// The device is closed on cancellation to unblock the pending read.
func readDeviceEvents(ctx context.Context, f *os.File, handle func(inputEvent)) error {
	stop := context.AfterFunc(ctx, func() { _ = f.Close() })
	defer stop()

	buf := make([]byte, inputEventSize)
	for {
		if _, err := io.ReadFull(f, buf); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read from %s: %w", f.Name(), err)
		}

		ev, err := decodeInputEvent(buf)
		if err != nil {
			continue
		}
		handle(ev)
	}
}
