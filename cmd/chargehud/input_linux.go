//go:build linux

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// epollWaitMS bounds how long a reader can go without observing ctx.
const epollWaitMS = 250

// readDeviceEvents reads evdev records from f until ctx is canceled or the
// device fails, calling handle for each decoded event.
//
// It waits for readiness with epoll rather than blocking in read(), so the
// listener goroutine notices cancellation without closing the device under it.
func readDeviceEvents(ctx context.Context, f *os.File, handle func(inputEvent)) error {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return fmt.Errorf("epoll_create1: %w", err)
	}
	defer unix.Close(epfd)

	fd := int(f.Fd())
	event := unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(fd),
	}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, fd, &event); err != nil {
		return fmt.Errorf("epoll_ctl_add %s: %w", f.Name(), err)
	}

	epollEvents := make([]unix.EpollEvent, 1)
	// The kernel delivers whole records; read several per wakeup.
	buf := make([]byte, inputEventSize*32)

	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := unix.EpollWait(epfd, epollEvents, epollWaitMS)
		if err != nil {
			if errors.Is(err, syscall.EINTR) {
				continue
			}
			return fmt.Errorf("epoll_wait: %w", err)
		}
		if n == 0 {
			continue
		}

		if epollEvents[0].Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0 {
			return fmt.Errorf("device error/hangup: %s", f.Name())
		}

		m, err := f.Read(buf)
		if err != nil {
			return fmt.Errorf("read from %s: %w", f.Name(), err)
		}

		for off := 0; off+inputEventSize <= m; off += inputEventSize {
			ev, err := decodeInputEvent(buf[off : off+inputEventSize])
			if err != nil {
				// Skip malformed events
				continue
			}
			handle(ev)
		}
	}
}
