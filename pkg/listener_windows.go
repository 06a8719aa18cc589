//go:build windows

package soaprouter

import (
	"context"
	"fmt"
	"net"
	"syscall"
)

// createPlatformListener binds the listener on Windows. SO_REUSEPORT
// has no Windows equivalent; SO_REUSEADDR is the closest available
// option and is applied when ReuseAddr or ReusePort is requested.
func createPlatformListener(config ListenerConfig) (net.Listener, error) {
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var controlErr error
			c.Control(func(fd uintptr) {
				if config.ReuseAddr || config.ReusePort {
					if e := syscall.SetsockoptInt(syscall.Handle(fd), syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1); e != nil {
						controlErr = fmt.Errorf("set SO_REUSEADDR: %w", e)
						return
					}
				}
				if config.ReadBuffer > 0 {
					if e := syscall.SetsockoptInt(syscall.Handle(fd), syscall.SOL_SOCKET, syscall.SO_RCVBUF, config.ReadBuffer); e != nil {
						controlErr = fmt.Errorf("set SO_RCVBUF: %w", e)
						return
					}
				}
				if config.WriteBuffer > 0 {
					if e := syscall.SetsockoptInt(syscall.Handle(fd), syscall.SOL_SOCKET, syscall.SO_SNDBUF, config.WriteBuffer); e != nil {
						controlErr = fmt.Errorf("set SO_SNDBUF: %w", e)
						return
					}
				}
			})
			return controlErr
		},
	}

	return lc.Listen(context.Background(), config.Network, config.Address)
}
