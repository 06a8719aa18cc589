package soaprouter

import (
	"fmt"
	"net"
	"runtime"
)

// ListenerConfig configures the platform-specific socket options used
// when the multi-protocol server (see server.go) binds its listening
// socket.
type ListenerConfig struct {
	Network     string
	Address     string
	ReusePort   bool
	ReuseAddr   bool
	ReadBuffer  int
	WriteBuffer int
}

// CreateListener opens a net.Listener honoring ListenerConfig's
// platform-specific socket options.
func CreateListener(config ListenerConfig) (net.Listener, error) {
	if config.Network == "" {
		config.Network = "tcp"
	}
	if config.Address == "" {
		return nil, fmt.Errorf("address is required")
	}
	return createPlatformListener(config)
}

// SupportsReusePort reports whether the current platform supports
// SO_REUSEPORT, so a caller can warn rather than silently ignore the
// option when it isn't available.
func SupportsReusePort() bool {
	switch runtime.GOOS {
	case "linux", "darwin", "freebsd", "netbsd", "openbsd", "dragonfly":
		return true
	default:
		return false
	}
}
