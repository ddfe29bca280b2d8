package util

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"

	ncerr "termchat/internal/errors"
)

// ParseTarget validates text typed by the user as a dial target and
// returns it in canonical host:port form.  Without allowHostnames only
// numeric IPv4 / IPv6 socket addresses are accepted.
func ParseTarget(text string, allowHostnames bool) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty", ncerr.ErrInvalidAddress)
	}

	if ap, err := netip.ParseAddrPort(text); err == nil {
		if ap.Port() == 0 {
			return "", fmt.Errorf("%w: %q has port 0", ncerr.ErrInvalidAddress, text)
		}
		return ap.String(), nil
	}
	if !allowHostnames {
		return "", fmt.Errorf("%w: %q is not an ip:port address", ncerr.ErrInvalidAddress, text)
	}

	host, portStr, err := net.SplitHostPort(text)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ncerr.ErrInvalidAddress, err)
	}
	if host == "" || strings.ContainsAny(host, " \t/") {
		return "", fmt.Errorf("%w: bad host in %q", ncerr.ErrInvalidAddress, text)
	}
	port, err := ParsePort(portStr)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ncerr.ErrInvalidAddress, err)
	}
	return FormatAddr(host, port), nil
}

// ParseBindAddr validates a listen address.  The host may be empty
// (all interfaces) and the port may be 0 (ephemeral).
func ParseBindAddr(text string) (string, error) {
	host, portStr, err := net.SplitHostPort(text)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ncerr.ErrInvalidAddress, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		return "", fmt.Errorf("%w: invalid port %q", ncerr.ErrInvalidAddress, portStr)
	}
	if host != "" && net.ParseIP(host) == nil {
		return "", fmt.Errorf("%w: bind host %q must be an IP address", ncerr.ErrInvalidAddress, host)
	}
	return FormatAddr(host, port), nil
}

// ParsePort accepts a decimal port in 1-65535.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range 1-65535", port)
	}
	return port, nil
}

// FormatAddr returns "host:port".
func FormatAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// FindFreePort returns an available TCP port on 127.0.0.1.
func FindFreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("finding free port: %w", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
