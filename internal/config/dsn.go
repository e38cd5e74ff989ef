package config

import (
	"net"
	"net/url"
	"strconv"
)

// hostPort joins host and port, bracketing IPv6 hosts.
func hostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// escapePassword keeps characters like ':' and '@' from breaking the DSN.
func escapePassword(password string) string {
	return url.QueryEscape(password)
}
