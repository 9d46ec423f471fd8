package utils

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// ErrPrivateNetwork is returned when a feed URL points at a private or local host
var ErrPrivateNetwork = errors.New("access to private networks and localhost is not allowed")

var localhostNames = []string{
	"localhost", "127.0.0.1", "::1", "0.0.0.0",
	"0:0:0:0:0:0:0:1", "0:0:0:0:0:0:0:0",
}

var privateDomainSuffixes = []string{
	".local", ".localhost", ".internal", ".corp", ".home",
	".lan", ".priv",
}

// CheckFeedURL rejects feed URLs whose host is loopback, private or internal.
// It only inspects the URL; resolved addresses are checked again at dial time.
func CheckFeedURL(feedURL string) error {
	parsedURL, err := url.Parse(feedURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if IsPrivateOrLocalhost(parsedURL.Hostname()) {
		return ErrPrivateNetwork
	}
	return nil
}

// IsPrivateOrLocalhost checks if the host is a private IP, localhost or an internal domain
func IsPrivateOrLocalhost(host string) bool {
	host = strings.ToLower(strings.Trim(host, "[]"))

	for _, name := range localhostNames {
		if host == name {
			return true
		}
	}

	if ip := net.ParseIP(host); ip != nil {
		return isBlockedIP(ip)
	}

	for _, suffix := range privateDomainSuffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}

	return false
}

func isBlockedIP(ip net.IP) bool {
	return ip.IsPrivate() || ip.IsLoopback() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast()
}

// guardDialControl runs after DNS resolution, so hostnames that resolve to
// private addresses are refused too.
func guardDialControl(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	if ip := net.ParseIP(host); ip != nil && isBlockedIP(ip) {
		return ErrPrivateNetwork
	}
	return nil
}
