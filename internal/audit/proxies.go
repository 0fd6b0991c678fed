package audit

import (
	"fmt"
	"net/netip"
	"strings"
)

// TrustedProxies lists the peers whose forwarding headers are believed.
// A nil *TrustedProxies trusts nobody.
type TrustedProxies struct {
	prefixes []netip.Prefix
}

// ParseTrustedProxies accepts CIDR prefixes or bare addresses. Empty entries
// are skipped.
func ParseTrustedProxies(entries []string) (*TrustedProxies, error) {
	t := &TrustedProxies{}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.Contains(e, "/") {
			p, err := netip.ParsePrefix(e)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", e, err)
			}
			t.prefixes = append(t.prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(e)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", e, err)
		}
		addr = addr.Unmap()
		t.prefixes = append(t.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return t, nil
}

// Trusts reports whether host is a trusted proxy address.
func (t *TrustedProxies) Trusts(host string) bool {
	if t == nil {
		return false
	}
	addr, err := netip.ParseAddr(strings.TrimSpace(host))
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range t.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// Resolve returns the client address of a connection from peer. Forwarding
// headers count only when peer is trusted; X-Forwarded-For is then walked
// right to left and the first untrusted hop wins. X-Real-IP is used when
// X-Forwarded-For is absent.
func (t *TrustedProxies) Resolve(peer, forwardedFor, realIP string) string {
	if !t.Trusts(peer) {
		return peer
	}
	hops := strings.Split(forwardedFor, ",")
	leftmost := ""
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !t.Trusts(hop) {
			return hop
		}
		leftmost = hop
	}
	if leftmost != "" {
		return leftmost
	}
	if ip := strings.TrimSpace(realIP); ip != "" {
		return ip
	}
	return peer
}
