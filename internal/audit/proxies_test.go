package audit

import "testing"

func TestParseTrustedProxies(t *testing.T) {
	tp, err := ParseTrustedProxies([]string{"10.0.0.0/8", " 192.0.2.1 ", "", "::1"})
	if err != nil {
		t.Fatalf("ParseTrustedProxies: %v", err)
	}
	for _, host := range []string{"10.1.2.3", "192.0.2.1", "::1", "::ffff:10.0.0.5"} {
		if !tp.Trusts(host) {
			t.Errorf("%s should be trusted", host)
		}
	}
	for _, host := range []string{"192.0.2.2", "203.0.113.7", "unknown", ""} {
		if tp.Trusts(host) {
			t.Errorf("%s should not be trusted", host)
		}
	}

	if _, err := ParseTrustedProxies([]string{"10.0.0.0/33"}); err == nil {
		t.Error("bad prefix should fail")
	}
	if _, err := ParseTrustedProxies([]string{"proxy.local"}); err == nil {
		t.Error("hostname should fail")
	}
}

func TestTrustedProxies_Resolve(t *testing.T) {
	tp, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	if err != nil {
		t.Fatalf("ParseTrustedProxies: %v", err)
	}
	testCases := []struct {
		name         string
		trusted      *TrustedProxies
		peer         string
		forwardedFor string
		realIP       string
		want         string
	}{
		{"untrusted peer ignores headers", tp, "198.51.100.9", "203.0.113.7", "203.0.113.8", "198.51.100.9"},
		{"nil list trusts nobody", nil, "10.0.0.1", "203.0.113.7", "", "10.0.0.1"},
		{"trusted peer", tp, "10.0.0.1", "203.0.113.7", "", "203.0.113.7"},
		{"spoofed leftmost hop", tp, "10.0.0.1", "6.6.6.6, 203.0.113.7, 10.0.0.2", "", "203.0.113.7"},
		{"all hops trusted", tp, "10.0.0.1", "10.0.0.3, 10.0.0.2", "", "10.0.0.3"},
		{"real ip fallback", tp, "10.0.0.1", "", "203.0.113.8", "203.0.113.8"},
		{"no headers", tp, "10.0.0.1", " , ", "", "10.0.0.1"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.trusted.Resolve(tc.peer, tc.forwardedFor, tc.realIP); got != tc.want {
				t.Errorf("Resolve = %q, want %q", got, tc.want)
			}
		})
	}
}
