package middleware

import (
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgconfig "news-site/pkg/config"
)

func TestRemoteAddrExtractor(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		expected   string
		wantErr    bool
	}{
		{name: "IPv4 with port", remoteAddr: "192.168.1.1:54321", expected: "192.168.1.1"},
		{name: "IPv6 with port", remoteAddr: "[2001:db8::1]:443", expected: "2001:db8::1"},
		{name: "bare IPv4", remoteAddr: "127.0.0.1", expected: "127.0.0.1"},
		{name: "bare bracketed IPv6", remoteAddr: "[::1]", expected: "::1"},
		{name: "garbage", remoteAddr: "not-an-address", wantErr: true},
	}

	extractor := &RemoteAddrExtractor{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			// ヘッダーは無視される
			req.Header.Set("X-Forwarded-For", "1.2.3.4")

			ip, err := extractor.ExtractIP(req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ip)
		})
	}
}

func TestTrustedProxyConfig_IsTrusted(t *testing.T) {
	cfg := TrustedProxyConfig{
		Enabled: true,
		AllowedCIDRs: []netip.Prefix{
			netip.MustParsePrefix("10.0.0.0/8"),
			netip.MustParsePrefix("2001:db8::/32"),
		},
	}

	assert.True(t, cfg.IsTrusted("10.1.2.3:80"))
	assert.True(t, cfg.IsTrusted("[2001:db8::5]:443"))
	assert.True(t, cfg.IsTrusted("[::ffff:10.0.0.1]:80"), "IPv4-mapped IPv6")
	assert.False(t, cfg.IsTrusted("192.168.0.1:80"))
	assert.False(t, cfg.IsTrusted("garbage"))
}

func TestNewTrustedProxyConfig(t *testing.T) {
	cfg, err := NewTrustedProxyConfig(pkgconfig.RateLimitConfig{})
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)

	cfg, err = NewTrustedProxyConfig(pkgconfig.RateLimitConfig{TrustProxy: true, TrustedProxies: []string{"10.0.0.1"}})
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, []netip.Prefix{netip.MustParsePrefix("10.0.0.1/32")}, cfg.AllowedCIDRs)

	_, err = NewTrustedProxyConfig(pkgconfig.RateLimitConfig{TrustProxy: true})
	assert.Error(t, err)

	_, err = NewTrustedProxyConfig(pkgconfig.RateLimitConfig{TrustProxy: true, TrustedProxies: []string{"x"}})
	assert.Error(t, err)
}

func TestTrustedProxyExtractor(t *testing.T) {
	cfg := TrustedProxyConfig{
		Enabled:      true,
		AllowedCIDRs: []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")},
	}

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		expected   string
	}{
		{name: "trusted proxy uses first XFF entry", remoteAddr: "10.0.0.1:1234", xff: "203.0.113.5, 10.0.0.2", expected: "203.0.113.5"},
		{name: "trusted proxy falls back to X-Real-IP", remoteAddr: "10.0.0.1:1234", xri: "203.0.113.6", expected: "203.0.113.6"},
		{name: "trusted proxy with invalid XFF", remoteAddr: "10.0.0.1:1234", xff: "bogus", xri: "203.0.113.7", expected: "203.0.113.7"},
		{name: "trusted proxy without headers", remoteAddr: "10.0.0.1:1234", expected: "10.0.0.1"},
		{name: "untrusted peer cannot spoof", remoteAddr: "198.51.100.9:1234", xff: "1.1.1.1", expected: "198.51.100.9"},
	}

	extractor := NewTrustedProxyExtractor(cfg)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}

			ip, err := extractor.ExtractIP(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ip)
		})
	}
}

func TestNewIPExtractor(t *testing.T) {
	assert.IsType(t, &RemoteAddrExtractor{}, NewIPExtractor(TrustedProxyConfig{}))
	assert.IsType(t, &TrustedProxyExtractor{}, NewIPExtractor(TrustedProxyConfig{Enabled: true}))
}

func TestParseFirstIP(t *testing.T) {
	assert.Equal(t, "192.168.1.1", parseFirstIP("192.168.1.1, 10.0.0.1"))
	assert.Equal(t, "2001:db8::1", parseFirstIP(" 2001:db8::1 ,10.0.0.1"))
	assert.Equal(t, "", parseFirstIP("invalid, 10.0.0.1"))
	assert.Equal(t, "", parseFirstIP(""))
}
