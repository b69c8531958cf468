package config

import (
	"fmt"
	"log/slog"
	"net/netip"
	"strings"
	"time"
)

// RateLimitConfig configures the per-client token bucket in front of the admin API.
type RateLimitConfig struct {
	Enabled bool

	// RequestsPerSecond is the steady refill rate of each client's bucket.
	RequestsPerSecond int
	// Burst is the bucket size.
	Burst int

	// CleanupInterval controls how often idle clients are evicted.
	CleanupInterval time.Duration
	// IdleTTL is how long a client may stay silent before its bucket is dropped.
	IdleTTL time.Duration

	// TrustProxy enables X-Forwarded-For / X-Real-IP from TrustedProxies.
	TrustProxy     bool
	TrustedProxies []string
}

// DefaultRateLimitConfig returns the built-in rate limit settings.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:           true,
		RequestsPerSecond: 10,
		Burst:             20,
		CleanupInterval:   5 * time.Minute,
		IdleTTL:           10 * time.Minute,
	}
}

// LoadRateLimitConfig reads the admin rate limit from environment variables.
// Invalid values are logged and replaced with defaults.
//
// Environment variables:
//   - ADMIN_RATE_LIMIT_ENABLED (default: true)
//   - ADMIN_RATE_LIMIT: requests per second (default: 10)
//   - ADMIN_RATE_BURST (default: 20)
//   - ADMIN_RATE_CLEANUP_INTERVAL (default: 5m)
//   - ADMIN_RATE_IDLE_TTL (default: 10m)
//   - TRUST_PROXY (default: false)
//   - TRUSTED_PROXIES: comma separated IPs or CIDRs
func LoadRateLimitConfig() (RateLimitConfig, error) {
	def := DefaultRateLimitConfig()
	cfg := RateLimitConfig{
		Enabled:        GetEnvBool("ADMIN_RATE_LIMIT_ENABLED", def.Enabled),
		TrustProxy:     GetEnvBool("TRUST_PROXY", false),
		TrustedProxies: GetEnvStringList("TRUSTED_PROXIES", nil),
	}

	cfg.RequestsPerSecond = positiveIntOr("ADMIN_RATE_LIMIT", def.RequestsPerSecond)
	cfg.Burst = positiveIntOr("ADMIN_RATE_BURST", def.Burst)
	cfg.CleanupInterval = positiveDurationOr("ADMIN_RATE_CLEANUP_INTERVAL", def.CleanupInterval)
	cfg.IdleTTL = positiveDurationOr("ADMIN_RATE_IDLE_TTL", def.IdleTTL)

	if cfg.TrustProxy {
		if len(cfg.TrustedProxies) == 0 {
			return RateLimitConfig{}, fmt.Errorf("TRUST_PROXY is enabled but TRUSTED_PROXIES is empty")
		}
		if err := ValidateTrustedProxies(cfg.TrustedProxies); err != nil {
			return RateLimitConfig{}, err
		}
	}
	return cfg, nil
}

func positiveIntOr(key string, def int) int {
	v := GetEnvInt(key, def)
	if v <= 0 {
		slog.Warn("invalid "+key+", using default",
			slog.Int("value", v),
			slog.Int("default", def))
		return def
	}
	return v
}

func positiveDurationOr(key string, def time.Duration) time.Duration {
	v := GetEnvDuration(key, def)
	if err := ValidatePositiveDuration(v); err != nil {
		slog.Warn("invalid "+key+", using default",
			slog.String("value", v.String()),
			slog.String("default", def.String()),
			slog.String("error", err.Error()))
		return def
	}
	return v
}

// CSPConfig contains the configuration for Content Security Policy headers.
type CSPConfig struct {
	Enabled bool
	// ReportOnly sends Content-Security-Policy-Report-Only instead of enforcing.
	ReportOnly bool
}

// LoadCSPConfig reads CSP_ENABLED (default: true) and CSP_REPORT_ONLY (default: false).
func LoadCSPConfig() CSPConfig {
	return CSPConfig{
		Enabled:    GetEnvBool("CSP_ENABLED", true),
		ReportOnly: GetEnvBool("CSP_REPORT_ONLY", false),
	}
}

// ParseTrustedProxies parses IPs and CIDR ranges. A bare IP becomes a /32 or /128 prefix.
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			return nil, fmt.Errorf("CIDR cannot be empty")
		}
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid IP or CIDR %q", entry)
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// ValidateTrustedProxies reports the first entry that is neither an IP nor a CIDR range.
func ValidateTrustedProxies(entries []string) error {
	_, err := ParseTrustedProxies(entries)
	return err
}
