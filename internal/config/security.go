package config

// SecurityConfig configures the SSRF guard (`validate_url`) used by
// every outbound fetcher (web_fetch, feed poll, vault sync, browser
// automation).
type SecurityConfig struct {
	// SSRFAllowHosts is the explicit allow-set: hostnames permitted even
	// when they resolve into a private/loopback/link-local range.
	SSRFAllowHosts []string `yaml:"ssrf_allow_hosts" json:"ssrf_allow_hosts"`
}

// DefaultSecurityConfig returns an empty allow-set.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		SSRFAllowHosts: []string{},
	}
}
