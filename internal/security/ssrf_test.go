package security

import (
	"testing"

	"jaybrain/internal/config"
)

func TestValidateURLRejectsNonHTTPScheme(t *testing.T) {
	if err := ValidateURL("file:///etc/passwd", config.DefaultSecurityConfig()); err == nil {
		t.Fatal("expected error for file scheme")
	}
}

func TestValidateURLRejectsLoopback(t *testing.T) {
	if err := ValidateURL("http://127.0.0.1:8080/", config.DefaultSecurityConfig()); err == nil {
		t.Fatal("expected error for loopback host")
	}
}

func TestValidateURLRejectsLinkLocalMetadata(t *testing.T) {
	if err := ValidateURL("http://169.254.169.254/latest/meta-data", config.DefaultSecurityConfig()); err == nil {
		t.Fatal("expected error for link-local metadata address")
	}
}

func TestValidateURLRejectsPrivateRange(t *testing.T) {
	if err := ValidateURL("http://10.0.0.5/", config.DefaultSecurityConfig()); err == nil {
		t.Fatal("expected error for private range address")
	}
}

func TestValidateURLAllowsPublicHTTPS(t *testing.T) {
	if err := ValidateURL("https://example.com/page", config.DefaultSecurityConfig()); err != nil {
		t.Fatalf("unexpected error for public host: %v", err)
	}
}

func TestValidateURLHonorsAllowList(t *testing.T) {
	cfg := config.SecurityConfig{SSRFAllowHosts: []string{"localhost"}}
	if err := ValidateURL("http://localhost:9090/metrics", cfg); err != nil {
		t.Fatalf("unexpected error for allow-listed host: %v", err)
	}
}

func TestValidateURLRejectsMalformed(t *testing.T) {
	if err := ValidateURL("://not-a-url", config.DefaultSecurityConfig()); err == nil {
		t.Fatal("expected error for malformed url")
	}
}
