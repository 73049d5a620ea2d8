package main

import (
	"bytes"
	"testing"

	"github.com/cpn/cpn/internal/config"
)

func TestMigrateCmd_Subcommands(t *testing.T) {
	cmd := migrateCmd()
	want := map[string]bool{"up": false, "status": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("migrate %s subcommand not registered", name)
		}
	}
}

func TestJWTConfig(t *testing.T) {
	cfg := &config.Config{
		AuthIssuer:     "https://issuer.example.com",
		AuthAudience:   "cpn-api",
		AuthJWKSURL:    "https://issuer.example.com/jwks",
		AuthSigningKey: "dev-secret",
	}

	got := jwtConfig(cfg)

	if got.Issuer != cfg.AuthIssuer {
		t.Errorf("Issuer = %q, want %q", got.Issuer, cfg.AuthIssuer)
	}
	if got.Audience != cfg.AuthAudience {
		t.Errorf("Audience = %q, want %q", got.Audience, cfg.AuthAudience)
	}
	if got.JWKSURL != cfg.AuthJWKSURL {
		t.Errorf("JWKSURL = %q, want %q", got.JWKSURL, cfg.AuthJWKSURL)
	}
	if !bytes.Equal(got.SigningKey, []byte("dev-secret")) {
		t.Errorf("SigningKey = %q, want %q", got.SigningKey, "dev-secret")
	}
}

func TestServeCmd(t *testing.T) {
	if serveCmd().Use != "serve" {
		t.Error("serve command not configured")
	}
}
