package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/fitout_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected 10s shutdown timeout, got %s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Database.URL != "postgres://localhost/fitout_test" {
		t.Errorf("unexpected database url %q", cfg.Database.URL)
	}
	if !reflect.DeepEqual(cfg.Approval.Roles, []string{"DIRECTOR", "PROJECT_MANAGER"}) {
		t.Errorf("unexpected default approver roles %v", cfg.Approval.Roles)
	}
	if cfg.SMTP.Enabled() {
		t.Error("expected SMTP to be disabled without SMTP_HOST")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APPROVER_ROLES", "director, finance_head")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 3*time.Second {
		t.Errorf("expected 3s, got %s", cfg.Server.ShutdownTimeout)
	}
	if !reflect.DeepEqual(cfg.Approval.Roles, []string{"director", "finance_head"}) {
		t.Errorf("unexpected approver roles %v", cfg.Approval.Roles)
	}
	if !reflect.DeepEqual(cfg.Server.AllowedOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
	if got := cfg.SMTP.Addr(); got != "smtp.example.com:2525" {
		t.Errorf("expected smtp.example.com:2525, got %s", got)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{nil, nil},
		{[]string{"A,B"}, []string{"A", "B"}},
		{[]string{" A ", "", "B, ,C"}, []string{"A", "B", "C"}},
	}
	for _, tt := range tests {
		if got := splitList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitList(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
