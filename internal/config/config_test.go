package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Unset everything Load reads so the defaults apply.
	for _, key := range []string{
		"SERVER_PORT", "GIN_MODE", "LOG_LEVEL", "LOG_FORMAT",
		"DATABASE_URL", "MAX_DB_CONNS", "REDIS_URL", "JWT_SECRET",
		"JWT_EXPIRY_HOURS", "BCRYPT_COST", "GRADEBOOK_CACHE_TTL_SECONDS",
		"ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.MaxDBConns != 16 {
		t.Errorf("MaxDBConns = %d, want 16", cfg.MaxDBConns)
	}
	if cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("JWTExpiry = %v, want 24h", cfg.JWTExpiry)
	}
	if cfg.GradebookCacheTTL != 300*time.Second {
		t.Errorf("GradebookCacheTTL = %v, want 5m", cfg.GradebookCacheTTL)
	}
	if cfg.AllowedOrigins != nil {
		t.Errorf("AllowedOrigins = %v, want nil (allow all)", cfg.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MAX_DB_CONNS", "4")
	t.Setenv("JWT_EXPIRY_HOURS", "1")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg := Load()

	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want 9090", cfg.ServerPort)
	}
	if cfg.MaxDBConns != 4 {
		t.Errorf("MaxDBConns = %d, want 4", cfg.MaxDBConns)
	}
	if cfg.JWTExpiry != time.Hour {
		t.Errorf("JWTExpiry = %v, want 1h", cfg.JWTExpiry)
	}
	want := []string{"https://app.example.com", "https://admin.example.com"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Errorf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], want[i])
		}
	}
}

func TestGetEnvIntInvalid(t *testing.T) {
	t.Setenv("MAX_DB_CONNS", "not-a-number")
	if got := getEnvInt("MAX_DB_CONNS", 16); got != 16 {
		t.Errorf("getEnvInt = %d, want fallback 16", got)
	}
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"empty", "", 0},
		{"single", "https://a.example.com", 1},
		{"multiple", "https://a.example.com,https://b.example.com", 2},
		{"trailing comma", "https://a.example.com,", 1},
		{"spaces only", " , ", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseOrigins(tt.raw)
			if len(got) != tt.want {
				t.Errorf("parseOrigins(%q) = %v, want %d origins", tt.raw, got, tt.want)
			}
		})
	}
}
