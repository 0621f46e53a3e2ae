package config

import (
	"testing"
	"time"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/serveon")
	for _, key := range []string{"HTTP_ADDR", "REDIS_URL", "MINIO_ENDPOINT", "JWT_ACCESS_SECRET", "CORS_ORIGINS", "CORS_ALLOW_ALL", "SEARCH_DEBOUNCE", "NAV_BLUR_GRACE", "NAV_HISTORY_LIMIT", "NAV_RESULT_LIMIT"} {
		t.Setenv(key, "")
	}
	t.Setenv("CORS_ORIGINS", "http://localhost:5173")
	t.Setenv("SEARCH_DEBOUNCE", "300ms")
	t.Setenv("NAV_BLUR_GRACE", "150ms")
	t.Setenv("NAV_HISTORY_LIMIT", "10")
	t.Setenv("NAV_RESULT_LIMIT", "10")
	t.Setenv("CORS_ALLOW_ALL", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GetSearchDebounce() != 300*time.Millisecond {
		t.Fatalf("expected 300ms debounce, got %v", cfg.GetSearchDebounce())
	}
	if cfg.GetNavBlurGrace() != 150*time.Millisecond {
		t.Fatalf("expected 150ms blur grace, got %v", cfg.GetNavBlurGrace())
	}
	if cfg.GetNavHistoryLimit() != 10 || cfg.GetNavResultLimit() != 10 {
		t.Fatalf("unexpected limits %d/%d", cfg.GetNavHistoryLimit(), cfg.GetNavResultLimit())
	}
	if cfg.IsRedisEnabled() || cfg.IsMinIOEnabled() || cfg.IsAuthEnabled() {
		t.Fatal("optional services should be disabled")
	}
	if len(cfg.GetCORSOrigins()) != 1 {
		t.Fatalf("unexpected origins %v", cfg.GetCORSOrigins())
	}
}

func TestWildcardOriginConflictsWithCredentials(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/serveon")
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for wildcard origin with credentials")
	}

	t.Setenv("CORS_ALLOW_CREDENTIALS", "false")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.GetCORSAllowAll() {
		t.Fatal("wildcard origin should allow all")
	}
}

func TestMinIORequiresCredentials(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/serveon")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_ACCESS_KEY", "")
	t.Setenv("MINIO_SECRET_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for MinIO without credentials")
	}
}

func TestNonPositiveLimitsRejected(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/serveon")
	t.Setenv("NAV_RESULT_LIMIT", "zero")
	if _, err := LoadWithoutDatabase(); err == nil {
		t.Fatal("expected error for invalid limit")
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" a, ,b ,c")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected split %v", got)
	}
}

func TestDatabaseMaxConns(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/serveon")
	t.Setenv("DB_MAX_CONNS", "4")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GetDatabaseMaxConns() != 4 {
		t.Fatalf("expected 4 connections, got %d", cfg.GetDatabaseMaxConns())
	}

	t.Setenv("DB_MAX_CONNS", "zero")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for a non-numeric DB_MAX_CONNS")
	}
}

func TestNavHistoryLimitIsCapped(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/serveon")
	t.Setenv("NAV_HISTORY_LIMIT", "50")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for a history limit above 10")
	}

	t.Setenv("NAV_HISTORY_LIMIT", "5")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GetNavHistoryLimit() != 5 {
		t.Fatalf("expected 5, got %d", cfg.GetNavHistoryLimit())
	}
}
