package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "ADMIN_EMAILS", "SCHEDULER_ENABLED", "SCHEDULER_INTERVAL", "ENRICH_RATE_LIMIT", "TIMEZONE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "4000" || cfg.DBDriver != "postgres" {
		t.Errorf("Port/DBDriver = %q/%q", cfg.Port, cfg.DBDriver)
	}
	if cfg.SchedulerEnabled || cfg.SchedulerInterval != time.Hour {
		t.Errorf("scheduler = %v every %s", cfg.SchedulerEnabled, cfg.SchedulerInterval)
	}
	if cfg.EnrichRateLimit != 20 || len(cfg.AdminEmails) != 0 {
		t.Errorf("EnrichRateLimit = %d, AdminEmails = %v", cfg.EnrichRateLimit, cfg.AdminEmails)
	}
	if cfg.Location().String() != "Europe/Stockholm" {
		t.Errorf("Location() = %s", cfg.Location())
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("ADMIN_EMAILS", " a@example.se, ,b@example.se ")
	t.Setenv("SCHEDULER_ENABLED", "true")
	t.Setenv("SCHEDULER_INTERVAL", "15m")
	t.Setenv("ENRICH_RATE_LIMIT", "5")

	cfg := Load()
	if cfg.Port != "8080" || cfg.DBDriver != "sqlite" {
		t.Errorf("Port/DBDriver = %q/%q", cfg.Port, cfg.DBDriver)
	}
	if want := []string{"a@example.se", "b@example.se"}; !reflect.DeepEqual(cfg.AdminEmails, want) {
		t.Errorf("AdminEmails = %v, want %v", cfg.AdminEmails, want)
	}
	if !cfg.SchedulerEnabled || cfg.SchedulerInterval != 15*time.Minute || cfg.EnrichRateLimit != 5 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("ENRICH_BATCH_SIZE", "many")
	t.Setenv("SCHEDULER_INTERVAL", "soon")
	t.Setenv("TIMEZONE", "Mars/Olympus")

	cfg := Load()
	if cfg.EnrichBatchSize != 50 || cfg.SchedulerInterval != time.Hour {
		t.Errorf("EnrichBatchSize = %d, SchedulerInterval = %s", cfg.EnrichBatchSize, cfg.SchedulerInterval)
	}
	if cfg.Location() != time.UTC {
		t.Errorf("unknown timezone should fall back to UTC, got %s", cfg.Location())
	}
}
