package supervisor

import "testing"

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("UPDATE_FEED_URL", "")

	cfg := FromEnv("interview-atlas-backend", "1.2.3")

	if cfg.Port != DefaultPort {
		t.Errorf("Expected default port %q, got %q", DefaultPort, cfg.Port)
	}
	if cfg.FeedURL != DefaultFeedURL {
		t.Errorf("Expected default feed URL, got %q", cfg.FeedURL)
	}
	if cfg.SidecarPath != "interview-atlas-backend" {
		t.Errorf("Unexpected sidecar path %q", cfg.SidecarPath)
	}
	if cfg.Version != "1.2.3" {
		t.Errorf("Unexpected version %q", cfg.Version)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9100")
	t.Setenv("UPDATE_FEED_URL", "https://example.com/feed.json")

	cfg := FromEnv("backend", "dev")

	if cfg.Port != "9100" {
		t.Errorf("Expected port 9100, got %q", cfg.Port)
	}
	if cfg.FeedURL != "https://example.com/feed.json" {
		t.Errorf("Expected feed override, got %q", cfg.FeedURL)
	}
}

func TestNewStartsUnchecked(t *testing.T) {
	sup := New(Config{Logger: discardLogger()})
	if sup.Status() != StatusUnchecked {
		t.Errorf("Expected new supervisor to be Unchecked, got %s", sup.Status())
	}
}
