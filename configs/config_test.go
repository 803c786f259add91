package configs

import (
	"os"
	"testing"
)

// setupTestEnv sets up required environment variables for config unmarshaling
func setupTestEnv() {
	os.Setenv("APP_DEBUG", "false")
	os.Setenv("APP_ENV", "test")
	os.Setenv("APP_PORT", "8080")
	os.Setenv("STORAGE_DRIVER", "memory")
	os.Setenv("POSTGRES_HOST", "localhost")
	os.Setenv("POSTGRES_PORT", "5432")
	os.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	os.Setenv("SLACK_SIGNING_SECRET", "secret")
	os.Setenv("NATS_URL", "")
	os.Setenv("DIALOGUE_CLOSE_PHRASE", "done")
	// Zero keeps the original "wait forever" behaviour
	os.Setenv("DIALOGUE_IDLE_TIMEOUT", "0")
}

// cleanupTestEnv cleans up environment variables after tests
func cleanupTestEnv() {
	for _, key := range []string{
		"APP_DEBUG", "APP_ENV", "APP_PORT", "APP_ADMIN_TOKEN", "STORAGE_DRIVER",
		"POSTGRES_HOST", "POSTGRES_PORT",
		"SLACK_BOT_TOKEN", "SLACK_SIGNING_SECRET", "NATS_URL",
		"DIALOGUE_CLOSE_PHRASE", "DIALOGUE_IDLE_TIMEOUT", "DIALOGUE_MAX_PARALLEL_POSTS",
	} {
		os.Unsetenv(key)
	}
}

// TestDialogueFieldsUnmarshal tests that Dialogue struct fields are properly unmarshaled from env
func TestDialogueFieldsUnmarshal(t *testing.T) {
	setupTestEnv()
	defer cleanupTestEnv()

	os.Setenv("DIALOGUE_IDLE_TIMEOUT", "600")
	os.Setenv("DIALOGUE_MAX_PARALLEL_POSTS", "8")

	InitViper(".", "test")
	cfg := GetViper()

	if cfg.Dialogue.IdleTimeout != 600 {
		t.Errorf("Expected Dialogue.IdleTimeout to be 600, got %d", cfg.Dialogue.IdleTimeout)
	}
	if cfg.Dialogue.MaxParallelPosts != 8 {
		t.Errorf("Expected Dialogue.MaxParallelPosts to be 8, got %d", cfg.Dialogue.MaxParallelPosts)
	}
	if cfg.Dialogue.ClosePhrase != "done" {
		t.Errorf("Expected Dialogue.ClosePhrase to be done, got %s", cfg.Dialogue.ClosePhrase)
	}
}

// TestIdleTimeoutDefaultsToNone tests that a zero idle timeout passes through untouched
func TestIdleTimeoutDefaultsToNone(t *testing.T) {
	setupTestEnv()
	defer cleanupTestEnv()

	InitViper(".", "test")
	cfg := GetViper()

	if cfg.Dialogue.IdleTimeout != 0 {
		t.Errorf("Expected Dialogue.IdleTimeout to be 0, got %d", cfg.Dialogue.IdleTimeout)
	}
}

// TestSlackAndStorageConfigAccess tests config access via configs.GetViper()
func TestSlackAndStorageConfigAccess(t *testing.T) {
	setupTestEnv()
	defer cleanupTestEnv()

	InitViper(".", "test")
	cfg := GetViper()

	if cfg.Slack.BotToken != "xoxb-test" {
		t.Errorf("Expected Slack.BotToken to be xoxb-test, got %s", cfg.Slack.BotToken)
	}
	if cfg.Slack.SigningSecret != "secret" {
		t.Errorf("Expected Slack.SigningSecret to be secret, got %s", cfg.Slack.SigningSecret)
	}
	if cfg.Storage.Driver != StorageDriverMemory {
		t.Errorf("Expected Storage.Driver to be %s, got %s", StorageDriverMemory, cfg.Storage.Driver)
	}
	if cfg.App.Env != "test" {
		t.Errorf("Expected App.Env to be test, got %s", cfg.App.Env)
	}
}

// TestAdminTokenFromEnv tests that the admin API token is read from the environment
func TestAdminTokenFromEnv(t *testing.T) {
	setupTestEnv()
	defer cleanupTestEnv()

	os.Setenv("APP_ADMIN_TOKEN", "admin-secret")

	InitViper(".", "test")
	cfg := GetViper()

	if cfg.App.AdminToken != "admin-secret" {
		t.Errorf("Expected App.AdminToken to be admin-secret, got %s", cfg.App.AdminToken)
	}
}
