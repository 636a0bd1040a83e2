package shared

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "https://api.spotify.com/v1" {
			t.Errorf("expected default base URL, got %s", config.API.BaseURL)
		}
		if config.API.TokenURL != "https://accounts.spotify.com/api/token" {
			t.Errorf("expected default token URL, got %s", config.API.TokenURL)
		}
		if config.API.TimeoutSeconds != 10 {
			t.Errorf("expected 10 second timeout, got %d", config.API.TimeoutSeconds)
		}
		if config.Playback.SettleDelayMS != 1000 {
			t.Errorf("expected 1000ms settle delay, got %d", config.Playback.SettleDelayMS)
		}
		if config.Storage.Driver != "sqlite" {
			t.Errorf("expected sqlite driver, got %s", config.Storage.Driver)
		}
		if config.Credentials.Spotify.Complete() {
			t.Error("default config must not ship credentials")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "nested", "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}
		if config.Storage.Driver != DefaultConfig().Storage.Driver {
			t.Errorf("created config storage driver doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		testConfig := `[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"

[storage]
driver = "bolt"
path = "/tmp/tokens.bolt"

[playback]
settle_delay_ms = 250
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Storage.Driver != "bolt" || config.StoragePath() != "/tmp/tokens.bolt" {
			t.Errorf("unexpected storage config: %+v", config.Storage)
		}
		if config.Playback.SettleDelayMS != 250 {
			t.Errorf("expected settle delay 250, got %d", config.Playback.SettleDelayMS)
		}
		if config.API.TimeoutSeconds != 10 {
			t.Errorf("missing keys should keep defaults, got timeout %d", config.API.TimeoutSeconds)
		}
	})

	t.Run("LoadConfig with invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[api\nbase_url = "), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("SaveConfig round trips", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		config.Credentials.Spotify.ClientID = "saved_id"

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if loaded.Credentials.Spotify.ClientID != "saved_id" {
			t.Errorf("expected saved_id, got %s", loaded.Credentials.Spotify.ClientID)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Run("environment overrides file credentials", func(t *testing.T) {
			t.Setenv(EnvClientID, "env_id")
			t.Setenv(EnvClientSecret, "env_secret")

			config := DefaultConfig()
			config.Credentials.Spotify.ClientID = "file_id"
			if err := config.ApplyEnv(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if config.Credentials.Spotify.ClientID != "env_id" || config.Credentials.Spotify.ClientSecret != "env_secret" {
				t.Errorf("expected env credentials, got %+v", config.Credentials.Spotify)
			}
		})

		t.Run("loads .env file", func(t *testing.T) {
			t.Setenv(EnvClientID, "")
			t.Setenv(EnvClientSecret, "")
			envPath := filepath.Join(t.TempDir(), ".env")
			content := EnvClientID + "=dotenv_id\n" + EnvClientSecret + "=dotenv_secret\n"
			if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
				t.Fatalf("failed to write .env: %v", err)
			}

			config := DefaultConfig()
			if err := config.ApplyEnv(envPath); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if config.Credentials.Spotify.ClientID != "dotenv_id" {
				t.Errorf("expected dotenv_id, got %s", config.Credentials.Spotify.ClientID)
			}
		})

		t.Run("missing .env is ignored", func(t *testing.T) {
			config := DefaultConfig()
			if err := config.ApplyEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
				t.Errorf("expected missing file to be ignored, got %v", err)
			}
		})
	})

	t.Run("DefaultStoragePath", func(t *testing.T) {
		if p := DefaultStoragePath("bolt"); !strings.HasSuffix(p, filepath.Join("spotctl", "tokens.bolt")) {
			t.Errorf("unexpected bolt path %s", p)
		}
		if p := DefaultStoragePath("sqlite"); !strings.HasSuffix(p, filepath.Join("spotctl", "tokens.db")) {
			t.Errorf("unexpected sqlite path %s", p)
		}
	})
}
