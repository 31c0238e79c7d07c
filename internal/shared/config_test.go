package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Server.Host != "127.0.0.1" {
		t.Errorf("expected default host 127.0.0.1, got %s", config.Server.Host)
	}
	if config.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", config.Server.Port)
	}
	if config.Credentials.SetlistFM.BaseURL != "https://api.setlist.fm/rest/1.0" {
		t.Errorf("unexpected setlist.fm base URL %s", config.Credentials.SetlistFM.BaseURL)
	}
	if config.Credentials.Spotify.ClientID != "" {
		t.Error("expected empty default credentials")
	}
}

func TestServerConfigAddr(t *testing.T) {
	s := ServerConfig{Host: "0.0.0.0", Port: 9090}
	if s.Addr() != "0.0.0.0:9090" {
		t.Errorf("expected 0.0.0.0:9090, got %s", s.Addr())
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("parses a full config file", func(t *testing.T) {
		content := `
[server]
host = "0.0.0.0"
port = 3000

[credentials.spotify]
client_id = "cid"
client_secret = "csecret"
refresh_token = "rtoken"
user_id = "uid"

[credentials.setlistfm]
api_key = "fm-key"

[credentials.livefans]
main_lambda_url = "https://main.example"
search_lambda_url = "https://sub.example"
`
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if config.Server.Addr() != "0.0.0.0:3000" {
			t.Errorf("unexpected addr %s", config.Server.Addr())
		}
		if config.Credentials.Spotify.ClientID != "cid" {
			t.Errorf("unexpected client_id %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.SetlistFM.APIKey != "fm-key" {
			t.Errorf("unexpected api_key %s", config.Credentials.SetlistFM.APIKey)
		}
		if config.Credentials.LiveFans.MainLambdaURL != "https://main.example" {
			t.Errorf("unexpected lambda URL %s", config.Credentials.LiveFans.MainLambdaURL)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("malformed toml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("not [valid"), 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		if _, err := LoadConfig(path); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestCreateConfigFile(t *testing.T) {
	t.Run("writes the starter config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected the created file to parse, got %v", err)
		}
		if config.Server.Port != 8080 {
			t.Errorf("expected default port in created file, got %d", config.Server.Port)
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := CreateConfigFile(path); err == nil {
			t.Fatal("expected an error for an existing file")
		}
	})
}
