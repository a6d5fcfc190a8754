package settings_test

import (
	"os"
	"path/filepath"
	"testing"

	"tasksync/internal/settings"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	st, err := settings.Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !st.AskConfirmation {
		t.Error("expected askConfirmation to default to true")
	}
	if !st.ShowNotice {
		t.Error("expected showNotice to default to true")
	}
	if st.RefreshIntervalSec != settings.DefaultRefreshIntervalSec {
		t.Errorf("expected default interval %d, got %d", settings.DefaultRefreshIntervalSec, st.RefreshIntervalSec)
	}
	if st.Complete() {
		t.Error("defaults must not count as complete credentials")
	}
}

func TestLoad_ParsesAllFields(t *testing.T) {
	path := writeSettings(t, `
googleClientId: client-id
googleClientSecret: client-secret
googleApiToken: api-token
googleRefreshToken: refresh-token
askConfirmation: false
refreshInterval: 120
showNotice: false
showHidden: true
`)

	st, err := settings.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if st.GoogleClientID != "client-id" || st.GoogleClientSecret != "client-secret" {
		t.Errorf("client credentials not parsed: %+v", st)
	}
	if st.GoogleAPIToken != "api-token" {
		t.Errorf("expected api token, got %q", st.GoogleAPIToken)
	}
	if st.GoogleRefreshToken != "refresh-token" {
		t.Errorf("expected refresh token, got %q", st.GoogleRefreshToken)
	}
	if st.AskConfirmation {
		t.Error("expected askConfirmation false")
	}
	if st.RefreshIntervalSec != 120 {
		t.Errorf("expected interval 120, got %d", st.RefreshIntervalSec)
	}
	if st.ShowNotice {
		t.Error("expected showNotice false")
	}
	if !st.ShowHidden {
		t.Error("expected showHidden true")
	}
	if !st.Complete() {
		t.Error("expected complete credentials")
	}
}

func TestLoad_ClampsRefreshInterval(t *testing.T) {
	path := writeSettings(t, "refreshInterval: 2\n")

	st, err := settings.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.RefreshIntervalSec != settings.MinRefreshIntervalSec {
		t.Errorf("expected interval clamped to %d, got %d", settings.MinRefreshIntervalSec, st.RefreshIntervalSec)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeSettings(t, "googleClientId: [unclosed\n")

	if _, err := settings.Load(path); err == nil {
		t.Error("expected an error for malformed yaml")
	}
}

func TestComplete(t *testing.T) {
	tests := []struct {
		name string
		st   settings.Settings
		want bool
	}{
		{"all set", settings.Settings{GoogleClientID: "a", GoogleClientSecret: "b", GoogleAPIToken: "c"}, true},
		{"missing id", settings.Settings{GoogleClientSecret: "b", GoogleAPIToken: "c"}, false},
		{"missing secret", settings.Settings{GoogleClientID: "a", GoogleAPIToken: "c"}, false},
		{"missing api token", settings.Settings{GoogleClientID: "a", GoogleClientSecret: "b"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.st.Complete(); got != tt.want {
				t.Errorf("Complete() = %v, want %v", got, tt.want)
			}
		})
	}
}
