package config

import (
	"path/filepath"
	"testing"
)

func TestGetHome_EnvVar(t *testing.T) {
	ResetHome()
	t.Setenv("EXPLORER_HOME", "/custom/path")
	defer ResetHome()

	got := GetHome()
	if got != "/custom/path" {
		t.Errorf("GetHome() = %q, want %q", got, "/custom/path")
	}
}

func TestGetHome_UserConfigFallback(t *testing.T) {
	ResetHome()
	t.Setenv("EXPLORER_HOME", "")
	defer ResetHome()

	got := GetHome()
	if got == "" {
		t.Error("GetHome() returned empty string")
	}
}

func TestGetHome_Cached(t *testing.T) {
	ResetHome()
	t.Setenv("EXPLORER_HOME", "/first")
	defer ResetHome()

	first := GetHome()
	t.Setenv("EXPLORER_HOME", "/second")
	second := GetHome()

	if first != second {
		t.Errorf("GetHome() not cached: first=%q, second=%q", first, second)
	}
}

func TestDerivedPaths(t *testing.T) {
	ResetHome()
	t.Setenv("EXPLORER_HOME", "/opt/explorer")
	defer ResetHome()

	if got, want := GetLogPath(), filepath.Join("/opt/explorer", "logs", "explorer.log"); got != want {
		t.Errorf("GetLogPath() = %q, want %q", got, want)
	}
	if got, want := GetHistoryDBPath(), filepath.Join("/opt/explorer", "history.db"); got != want {
		t.Errorf("GetHistoryDBPath() = %q, want %q", got, want)
	}
	if got, want := GetCodeDir(), filepath.Join("/opt/explorer", "code"); got != want {
		t.Errorf("GetCodeDir() = %q, want %q", got, want)
	}
}
