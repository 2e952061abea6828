package version

import (
	"strings"
	"testing"
)

func withVars(t *testing.T, v, commit string) {
	t.Helper()
	oldV, oldC := Version, GitCommit
	Version, GitCommit = v, commit
	t.Cleanup(func() { Version, GitCommit = oldV, oldC })
}

func TestGetVersionInfoDefaults(t *testing.T) {
	withVars(t, "dev", "")
	info := GetVersionInfo()
	if info.Version != "dev" {
		t.Errorf("expected dev, got %q", info.Version)
	}
	if info.IsRelease {
		t.Error("dev build must not be a release")
	}
}

func TestGetVersionInfoRelease(t *testing.T) {
	withVars(t, "1.2.0", "abcdef0123456")
	info := GetVersionInfo()
	if !info.IsRelease {
		t.Error("expected release build")
	}
	if info.GitCommit != "abcdef0" {
		t.Errorf("expected commit truncated to 7 chars, got %q", info.GitCommit)
	}
}

func TestGetShortVersionWithCommit(t *testing.T) {
	withVars(t, "1.2.0", "abcdef0")
	got := GetShortVersion()
	if !strings.HasPrefix(got, "1.2.0-abcdef0") {
		t.Errorf("expected 1.2.0-abcdef0 prefix, got %q", got)
	}
}

func TestUserAgent(t *testing.T) {
	withVars(t, "1.2.0", "abcdef0")
	got := UserAgent()
	if !strings.HasPrefix(got, "offclient/1.2.0") {
		t.Errorf("expected offclient/1.2.0 prefix, got %q", got)
	}
}
