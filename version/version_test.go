package version

import "testing"

func saveAndRestore(t *testing.T) {
	t.Helper()
	v, c, b := Version, GitCommit, BuildTime
	t.Cleanup(func() {
		Version, GitCommit, BuildTime = v, c, b
	})
}

func TestGetUsesLdflags(t *testing.T) {
	saveAndRestore(t)
	Version = "1.2.3"
	GitCommit = "abcdef0123456789"
	BuildTime = "2026-01-02T03:04:05Z"

	info := Get()
	if info.Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %q", info.Version)
	}
	if info.GitCommit != "abcdef0" {
		t.Errorf("expected commit truncated to 7 chars, got %q", info.GitCommit)
	}
	if info.BuildTime != "2026-01-02T03:04:05Z" {
		t.Errorf("unexpected build time %q", info.BuildTime)
	}
}

func TestShort(t *testing.T) {
	saveAndRestore(t)
	Version = "1.0.0"
	GitCommit = "1234567"

	got := Short()
	if got != "1.0.0-1234567" && got != "1.0.0-1234567-dirty" {
		t.Errorf("unexpected short version %q", got)
	}
}
