package main

import (
	"bytes"
	"testing"
)

// setBuildVars overrides the ldflags variables for one test.
// Tests using it must not run in parallel.
func setBuildVars(t *testing.T, v, c, d string) {
	t.Helper()

	oldVersion, oldCommit, oldDate := version, commit, date
	version, commit, date = v, c, d
	t.Cleanup(func() {
		version, commit, date = oldVersion, oldCommit, oldDate
	})
}

func TestLdflagsOverrideBuildInfo(t *testing.T) {
	setBuildVars(t, "v1.2.3", "abc1234", "2026-01-02T03:04:05Z")

	if got := getVersion(); got != "v1.2.3" {
		t.Errorf("getVersion() = %q, want v1.2.3", got)
	}
	if got := getCommit(); got != "abc1234" {
		t.Errorf("getCommit() = %q, want abc1234", got)
	}
	if got := getDate(); got != "2026-01-02T03:04:05Z" {
		t.Errorf("getDate() = %q, want 2026-01-02T03:04:05Z", got)
	}
}

func TestVersionFallbacks(t *testing.T) {
	setBuildVars(t, "", "", "")

	// Test binaries carry no vcs settings, so commit and date fall back.
	if got := getVersion(); got == "" {
		t.Error("getVersion() returned empty string")
	}
	if got := getCommit(); got == "" {
		t.Error("getCommit() returned empty string")
	}
	if got := getDate(); got == "" {
		t.Error("getDate() returned empty string")
	}
}

func TestShortCommit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rev  string
		want string
	}{
		{rev: "0123456789abcdef0123456789abcdef01234567", want: "0123456"},
		{rev: "0123456", want: "0123456"},
		{rev: "abc", want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.rev, func(t *testing.T) {
			t.Parallel()

			if got := shortCommit(tt.rev); got != tt.want {
				t.Errorf("shortCommit(%q) = %q, want %q", tt.rev, got, tt.want)
			}
		})
	}
}

func TestVersionSubcommandOutput(t *testing.T) {
	setBuildVars(t, "v0.9.0", "deadbee", "2026-10-01")

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("linkgrab version: %v", err)
	}

	want := "linkgrab version v0.9.0\n  commit: deadbee\n  built:  2026-10-01\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}
