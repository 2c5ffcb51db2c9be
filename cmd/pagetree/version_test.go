package main

import (
	"bytes"
	"runtime/debug"
	"strings"
	"testing"
)

func TestResolveBuildInfo(t *testing.T) {
	info := &debug.BuildInfo{
		GoVersion: "go1.24.11",
		Main:      debug.Module{Path: "example.com/site", Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	got := resolveBuildInfo(info)
	want := buildInfo{
		Module:    "example.com/site",
		Version:   "v1.2.3",
		Commit:    "0123456789ab",
		Date:      "2026-01-02T03:04:05Z",
		GoVersion: "go1.24.11",
		Modified:  true,
	}
	if got != want {
		t.Fatalf("resolveBuildInfo = %+v, want %+v", got, want)
	}
}

func TestResolveBuildInfoDevel(t *testing.T) {
	got := resolveBuildInfo(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if got.Version != "dev" {
		t.Fatalf("Version = %q, want dev", got.Version)
	}
	if got.Module != "github.com/vango-dev/pagetree" {
		t.Fatalf("Module = %q, want github.com/vango-dev/pagetree", got.Module)
	}
	if got.Commit != "none" || got.Date != "unknown" {
		t.Fatalf("Commit, Date = %q, %q, want defaults", got.Commit, got.Date)
	}
}

func TestResolveBuildInfoNil(t *testing.T) {
	if got := resolveBuildInfo(nil); got.Version != version || got.GoVersion == "" {
		t.Fatalf("resolveBuildInfo(nil) = %+v", got)
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	cmd := versionCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--short"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) == "" {
		t.Fatal("version --short printed nothing")
	}

	buf.Reset()
	cmd = versionCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"Module:", "Version:", "Go version:"} {
		if !strings.Contains(buf.String(), field) {
			t.Fatalf("output = %q, want %s", buf.String(), field)
		}
	}
}
