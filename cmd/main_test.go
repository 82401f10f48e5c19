package main

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/KasumiMercury/compliance-watch/internal/config"
)

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"serve", "evaluate", "import"} {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := root.Find([]string{name})
			if err != nil {
				t.Fatalf("Find(%q) error = %v", name, err)
			}
			if cmd.Name() != name {
				t.Errorf("Find(%q) = %q", name, cmd.Name())
			}
		})
	}

	if root.Version != Version {
		t.Errorf("Version = %q, want %q", root.Version, Version)
	}
}

func TestCommandArgumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "evaluate with invalid at", args: []string{"evaluate", "--at", "yesterday"}, wantErr: "invalid --at"},
		{name: "import without file", args: []string{"import"}, wantErr: "accepts 1 arg"},
		{name: "serve with extra args", args: []string{"serve", "now"}, wantErr: "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newRootCmd()
			root.SetArgs(tt.args)
			root.SetOut(io.Discard)
			root.SetErr(io.Discard)

			err := root.ExecuteContext(context.Background())
			if err == nil {
				t.Fatal("ExecuteContext() error = nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestEphemeralCooldown(t *testing.T) {
	tests := []struct {
		backend config.CooldownBackend
		want    bool
	}{
		{config.CooldownBackendMemory, true},
		{config.CooldownBackendRedis, false},
	}
	for _, tt := range tests {
		cfg := &config.Config{Cooldown: &config.CooldownConfig{Backend: tt.backend}}
		if got := ephemeralCooldown(cfg); got != tt.want {
			t.Errorf("ephemeralCooldown(%s) = %v, want %v", tt.backend, got, tt.want)
		}
	}
}
