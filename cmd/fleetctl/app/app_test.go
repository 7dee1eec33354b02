package app

import (
	"context"
	"errors"
	"testing"
)

func TestRejected(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		ok      bool
		err     error
		wantErr bool
	}{
		{name: "accepted", ok: true},
		{name: "rejected", wantErr: true},
		{name: "failed", err: boom, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rejected(tt.ok, tt.err, "freeze")
			if (err != nil) != tt.wantErr {
				t.Errorf("rejected() = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Errorf("rejected() = %v, want %v", err, tt.err)
			}
		})
	}
}

func TestParseAddress(t *testing.T) {
	if _, err := parseAddress("127.0.0.2"); err != nil {
		t.Errorf("parseAddress(127.0.0.2) error = %v", err)
	}
	if _, err := parseAddress("kingpin-1"); err == nil {
		t.Error("parseAddress(kingpin-1) succeeded")
	}
}

func TestCommandTree(t *testing.T) {
	cmd := NewApp(context.Background()).Command()
	for _, name := range []string{"create", "remove", "describe", "set-pose", "set-kingpin-state",
		"set-fleet-state", "freeze", "unfreeze", "get", "watch", "relay"} {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Errorf("Find(%q) = %v, %v", name, sub, err)
		}
	}

	// Argument validation fails before any connection is attempted.
	cmd.SetArgs([]string{"remove", "not-an-address"})
	if err := cmd.Execute(); err == nil {
		t.Error("remove with a bad address succeeded")
	}
}
