package topic

import "testing"

func TestTopicBuilder(t *testing.T) {
	b := NewTopicBuilder("fleet/v1/")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"fleet state", b.FleetState(), "fleet/v1/fleet/state"},
		{"kingpin state", b.KingpinState("127.0.0.2"), "fleet/v1/kingpin/127.0.0.2/state"},
		{"kingpin wildcard", b.KingpinStateWildcard(), "fleet/v1/kingpin/+/state"},
		{"command", b.Command("freeze"), "fleet/v1/fleet/command/freeze"},
		{"command wildcard", b.CommandWildcard(), "fleet/v1/fleet/command/+"},
		{"relay status", b.RelayStatus(), "fleet/v1/relay/status"},
		{"no root", NewTopicBuilder("").FleetState(), "fleet/state"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestCommandName(t *testing.T) {
	b := NewTopicBuilder("fleet/v1")

	tests := []struct {
		topic  string
		want   string
		wantOK bool
	}{
		{"fleet/v1/fleet/command/freeze", "freeze", true},
		{"fleet/v1/fleet/command/", "", false},
		{"fleet/v1/fleet/command/a/b", "", false},
		{"fleet/v1/fleet/state", "", false},
		{"other/fleet/command/freeze", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			got, ok := b.CommandName(tt.topic)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("CommandName(%q) = %q, %v, want %q, %v", tt.topic, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
