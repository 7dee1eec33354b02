package app

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"sigs.k8s.io/yaml"

	fleetv1 "github.com/autopeer-io/fleetclient/api/fleetmanager/v1"
	"github.com/autopeer-io/fleetclient/cmd/fleetctl/app/options"
)

func testFleetState() *fleetv1.FleetState {
	return &fleetv1.FleetState{
		Tick:            42,
		FrozenState:     fleetv1.FrozenStateFrozen,
		ControllerState: fleetv1.ControllerStateEnabled,
		KingpinStates: []fleetv1.KingpinState{
			{IPAddress: "127.0.0.2", Name: "kp-2", ControllerState: fleetv1.ControllerStatePaused, Pose: fleetv1.Pose{X: 1.5, Y: -2}, Alive: true},
		},
	}
}

func TestPrintFleetState(t *testing.T) {
	tests := []struct {
		format string
		check  func(t *testing.T, out []byte)
	}{
		{options.OutputTable, func(t *testing.T, out []byte) {
			for _, want := range []string{"TICK", "42", "Frozen", "Enabled", "127.0.0.2", "kp-2", "Paused", "1.50", "-2.00"} {
				if !bytes.Contains(out, []byte(want)) {
					t.Errorf("table output missing %q:\n%s", want, out)
				}
			}
		}},
		{options.OutputJSON, func(t *testing.T, out []byte) {
			var s fleetv1.FleetState
			if err := json.Unmarshal(out, &s); err != nil || s.Tick != 42 || len(s.KingpinStates) != 1 {
				t.Errorf("json output = %s (%v)", out, err)
			}
		}},
		{options.OutputYAML, func(t *testing.T, out []byte) {
			var s fleetv1.FleetState
			body := strings.TrimPrefix(string(out), "---\n")
			if err := yaml.Unmarshal([]byte(body), &s); err != nil || s.KingpinStates[0].Name != "kp-2" {
				t.Errorf("yaml output = %s (%v)", out, err)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := printFleetState(&buf, testFleetState(), tt.format); err != nil {
				t.Fatalf("printFleetState() error = %v", err)
			}
			tt.check(t, buf.Bytes())
		})
	}
}
