package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gosuri/uitable"
	"sigs.k8s.io/yaml"

	fleetv1 "github.com/autopeer-io/fleetclient/api/fleetmanager/v1"
	"github.com/autopeer-io/fleetclient/cmd/fleetctl/app/options"
)

// printFleetState writes s to w in the requested format.
func printFleetState(w io.Writer, s *fleetv1.FleetState, format string) error {
	switch format {
	case options.OutputJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case options.OutputYAML:
		data, err := yaml.Marshal(s)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "---\n%s", data)
		return err
	default:
		_, err := fmt.Fprintln(w, fleetTable(s))
		return err
	}
}

func fleetTable(s *fleetv1.FleetState) *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = 40

	table.AddRow("TICK", "FROZEN", "CONTROLLER", "KINGPINS")
	table.AddRow(s.Tick, s.FrozenState, s.ControllerState, len(s.KingpinStates))
	if len(s.KingpinStates) == 0 {
		return table
	}

	table.AddRow("")
	table.AddRow("ADDRESS", "NAME", "STATE", "X", "Y", "HEADING", "ALIVE")
	for _, k := range s.KingpinStates {
		table.AddRow(k.IPAddress, k.Name, k.ControllerState,
			fmt.Sprintf("%.2f", k.Pose.X), fmt.Sprintf("%.2f", k.Pose.Y), fmt.Sprintf("%.3f", k.Pose.Heading), k.Alive)
	}
	return table
}
