package options

import "testing"

func TestFleetctlOptionsValidate(t *testing.T) {
	o := NewFleetctlOptions()
	if err := o.Validate(); err != nil {
		t.Fatalf("default options invalid: %v", err)
	}

	o.Output = "xml"
	o.FleetOptions.Port = 0
	if err := o.Validate(); err == nil {
		t.Error("Validate() accepted invalid options")
	}
}

func TestFleetctlOptionsFlags(t *testing.T) {
	fss := NewFleetctlOptions().Flags()
	for _, name := range []string{"fleet manager", "relay mqtt", "relay http", "log", "output"} {
		if _, ok := fss.FlagSets[name]; !ok {
			t.Errorf("missing flag section %q", name)
		}
	}
	if fss.FlagSet("fleet manager").Lookup("fleet.port") == nil {
		t.Error("--fleet.port not registered")
	}
}
