package topic

import (
	"fmt"
	"strings"
)

// Topic segments shared by the fleet relay and its consumers.
// Changing these values breaks existing consumers.
const (
	// SegmentFleet groups fleet-wide topics.
	SegmentFleet = "fleet"

	// SegmentKingpin groups per-vehicle topics.
	SegmentKingpin = "kingpin"

	// SuffixState carries the latest state, published retained.
	SuffixState = "state"

	// SegmentRelay groups topics about the relay itself.
	SegmentRelay = "relay"

	// SuffixStatus carries "online" or "offline", published retained.
	SuffixStatus = "status"

	// SuffixCommand carries operator commands towards the Fleet Manager.
	// Structure: {root}/fleet/command/{name}
	SuffixCommand = "command"

	// Wildcard matches exactly one topic level.
	Wildcard = "+"
)

// TopicBuilder constructs the MQTT topic strings used by the fleet relay.
type TopicBuilder struct {
	// root is the base namespace for all topics (e.g., "fleet/v1", "site-a/prod").
	root string
}

// NewTopicBuilder creates a new instance of TopicBuilder with the specified root namespace.
func NewTopicBuilder(root string) *TopicBuilder {
	return &TopicBuilder{root: strings.TrimSuffix(root, "/")}
}

// FleetState returns the topic of the fleet-wide snapshot.
// Result: {root}/fleet/state
func (b *TopicBuilder) FleetState() string {
	return b.build(SegmentFleet, SuffixState)
}

// KingpinState returns the topic of a single kingpin's state. Dots in IPv4
// addresses are kept; they are legal in MQTT topic levels.
// Result: {root}/kingpin/{address}/state
func (b *TopicBuilder) KingpinState(address string) string {
	return b.build(SegmentKingpin, address, SuffixState)
}

// KingpinStateWildcard matches the state topics of all kingpins.
// Result: {root}/kingpin/+/state
func (b *TopicBuilder) KingpinStateWildcard() string {
	return b.build(SegmentKingpin, Wildcard, SuffixState)
}

// RelayStatus returns the availability topic of the relay; its will message
// turns it "offline".
// Result: {root}/relay/status
func (b *TopicBuilder) RelayStatus() string {
	return b.build(SegmentRelay, SuffixStatus)
}

// Command returns the topic of a named fleet command.
// Result: {root}/fleet/command/{name}
func (b *TopicBuilder) Command(name string) string {
	return b.build(SegmentFleet, SuffixCommand, name)
}

// CommandWildcard matches every fleet command.
// Result: {root}/fleet/command/+
func (b *TopicBuilder) CommandWildcard() string {
	return b.Command(Wildcard)
}

// CommandName extracts {name} from a command topic.
func (b *TopicBuilder) CommandName(topic string) (string, bool) {
	prefix := b.build(SegmentFleet, SuffixCommand) + "/"
	name, ok := strings.CutPrefix(topic, prefix)
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}

func (b *TopicBuilder) build(levels ...string) string {
	if b.root == "" {
		return strings.Join(levels, "/")
	}
	return fmt.Sprintf("%s/%s", b.root, strings.Join(levels, "/"))
}
