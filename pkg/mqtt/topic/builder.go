package topic

import (
	"fmt"
	"strings"
)

// Topic segments published by the bridge. Consumers subscribe against these,
// so changing them breaks existing subscribers.
const (
	// SuffixAlarm carries enriched alarm records.
	// Structure: {root}/alarm/{systemNo}/{alarmTypeID}
	SuffixAlarm = "alarm"

	// SuffixStatus carries the retained bridge liveness flag.
	// Structure: {root}/status/{clientID}
	SuffixStatus = "status"

	// Wildcard is the single-level wildcard "+".
	Wildcard = "+"

	// MultiWildcard is the multi-level wildcard "#".
	MultiWildcard = "#"
)

// TopicBuilder encapsulates the logic for constructing MQTT topic strings.
type TopicBuilder struct {
	// root is the base namespace for all topics (e.g., "alarmbridge/v1").
	root string
}

// NewTopicBuilder creates a new instance of TopicBuilder with the specified root namespace.
func NewTopicBuilder(root string) *TopicBuilder {
	return &TopicBuilder{root: strings.TrimSuffix(root, "/")}
}

// Alarm returns the topic an alarm record of the given vehicle and type is published on.
func (b *TopicBuilder) Alarm(systemNo, alarmTypeID string) string {
	return fmt.Sprintf("%s/%s/%s/%s", b.root, SuffixAlarm, segment(systemNo), segment(alarmTypeID))
}

// AlarmWildcard returns the filter matching every alarm topic.
// Result: {root}/alarm/#
func (b *TopicBuilder) AlarmWildcard() string {
	return b.build(SuffixAlarm, MultiWildcard)
}

// Status returns the retained liveness topic of a bridge instance.
func (b *TopicBuilder) Status(clientID string) string {
	return b.build(SuffixStatus, segment(clientID))
}

// build constructs {root}/{suffix}/{identifier}.
func (b *TopicBuilder) build(suffix, id string) string {
	return fmt.Sprintf("%s/%s/%s", b.root, suffix, id)
}

// segment keeps a value from spilling into extra levels or acting as a wildcard.
func segment(s string) string {
	if s == "" {
		return "unknown"
	}
	return strings.NewReplacer("/", "_", "+", "_", "#", "_").Replace(s)
}
