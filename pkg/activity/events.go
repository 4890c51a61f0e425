package activity

import "time"

// ObjectTypeConfiguration is the object type stamped on registry events.
const ObjectTypeConfiguration = "policy.configuration"

// ConfigEventInput describes the common fields for registry lifecycle events.
type ConfigEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	ContextID  string
	PeerID     string
	GroupID    string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildConfigCreatedEvent constructs a normalized event for configuration creation.
func BuildConfigCreatedEvent(input ConfigEventInput) Event {
	return buildConfigEvent("config.created", input)
}

// BuildConfigLinkedEvent constructs a normalized event for a link-group merge.
func BuildConfigLinkedEvent(input ConfigEventInput) Event {
	return buildConfigEvent("config.linked", input)
}

// BuildConfigUnlinkedEvent constructs a normalized event for a link-group detach.
func BuildConfigUnlinkedEvent(input ConfigEventInput) Event {
	return buildConfigEvent("config.unlinked", input)
}

// BuildConfigResolvedEvent constructs a normalized event for an active-context resolution.
func BuildConfigResolvedEvent(input ConfigEventInput) Event {
	return buildConfigEvent("config.resolved", input)
}

func buildConfigEvent(verb string, input ConfigEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.PeerID != "" {
		metadata = ensureMetadata(metadata)
		metadata["peer_id"] = input.PeerID
	}
	if input.GroupID != "" {
		metadata = ensureMetadata(metadata)
		metadata["group_id"] = input.GroupID
	}
	return NormalizeEvent(Event{
		Verb:       verb,
		ActorID:    input.ActorID,
		UserID:     input.UserID,
		TenantID:   input.TenantID,
		ObjectType: ObjectTypeConfiguration,
		ObjectID:   input.ContextID,
		Channel:    input.Channel,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	})
}

func ensureMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return map[string]any{}
	}
	return metadata
}
