package activity

import (
	"context"
	"testing"
)

func TestBuildConfigLinkedEventIncludesGroupMetadata(t *testing.T) {
	meta := map[string]any{"custom": "value"}
	input := ConfigEventInput{
		ActorID:   " actor ",
		ContextID: "web",
		PeerID:    "api",
		GroupID:   "group-1",
		Metadata:  meta,
	}

	event := BuildConfigLinkedEvent(input)

	if event.Verb != "config.linked" {
		t.Fatalf("expected verb config.linked got %s", event.Verb)
	}
	if event.ObjectType != ObjectTypeConfiguration || event.ObjectID != "web" {
		t.Fatalf("unexpected object fields: %+v", event)
	}
	if event.ActorID != "actor" {
		t.Fatalf("unexpected actor field: %+v", event)
	}
	if event.Metadata["peer_id"] != "api" {
		t.Fatalf("expected peer_id metadata, got %v", event.Metadata["peer_id"])
	}
	if event.Metadata["group_id"] != "group-1" {
		t.Fatalf("expected group_id metadata, got %v", event.Metadata["group_id"])
	}
	if event.Metadata["custom"] != "value" {
		t.Fatalf("expected caller metadata preserved, got %v", event.Metadata["custom"])
	}
	event.Metadata["custom"] = "changed"
	if meta["custom"] != "value" {
		t.Fatalf("expected input metadata untouched")
	}
}

func TestBuildConfigEventVerbs(t *testing.T) {
	cases := []struct {
		build func(ConfigEventInput) Event
		verb  string
	}{
		{BuildConfigCreatedEvent, "config.created"},
		{BuildConfigLinkedEvent, "config.linked"},
		{BuildConfigUnlinkedEvent, "config.unlinked"},
		{BuildConfigResolvedEvent, "config.resolved"},
	}
	for _, tc := range cases {
		event := tc.build(ConfigEventInput{ContextID: "web"})
		if event.Verb != tc.verb {
			t.Fatalf("expected verb %s got %s", tc.verb, event.Verb)
		}
		if event.OccurredAt.IsZero() {
			t.Fatalf("expected timestamp defaulted for %s", tc.verb)
		}
	}
}

func TestBuildConfigEventWithoutContextIDIsDropped(t *testing.T) {
	event := BuildConfigCreatedEvent(ConfigEventInput{})
	if event.ObjectID != "" {
		t.Fatalf("expected empty object id, got %q", event.ObjectID)
	}

	// Hooks refuse events without an object id, so a missing context id
	// never reaches a sink.
	capture := &CaptureHook{}
	if err := (Hooks{capture}).Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(capture.Captured()) != 0 {
		t.Fatalf("expected event dropped, got %d", len(capture.Captured()))
	}
}
