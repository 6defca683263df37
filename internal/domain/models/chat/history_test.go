package chat

import (
	"testing"
	"time"
)

func TestMergeHistory_SortsByCreationTime(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	versions := []Message{
		{ID: "m1", Content: "reply v1", Role: RoleAssistant, Version: 1, CreatedAt: base.Add(1 * time.Minute)},
		{ID: "m2", Content: "reply v2", Role: RoleAssistant, Version: 2, CreatedAt: base.Add(5 * time.Minute)},
	}
	prompts := []Prompt{
		{ID: "p1", MessageID: "u1", Content: "original", CreatedAt: base},
		{ID: "p2", MessageID: "u1", Content: "edited", CreatedAt: base.Add(4 * time.Minute)},
	}

	entries := MergeHistory(versions, prompts)
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	wantOrder := []string{"original", "reply v1", "edited", "reply v2"}
	for i, want := range wantOrder {
		if entries[i].Content != want {
			t.Errorf("entry %d: expected %q, got %q", i, want, entries[i].Content)
		}
	}
}

func TestMergeHistory_TaggedUnionShape(t *testing.T) {
	now := time.Now().UTC()

	entries := MergeHistory(
		[]Message{{ID: "m1", Content: "reply", Role: RoleAssistant, Version: 3, CreatedAt: now}},
		[]Prompt{{ID: "p1", MessageID: "u1", Content: "asked", CreatedAt: now}},
	)

	for _, e := range entries {
		switch e.Kind {
		case EntryKindMessage:
			if e.Message == nil || e.Prompt != nil {
				t.Error("message entry should carry only the message record")
			}
			if e.Version != 3 {
				t.Errorf("expected version carried through, got %d", e.Version)
			}
		case EntryKindPrompt:
			if e.Prompt == nil || e.Message != nil {
				t.Error("prompt entry should carry only the prompt record")
			}
		default:
			t.Errorf("unexpected kind %q", e.Kind)
		}
	}
}

func TestMergeHistory_StableForEqualTimestamps(t *testing.T) {
	now := time.Now().UTC()

	entries := MergeHistory(
		[]Message{{ID: "m1", Content: "reply", CreatedAt: now}},
		[]Prompt{{ID: "p1", Content: "asked", CreatedAt: now}},
	)

	if entries[0].Kind != EntryKindMessage || entries[1].Kind != EntryKindPrompt {
		t.Error("expected messages before prompts for equal timestamps")
	}
}

func TestMergeHistory_Empty(t *testing.T) {
	entries := MergeHistory(nil, nil)
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}
