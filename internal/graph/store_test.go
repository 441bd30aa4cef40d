package graph

import (
	"context"
	"reflect"
	"testing"

	"lifeops/internal/models"
)

func TestMergeIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	facts := []models.Fact{
		{Entity: "Location", Value: "California"},
		{Entity: "Employment", Value: "Recently Employed"},
	}

	if err := store.Merge(ctx, "demo_user", facts); err != nil {
		t.Fatalf("first merge failed: %v", err)
	}
	first, err := store.AllFacts(ctx, "demo_user")
	if err != nil {
		t.Fatalf("read after first merge failed: %v", err)
	}

	if err := store.Merge(ctx, "demo_user", facts); err != nil {
		t.Fatalf("second merge failed: %v", err)
	}
	second, err := store.AllFacts(ctx, "demo_user")
	if err != nil {
		t.Fatalf("read after second merge failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("merging the same facts twice changed the stored state:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if len(second) != 2 {
		t.Errorf("expected 2 facts, got %d", len(second))
	}
}

func TestMergeLastWriteWins(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Merge(ctx, "demo_user", []models.Fact{{Entity: "Location", Value: "California"}}); err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if err := store.Merge(ctx, "demo_user", []models.Fact{{Entity: "Location", Value: "Texas"}}); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	facts, err := store.AllFacts(ctx, "demo_user")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(facts) != 1 {
		t.Fatalf("expected exactly one Location fact, got %d facts", len(facts))
	}
	if facts[0].Entity != "Location" || facts[0].Value != "Texas" {
		t.Errorf("expected {Location Texas}, got %+v", facts[0])
	}
}

func TestFactsAreScopedPerUser(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Merge(ctx, "alice", []models.Fact{{Entity: "Location", Value: "California"}})
	store.Merge(ctx, "bob", []models.Fact{{Entity: "Location", Value: "Texas"}})

	aliceFacts, _ := store.AllFacts(ctx, "alice")
	if len(aliceFacts) != 1 || aliceFacts[0].Value != "California" {
		t.Errorf("unexpected facts for alice: %+v", aliceFacts)
	}

	bobFacts, _ := store.AllFacts(ctx, "bob")
	if len(bobFacts) != 1 || bobFacts[0].Value != "Texas" {
		t.Errorf("unexpected facts for bob: %+v", bobFacts)
	}
}

func TestAllFactsDeterministicOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Merge(ctx, "demo_user", []models.Fact{
		{Entity: "Location", Value: "California"},
		{Entity: "Arrival", Value: "3 months ago"},
		{Entity: "Employment", Value: "Recently Employed"},
	})

	first, _ := store.AllFacts(ctx, "demo_user")
	for i := 0; i < 5; i++ {
		again, _ := store.AllFacts(ctx, "demo_user")
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("read order is not deterministic: %+v vs %+v", first, again)
		}
	}
}

func TestAllFactsUnknownUserIsEmpty(t *testing.T) {
	store := NewMemoryStore()

	facts, err := store.AllFacts(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(facts) != 0 {
		t.Errorf("expected no facts for unknown user, got %+v", facts)
	}
}
