package data

import "testing"

func TestTrackingDataContext_RecordsAccesses(t *testing.T) {
	inner := NewMapDataContext(map[DependencyKey]any{
		DepPipVersion: "24.2",
	})
	tracked := NewTrackingDataContext(inner)

	if val, ok := tracked.Get(DepPipVersion); !ok || val != "24.2" {
		t.Fatalf("Get(DepPipVersion) = %v, %v", val, ok)
	}
	if _, ok := tracked.Get(DepInstalledPackages); ok {
		t.Fatalf("expected miss for absent key")
	}
	// Repeat reads must not duplicate entries.
	tracked.Get(DepPipVersion)

	keys := tracked.AccessedKeys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 accessed keys, got %v", keys)
	}
	if keys[0] != DepInstalledPackages || keys[1] != DepPipVersion {
		t.Fatalf("keys not sorted: %v", keys)
	}
}

func TestTrackingDataContext_NilInner(t *testing.T) {
	tracked := NewTrackingDataContext(nil)
	if _, ok := tracked.Get(DepPipVersion); ok {
		t.Fatalf("nil inner context must miss")
	}
	if len(tracked.AccessedKeys()) != 1 {
		t.Fatalf("access through nil inner must still be recorded")
	}
}
