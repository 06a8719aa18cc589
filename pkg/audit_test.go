package soaprouter

import "testing"

func TestNewAuditStoreReturnsNoopWithoutConfig(t *testing.T) {
	store, err := NewAuditStore(AuditConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.(NoopAuditStore); !ok {
		t.Fatalf("expected NoopAuditStore, got %T", store)
	}
	if err := store.Record(DispatchSample{}); err != nil {
		t.Fatalf("noop store should accept records silently: %v", err)
	}
}

func TestSQLAuditStorePlaceholderDialects(t *testing.T) {
	cases := map[string]string{
		"postgres":  "$1, $2",
		"sqlserver": "@p1, @p2",
		"mysql":     "?, ?",
		"sqlite3":   "?, ?",
	}
	for driver, want := range cases {
		s := &sqlAuditStore{driver: driver}
		if got := s.placeholders(2); got != want {
			t.Fatalf("driver %s: expected %q, got %q", driver, want, got)
		}
	}
}
