package baseline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateBaseline(t *testing.T) {
	entries := []Entry{
		{Student: "Mina", Test: "Unit 3", Question: 1, Reference: "The quick brown fox.", Score: 73},
		{Student: "Mina", Test: "Unit 3", Question: 2, Reference: "I'm fine.", Score: 100, IsCorrect: true},
		// Same item again - last one wins
		{Student: "Mina", Test: "Unit 3", Question: 1, Reference: "The quick brown fox.", Score: 80},
	}

	baseline := CreateBaseline(entries)

	if baseline.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", baseline.Version)
	}
	if baseline.CreatedAt == "" {
		t.Error("CreatedAt should be set")
	}
	if baseline.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", baseline.Len())
	}

	prev, ok := baseline.Lookup(Entry{Student: "Mina", Test: "Unit 3", Question: 1, Reference: "The quick brown fox."})
	if !ok {
		t.Fatal("expected item 1 to be found")
	}
	if prev.Score != 80 {
		t.Errorf("Expected score 80, got %d", prev.Score)
	}
}

func TestLookup(t *testing.T) {
	b := CreateBaseline([]Entry{{Student: "Ana", Test: "T", Question: 3, Reference: "Hello  world", Score: 60}})

	tests := []struct {
		name  string
		entry Entry
		want  bool
	}{
		{"same item", Entry{Student: "Ana", Test: "T", Question: 3, Reference: "Hello  world"}, true},
		{"case and spacing ignored", Entry{Student: "ana", Test: "t", Question: 3, Reference: "hello world"}, true},
		{"score ignored", Entry{Student: "Ana", Test: "T", Question: 3, Reference: "Hello  world", Score: 99}, true},
		{"other question", Entry{Student: "Ana", Test: "T", Question: 4, Reference: "Hello  world"}, false},
		{"other student", Entry{Student: "Jun", Test: "T", Question: 3, Reference: "Hello  world"}, false},
		{"other reference", Entry{Student: "Ana", Test: "T", Question: 3, Reference: "Hello there"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, got := b.Lookup(tt.entry); got != tt.want {
				t.Errorf("Lookup() = %v, want %v", got, tt.want)
			}
		})
	}

	var nilBaseline *Baseline
	if _, ok := nilBaseline.Lookup(Entry{}); ok {
		t.Error("nil baseline should find nothing")
	}
	if nilBaseline.Len() != 0 {
		t.Error("nil baseline should be empty")
	}
}

func TestSaveAndLoadBaseline(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".dictascore-baseline.json")
	original := CreateBaseline([]Entry{
		{Student: "Ana", Test: "T", Question: 1, Reference: "One.", Score: 50},
		{Student: "Ana", Test: "T", Question: 2, Reference: "Two.", Score: 100, IsCorrect: true},
	})

	if err := original.SaveBaseline(path); err != nil {
		t.Fatalf("SaveBaseline() error = %v", err)
	}

	loaded, err := LoadBaseline(path)
	if err != nil {
		t.Fatalf("LoadBaseline() error = %v", err)
	}
	if loaded.Version != original.Version || loaded.CreatedAt != original.CreatedAt {
		t.Errorf("header mismatch: %+v vs %+v", loaded, original)
	}
	prev, ok := loaded.Lookup(Entry{Student: "Ana", Test: "T", Question: 2, Reference: "Two."})
	if !ok || prev.Score != 100 || !prev.IsCorrect {
		t.Errorf("Lookup after load = %+v, %v", prev, ok)
	}
}

func TestLoadBaselineErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadBaseline(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBaseline(bad); err == nil {
		t.Error("expected error for invalid JSON")
	}

	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte(`{"version": "1.0"}`), 0644); err != nil {
		t.Fatal(err)
	}
	b, err := LoadBaseline(empty)
	if err != nil {
		t.Fatalf("LoadBaseline() error = %v", err)
	}
	if b.Len() != 0 {
		t.Errorf("Expected empty baseline, got %d", b.Len())
	}
}

func TestFingerprintStable(t *testing.T) {
	e := Entry{Student: "Ana", Test: "T", Question: 1, Reference: "One."}
	if Fingerprint(e) != Fingerprint(e) {
		t.Error("fingerprint is not deterministic")
	}
	if len(Fingerprint(e)) != 64 {
		t.Errorf("expected sha256 hex, got %q", Fingerprint(e))
	}
}
