package cue

import (
	"strings"
	"testing"
)

func loadedValidator(t *testing.T) *Validator {
	t.Helper()
	v := NewValidator()
	if err := v.LoadSchemas(); err != nil {
		t.Fatalf("LoadSchemas failed: %v", err)
	}
	return v
}

// TestNewValidator tests the Validator constructor
func TestNewValidator(t *testing.T) {
	v := NewValidator()
	if v == nil {
		t.Fatal("NewValidator returned nil")
	}
	if v.ctx == nil {
		t.Error("Validator.ctx is nil")
	}
	if len(v.schemas) != 0 {
		t.Errorf("Expected empty schemas map, got %d entries", len(v.schemas))
	}
}

// TestLoadSchemas tests loading embedded CUE schemas
func TestLoadSchemas(t *testing.T) {
	v := loadedValidator(t)
	for _, name := range []string{"config", "sheet"} {
		if _, ok := v.schemas[name]; !ok {
			t.Errorf("Expected schema %q to be loaded", name)
		}
	}
}

const validSheet = `student: Mina Park
studentId: s-042
test: Unit 3 dictation
difficulty: medium
items:
  - question: 1
    reference: The quick brown fox.
    answer: the quick brown fox
  - question: 2
    reference: I'm fine, thank you.
    answer: I am fine thank you
    difficulty: easy
    timeSpent: 42
  - question: 3
    reference: Please receive the package.
    answer:
`

func TestValidateSheet(t *testing.T) {
	v := loadedValidator(t)

	tests := []struct {
		name      string
		content   string
		wantError bool
		wantText  string
	}{
		{
			name:    "valid sheet",
			content: validSheet,
		},
		{
			name:    "valid json sheet",
			content: `{"student": "Ana", "items": [{"reference": "Hello world.", "answer": "hello world"}]}`,
		},
		{
			name:      "missing student",
			content:   "items:\n  - reference: Hello.\n",
			wantError: true,
			wantText:  "student",
		},
		{
			name:      "blank reference",
			content:   "student: Ana\nitems:\n  - reference: \"  \"\n",
			wantError: true,
			wantText:  "reference",
		},
		{
			name:      "no items",
			content:   "student: Ana\nitems: []\n",
			wantError: true,
			wantText:  "items",
		},
		{
			name:      "unknown difficulty",
			content:   "student: Ana\ndifficulty: extreme\nitems:\n  - reference: Hello.\n",
			wantError: true,
			wantText:  "difficulty",
		},
		{
			name:      "unknown field",
			content:   "student: Ana\nitems:\n  - reference: Hello.\n    answr: hello\n",
			wantError: true,
			wantText:  "answr",
		},
		{
			name:      "negative time",
			content:   "student: Ana\nitems:\n  - reference: Hello.\n    timeSpent: -3\n",
			wantError: true,
			wantText:  "timeSpent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tt.content))
			if err != nil {
				t.Fatalf("ParseDocument: %v", err)
			}
			issues, err := v.ValidateSheet("sheet.dictation.yaml", doc)
			if err != nil {
				t.Fatalf("ValidateSheet: %v", err)
			}
			if tt.wantError != (len(issues) > 0) {
				t.Fatalf("wantError=%v, got issues %v", tt.wantError, issues)
			}
			if !tt.wantError {
				return
			}
			found := false
			for _, is := range issues {
				if is.File != "sheet.dictation.yaml" {
					t.Errorf("issue file = %q", is.File)
				}
				if is.Severity != "error" {
					t.Errorf("issue severity = %q", is.Severity)
				}
				if strings.Contains(is.Message, tt.wantText) {
					found = true
				}
			}
			if !found {
				t.Errorf("no issue mentions %q: %v", tt.wantText, issues)
			}
		})
	}
}

func TestValidateSheetReportsLine(t *testing.T) {
	v := loadedValidator(t)
	content := "student: Ana\nitems:\n  - reference: Hello.\n  - reference: Bye.\n    difficulty: extreme\n"
	doc, err := ParseDocument([]byte(content))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	issues, err := v.ValidateSheet("s.yaml", doc)
	if err != nil {
		t.Fatalf("ValidateSheet: %v", err)
	}
	for _, is := range issues {
		if is.Line == 5 {
			return
		}
	}
	t.Errorf("expected an issue on line 5, got %v", issues)
}

type testConfig struct {
	Format      string `json:"format"`
	Concurrency int    `json:"concurrency"`
	Log         struct {
		Level  string `json:"level"`
		Format string `json:"format"`
	} `json:"log"`
}

func TestValidateConfig(t *testing.T) {
	v := loadedValidator(t)

	good := testConfig{Format: "json", Concurrency: 4}
	good.Log.Level = "info"
	good.Log.Format = "text"
	issues, err := v.ValidateConfig(good)
	if err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}

	bad := good
	bad.Format = "xml"
	bad.Concurrency = 0
	issues, err = v.ValidateConfig(bad)
	if err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
	if len(issues) < 2 {
		t.Errorf("expected format and concurrency issues, got %v", issues)
	}

	issues, err = v.ValidateConfig(map[string]any{"scoring": map[string]any{"caseSensitive": true}, "verbose": true})
	if err != nil {
		t.Fatalf("ValidateConfig map: %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("expected no issues for map config, got %v", issues)
	}
}

func TestValidateWithoutSchemas(t *testing.T) {
	v := NewValidator()
	if _, err := v.ValidateConfig(map[string]any{}); err == nil {
		t.Error("expected error when schemas are not loaded")
	}
}
