package cue

import (
	"embed"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/dotcommander/dictascore/internal/types"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// Schema definitions.
const (
	DefConfig = "#Config"
	DefSheet  = "#Sheet"
)

// Validator handles CUE validation. A cue.Context is not safe for concurrent
// use, so every validation holds mu.
type Validator struct {
	mu      sync.Mutex
	ctx     *cue.Context
	schemas map[string]cue.Value
}

// NewValidator creates a Validator with no schemas loaded.
func NewValidator() *Validator {
	return &Validator{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}
}

// LoadSchemas compiles every embedded .cue file. Schemas are keyed by base
// name (sheet.cue -> sheet).
func (v *Validator) LoadSchemas() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return fmt.Errorf("read embedded schemas: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".cue" {
			continue
		}
		content, err := schemaFS.ReadFile("schemas/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read schema %s: %w", entry.Name(), err)
		}
		inst := v.ctx.CompileBytes(content, cue.Filename(entry.Name()))
		if err := inst.Err(); err != nil {
			return fmt.Errorf("compile schema %s: %w", entry.Name(), err)
		}
		v.schemas[strings.TrimSuffix(entry.Name(), ".cue")] = inst
	}

	if len(v.schemas) == 0 {
		return fmt.Errorf("no CUE schemas embedded")
	}
	return nil
}

// ValidateConfig checks a config value (struct or map) against #Config.
func (v *Validator) ValidateConfig(cfg any) ([]types.ValidationError, error) {
	return v.validate("config", DefConfig, cfg, "", nil)
}

// ValidateSheet checks a parsed answer sheet against #Sheet. Issues carry
// the line of the offending node when it can be located.
func (v *Validator) ValidateSheet(file string, doc *Document) ([]types.ValidationError, error) {
	return v.validate("sheet", DefSheet, doc.Data, file, doc)
}

func (v *Validator) validate(schemaName, def string, data any, file string, doc *Document) ([]types.ValidationError, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	schema, ok := v.schemas[schemaName]
	if !ok {
		return nil, fmt.Errorf("schema %q not loaded", schemaName)
	}
	defValue := schema.LookupPath(cue.ParsePath(def))
	if !defValue.Exists() {
		return nil, fmt.Errorf("schema %q has no %s definition", schemaName, def)
	}

	dataValue := v.ctx.Encode(data)
	if err := dataValue.Err(); err != nil {
		return nil, fmt.Errorf("encode %s data: %w", schemaName, err)
	}

	unified := defValue.Unify(dataValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return extractErrors(err, file, doc), nil
	}
	return nil, nil
}

// extractErrors turns CUE errors into one ValidationError per distinct
// path and message.
func extractErrors(err error, file string, doc *Document) []types.ValidationError {
	var out []types.ValidationError
	seen := make(map[string]bool)
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		path := dataPath(e.Path())
		if len(path) > 0 {
			msg = strings.Join(path, ".") + ": " + msg
		}
		if seen[msg] {
			continue
		}
		seen[msg] = true

		ve := types.ValidationError{
			File:     file,
			Message:  "schema: " + msg,
			Severity: types.SeverityError,
		}
		if doc != nil {
			ve.Line = doc.Line(path)
		}
		out = append(out, ve)
	}
	if len(out) == 0 {
		out = append(out, types.ValidationError{
			File:     file,
			Message:  fmt.Sprintf("schema validation failed: %v", err),
			Severity: types.SeverityError,
		})
	}
	return out
}

// dataPath drops definition selectors so the path addresses the data.
func dataPath(path []string) []string {
	out := make([]string, 0, len(path))
	for _, p := range path {
		if strings.HasPrefix(p, "#") {
			continue
		}
		out = append(out, p)
	}
	return out
}
