package outputters

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dotcommander/dictascore/internal/config"
	"github.com/dotcommander/dictascore/internal/grading"
)

type mockFormatter struct {
	formatCalled bool
	formatError  error
	report       *grading.Report
}

func (m *mockFormatter) Format(report *grading.Report) error {
	m.formatCalled = true
	m.report = report
	return m.formatError
}

type mockFormatterFactory struct {
	createCalled    bool
	requestedFormat string
	formatter       Formatter
	createError     error
}

func (m *mockFormatterFactory) CreateFormatter(format string) (Formatter, error) {
	m.createCalled = true
	m.requestedFormat = format
	if m.createError != nil {
		return nil, m.createError
	}
	return m.formatter, nil
}

func TestNewOutputter(t *testing.T) {
	cfg := &config.Config{Root: "/test/root", Format: "console"}

	outputter := NewOutputter(cfg)

	if outputter.config != cfg {
		t.Errorf("NewOutputter() config = %v, want %v", outputter.config, cfg)
	}
	if _, ok := outputter.factory.(*DefaultFormatterFactory); !ok {
		t.Errorf("NewOutputter() factory type = %T, want *DefaultFormatterFactory", outputter.factory)
	}
}

func TestOutputter_Format_Success(t *testing.T) {
	mockForm := &mockFormatter{}
	mockFactory := &mockFormatterFactory{formatter: mockForm}
	outputter := NewOutputterWithFactory(&config.Config{}, mockFactory)

	report := grading.NewReport(nil)
	if err := outputter.Format(report, "csv"); err != nil {
		t.Errorf("Format() error = %v, want nil", err)
	}
	if mockFactory.requestedFormat != "csv" {
		t.Errorf("Format() requested format = %s, want 'csv'", mockFactory.requestedFormat)
	}
	if mockForm.report != report {
		t.Error("Format() passed wrong report to formatter")
	}
}

func TestOutputter_Format_StartTime(t *testing.T) {
	outputter := NewOutputterWithFactory(&config.Config{}, &mockFormatterFactory{formatter: &mockFormatter{}})

	report := grading.NewReport(nil)
	before := time.Now()
	if err := outputter.Format(report, "json"); err != nil {
		t.Fatal(err)
	}
	if report.StartTime.Before(before) {
		t.Errorf("Format() StartTime = %v, want after %v", report.StartTime, before)
	}

	existing := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	report.StartTime = existing
	if err := outputter.Format(report, "json"); err != nil {
		t.Fatal(err)
	}
	if !report.StartTime.Equal(existing) {
		t.Errorf("Format() changed StartTime from %v to %v", existing, report.StartTime)
	}
}

func TestOutputter_Format_Errors(t *testing.T) {
	createErr := errors.New("unsupported format: invalid")
	outputter := NewOutputterWithFactory(&config.Config{}, &mockFormatterFactory{createError: createErr})
	if err := outputter.Format(grading.NewReport(nil), "invalid"); !errors.Is(err, createErr) {
		t.Errorf("Format() error = %v, want %v", err, createErr)
	}

	formatErr := errors.New("formatter failed")
	mockForm := &mockFormatter{formatError: formatErr}
	outputter = NewOutputterWithFactory(&config.Config{}, &mockFormatterFactory{formatter: mockForm})
	if err := outputter.Format(grading.NewReport(nil), "console"); !errors.Is(err, formatErr) {
		t.Errorf("Format() error = %v, want %v", err, formatErr)
	}
	if !mockForm.formatCalled {
		t.Error("Format() did not call formatter.Format()")
	}
}

func TestDefaultFormatterFactory_CreateFormatter(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"console", "0/0 sheets graded"},
		{"json", `"tool": "dictascore"`},
		{"markdown", "# Dictation Report"},
		{"csv", "file,student"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			factory := NewDefaultFormatterFactory(&config.Config{}).WithWriter(&buf)
			formatter, err := factory.CreateFormatter(tt.format)
			if err != nil {
				t.Fatalf("CreateFormatter(%q) error = %v", tt.format, err)
			}
			if err := formatter.Format(grading.NewReport(nil)); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %q does not contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestDefaultFormatterFactory_CreateFormatter_Unsupported(t *testing.T) {
	formatter, err := NewDefaultFormatterFactory(&config.Config{}).CreateFormatter("xml")
	if err == nil {
		t.Fatal("CreateFormatter('xml') error = nil, want error")
	}
	if formatter != nil {
		t.Errorf("CreateFormatter('xml') formatter = %v, want nil", formatter)
	}
	if !strings.Contains(err.Error(), "unsupported format: xml") {
		t.Errorf("unexpected error: %v", err)
	}
}
