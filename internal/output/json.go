package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dotcommander/dictascore/internal/analytics"
	"github.com/dotcommander/dictascore/internal/grading"
)

// JSONFormatter formats reports as JSON
type JSONFormatter struct {
	w          io.Writer
	indent     bool
	outputFile string
	now        func() time.Time
}

// NewJSONFormatter creates a new JSONFormatter
func NewJSONFormatter(w io.Writer, indent bool, outputFile string) *JSONFormatter {
	return &JSONFormatter{
		w:          w,
		indent:     indent,
		outputFile: outputFile,
		now:        time.Now,
	}
}

// JSONReport represents the complete JSON report structure
type JSONReport struct {
	Header       JSONHeader             `json:"header"`
	Summary      JSONSummary            `json:"summary"`
	Statistics   *analytics.Stats       `json:"statistics,omitempty"`
	Distribution analytics.Distribution `json:"distribution"`
	Breakdown    analytics.Breakdown    `json:"breakdown"`
	Suggestions  []analytics.Suggestion `json:"suggestions"`
	Sheets       []grading.SheetResult  `json:"sheets"`
}

// JSONHeader contains report metadata
type JSONHeader struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// JSONSummary contains summary statistics
type JSONSummary struct {
	TotalSheets     int    `json:"total_sheets"`
	GradedSheets    int    `json:"graded_sheets"`
	FailedSheets    int    `json:"failed_sheets"`
	AverageScore    int    `json:"average_score"`
	BaselineCreated string `json:"baseline_created,omitempty"`
	Duration        string `json:"duration"`
}

// Format writes the report as a single JSON document.
func (f *JSONFormatter) Format(report *grading.Report) error {
	doc := JSONReport{
		Header: JSONHeader{
			Tool:      "dictascore",
			Version:   Version,
			Timestamp: f.now().Format(time.RFC3339),
		},
		Summary: JSONSummary{
			TotalSheets:     report.TotalSheets,
			GradedSheets:    report.GradedSheets,
			FailedSheets:    report.FailedSheets,
			AverageScore:    report.AverageScore(),
			BaselineCreated: report.BaselineCreated,
			Duration:        report.Duration.Round(time.Millisecond).String(),
		},
		Statistics:   report.Statistics,
		Distribution: report.Distribution,
		Breakdown:    report.Breakdown,
		Suggestions:  report.Suggestions,
		Sheets:       report.Sheets,
	}
	if doc.Sheets == nil {
		doc.Sheets = []grading.SheetResult{}
	}

	data, err := marshal(doc, f.indent)
	if err != nil {
		return err
	}
	return writeOutput(f.w, f.outputFile, append(data, '\n'))
}

func marshal(v any, indent bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("error marshaling JSON: %w", err)
	}
	return data, nil
}
