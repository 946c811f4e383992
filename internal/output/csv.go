package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dotcommander/dictascore/internal/grading"
)

// CSVHeader names the columns of the detailed CSV export.
var CSVHeader = []string{
	"file", "student", "student_id", "test", "question", "difficulty",
	"reference", "answer", "answered", "score", "correct", "feedback", "final_score",
}

// CSVFormatter writes one row per graded item. Sheets that failed
// validation contribute no rows.
type CSVFormatter struct {
	w          io.Writer
	outputFile string
}

// NewCSVFormatter creates a new CSVFormatter
func NewCSVFormatter(w io.Writer, outputFile string) *CSVFormatter {
	return &CSVFormatter{w: w, outputFile: outputFile}
}

// Format writes the header and the item rows.
func (f *CSVFormatter) Format(report *grading.Report) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	for _, s := range report.Sheets {
		if !s.Graded() {
			continue
		}
		for _, it := range s.Items {
			row := []string{
				s.File,
				s.Student,
				s.StudentID,
				s.Test,
				strconv.Itoa(it.Question),
				string(it.Difficulty),
				it.Reference,
				it.Answer,
				strconv.FormatBool(it.Answered),
				strconv.Itoa(it.Result.Score),
				strconv.FormatBool(it.Result.IsCorrect),
				it.Result.Feedback,
				strconv.Itoa(s.FinalScore),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("error writing CSV: %w", err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return writeOutput(f.w, f.outputFile, buf.Bytes())
}
