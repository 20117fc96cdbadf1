package report

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/jonathan/governance-assessor/internal/types"
)

// Format selects the report output format
type Format string

// Supported report formats
const (
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
)

//go:embed assessment.md.tmpl
var markdownTemplate string

// ParseFormat resolves a user-supplied format name
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", &ReportError{Message: fmt.Sprintf("unsupported format %q", name)}
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "text/markdown; charset=utf-8"
}

// Extension returns the file extension of the format
func (f Format) Extension() string {
	if f == FormatCSV {
		return ".csv"
	}
	return ".md"
}

// TemplateData is the data passed to the Markdown template
type TemplateData struct {
	ProjectName string
	Description string
	GeneratedAt string
	Result      *types.ScoreResult
}

// Render renders the scored project in the requested format
func Render(format Format, project *types.Project, result *types.ScoreResult, generatedAt time.Time) ([]byte, error) {
	if project == nil || result == nil {
		return nil, &ReportError{Message: "project and result are required"}
	}

	switch format {
	case FormatMarkdown:
		return RenderMarkdown(project, result, generatedAt)
	case FormatCSV:
		return RenderCSV(result)
	default:
		return nil, &ReportError{Message: fmt.Sprintf("unsupported format %q", format)}
	}
}

// RenderMarkdown renders the assessment summary as Markdown
func RenderMarkdown(project *types.Project, result *types.ScoreResult, generatedAt time.Time) ([]byte, error) {
	tmpl, err := template.New("assessment").Funcs(template.FuncMap{
		"score":   func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
		"percent": func(v float64) string { return strconv.FormatFloat(v, 'f', 0, 64) + "%" },
		"rag":     ragLabel,
		"cell":    escapeCell,
	}).Parse(markdownTemplate)
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse markdown template", Cause: err}
	}

	data := TemplateData{
		ProjectName: project.Name,
		Description: project.Description,
		GeneratedAt: generatedAt.UTC().Format("2006-01-02 15:04 UTC"),
		Result:      result,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, &TemplateError{Message: "failed to execute markdown template", Cause: err}
	}
	return buf.Bytes(), nil
}

// RenderCSV renders one row per standard, suitable for spreadsheet import
func RenderCSV(result *types.ScoreResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{{"standard", "score", "rag_status", "completion_percentage", "critical_gaps"}}
	for _, s := range result.StandardScores {
		rows = append(rows, []string{
			s.StandardName,
			strconv.FormatFloat(s.Score, 'f', 2, 64),
			string(s.RAGStatus),
			strconv.FormatFloat(s.CompletionPercentage, 'f', 2, 64),
			strings.Join(s.CriticalGaps, "; "),
		})
	}
	rows = append(rows, []string{
		"OVERALL",
		strconv.FormatFloat(result.OverallScore, 'f', 2, 64),
		string(result.OverallRAG),
		"",
		"",
	})

	if err := w.WriteAll(rows); err != nil {
		return nil, &ReportError{Message: "failed to write CSV", Cause: err}
	}
	return buf.Bytes(), nil
}

func ragLabel(rag types.RAGStatus) string {
	switch rag {
	case types.RAGRed:
		return "RED"
	case types.RAGAmber:
		return "AMBER"
	case types.RAGGreen:
		return "GREEN"
	case types.RAGNotApplicable:
		return "N/A"
	default:
		return "NOT ASSESSED"
	}
}

// escapeCell keeps user text from breaking Markdown table rows
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
