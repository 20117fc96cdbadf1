// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/governance-assessor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// ragIcon returns a short marker for a RAG status
func ragIcon(rag types.RAGStatus) string {
	switch rag {
	case types.RAGRed:
		return "[R]"
	case types.RAGAmber:
		return "[A]"
	case types.RAGGreen:
		return "[G]"
	default:
		return "[-]"
	}
}

// PrintScoreSummary outputs the overall score, risk profile and per-standard scores.
func (p *Printer) PrintScoreSummary(projectName string, result *types.ScoreResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Project:  %s\n", projectName))
	sb.WriteString(fmt.Sprintf("Overall:  %.2f / 5 %s\n", result.OverallScore, ragIcon(result.OverallRAG)))
	rp := result.RiskProfile
	sb.WriteString(fmt.Sprintf("Risk:     %d high, %d medium, %d low, %d not assessed\n",
		rp.High, rp.Medium, rp.Low, rp.NotAssessed))

	if len(result.StandardScores) > 0 {
		sb.WriteString("\nStandards:\n")
		for _, s := range result.StandardScores {
			sb.WriteString(fmt.Sprintf("  %s %-28s %4.2f  %3.0f%%\n", ragIcon(s.RAGStatus), s.StandardName, s.Score, s.CompletionPercentage))
		}
	}

	p.printBox("ASSESSMENT SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecommendations outputs the top recommendations.
func (p *Printer) PrintRecommendations(recs []types.Recommendation) {
	if len(recs) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(recs), maxItemsToShow)
	for i := 0; i < count; i++ {
		rec := recs[i]
		sb.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, strings.ToUpper(string(rec.Priority)), rec.Title))
		sb.WriteString(fmt.Sprintf("   Effort: %s\n", rec.Effort))
	}
	if len(recs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more", len(recs)-maxItemsToShow))
	}

	p.printBox("RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCriticalGaps outputs the critical gaps grouped by standard.
func (p *Printer) PrintCriticalGaps(scores []types.StandardScore) {
	var sb strings.Builder
	total := 0
	for _, s := range scores {
		if len(s.CriticalGaps) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s:\n", s.StandardName))
		for _, gap := range s.CriticalGaps {
			sb.WriteString(fmt.Sprintf("  • %s\n", gap))
		}
		total += len(s.CriticalGaps)
	}
	if total == 0 {
		return
	}

	p.printBox(fmt.Sprintf("CRITICAL GAPS (%d)", total), strings.TrimSuffix(sb.String(), "\n"))
}
