package formatters

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"resumeforge/internal/document"
	"resumeforge/internal/tailor"
	"resumeforge/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// Data type keys used by the registry
const (
	TypeAny       = "any"
	TypeScore     = "ScoreReport"
	TypeTailor    = "TailorOutput"
	TypeSections  = "Sections"
	TypeMultiJob  = "MultiJobAnalysis"
	unknownMarker = "(none)"
)

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// GlobalRegistry is the registry used by the CLI
var GlobalRegistry = NewFormatterRegistry()

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", TypeAny, &JSONFormatter{})
	registry.RegisterFormatter("text", TypeScore, &ScoreTextFormatter{})
	registry.RegisterFormatter("markdown", TypeScore, &ScoreMarkdownFormatter{})
	registry.RegisterFormatter("text", TypeTailor, &TailorTextFormatter{})
	registry.RegisterFormatter("markdown", TypeTailor, &TailorMarkdownFormatter{})
	registry.RegisterFormatter("text", TypeSections, &SectionsTextFormatter{})
	registry.RegisterFormatter("markdown", TypeSections, &SectionsMarkdownFormatter{})
	registry.RegisterFormatter("text", TypeMultiJob, &MultiJobTextFormatter{})
	registry.RegisterFormatter("markdown", TypeMultiJob, &MultiJobMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters[TypeAny]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	return slices.Sorted(maps.Keys(fr.formatters))
}

func getDataType(data any) string {
	switch data.(type) {
	case *tailor.ScoreReport:
		return TypeScore
	case *types.TailorOutput:
		return TypeTailor
	case []document.Section:
		return TypeSections
	case *types.MultiJobAnalysis:
		return TypeMultiJob
	default:
		return TypeAny
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return TypeAny
}

// breakdownLines renders a score breakdown in a stable order, overall last
func breakdownLines(breakdown map[string]int, line func(name string, value int) string) string {
	var b strings.Builder
	for _, name := range slices.Sorted(maps.Keys(breakdown)) {
		if name == "overall" {
			continue
		}
		b.WriteString(line(name, breakdown[name]))
	}
	return b.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return unknownMarker
	}
	return strings.Join(items, ", ")
}

// ScoreTextFormatter handles text formatting for score reports
type ScoreTextFormatter struct{}

func (f *ScoreTextFormatter) Format(data any) (string, error) {
	report, ok := data.(*tailor.ScoreReport)
	if !ok {
		return "", fmt.Errorf("expected *tailor.ScoreReport, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== ATS SCORE ===\n")
	fmt.Fprintf(&output, "Method: %s\n", report.Method)
	fmt.Fprintf(&output, "Overall: %d/100\n\n", report.Overall)

	output.WriteString("Breakdown:\n")
	output.WriteString(breakdownLines(report.Scores, func(name string, value int) string {
		return fmt.Sprintf("  %-18s %3d\n", name, value)
	}))
	output.WriteString("\n")

	fmt.Fprintf(&output, "Matched keywords: %s\n", joinOrNone(report.MatchedKeywords))
	fmt.Fprintf(&output, "Missing keywords: %s\n", joinOrNone(report.MissingKeywords))
	if report.KeywordsDegraded {
		output.WriteString("\nNote: keywords were extracted without the AI provider.\n")
	}
	return output.String(), nil
}

func (f *ScoreTextFormatter) SupportedType() string {
	return TypeScore
}

// ScoreMarkdownFormatter handles markdown formatting for score reports
type ScoreMarkdownFormatter struct{}

func (f *ScoreMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(*tailor.ScoreReport)
	if !ok {
		return "", fmt.Errorf("expected *tailor.ScoreReport, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# ATS Score\n\n")
	fmt.Fprintf(&output, "**Method:** %s  \n", report.Method)
	fmt.Fprintf(&output, "**Overall:** %d/100\n\n", report.Overall)

	output.WriteString("| Component | Score |\n|---|---|\n")
	output.WriteString(breakdownLines(report.Scores, func(name string, value int) string {
		return fmt.Sprintf("| %s | %d |\n", name, value)
	}))
	output.WriteString("\n")

	fmt.Fprintf(&output, "## Matched keywords\n\n%s\n\n", joinOrNone(report.MatchedKeywords))
	fmt.Fprintf(&output, "## Missing keywords\n\n%s\n", joinOrNone(report.MissingKeywords))
	if report.KeywordsDegraded {
		output.WriteString("\n> Keywords were extracted without the AI provider.\n")
	}
	return output.String(), nil
}

func (f *ScoreMarkdownFormatter) SupportedType() string {
	return TypeScore
}

// TailorTextFormatter handles text formatting for tailor results
type TailorTextFormatter struct{}

func (f *TailorTextFormatter) Format(data any) (string, error) {
	result, ok := data.(*types.TailorOutput)
	if !ok {
		return "", fmt.Errorf("expected *types.TailorOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== TAILORED RESUME ===\n\n")
	output.WriteString(result.TailoredContent)
	output.WriteString("\n\n")

	output.WriteString("=== ATS ANALYSIS ===\n")
	fmt.Fprintf(&output, "Method: %s\n", result.ScoringMethod)
	fmt.Fprintf(&output, "Score: %d/100\n", result.ATSScore)
	if len(result.Breakdown) > 0 {
		output.WriteString(breakdownLines(result.Breakdown, func(name string, value int) string {
			return fmt.Sprintf("  %-18s %3d\n", name, value)
		}))
	}
	output.WriteString("\n")

	fmt.Fprintf(&output, "Keywords: %s\n", joinOrNone(result.Keywords))
	fmt.Fprintf(&output, "Keyword matches: %s\n", joinOrNone(result.KeywordMatches))

	if len(result.Improvements) > 0 {
		output.WriteString("\n=== IMPROVEMENTS ===\n")
		for i, imp := range result.Improvements {
			fmt.Fprintf(&output, "%d. [%s] %s\n", i+1, imp.Section, imp.Reasoning)
			if imp.Before != "" {
				fmt.Fprintf(&output, "   Before: %s\n", imp.Before)
			}
			if imp.After != "" {
				fmt.Fprintf(&output, "   After:  %s\n", imp.After)
			}
		}
	}
	if result.Degraded {
		output.WriteString("\nNote: the AI provider was unavailable; this is a degraded result.\n")
	}
	return output.String(), nil
}

func (f *TailorTextFormatter) SupportedType() string {
	return TypeTailor
}

// TailorMarkdownFormatter handles markdown formatting for tailor results
type TailorMarkdownFormatter struct{}

func (f *TailorMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(*types.TailorOutput)
	if !ok {
		return "", fmt.Errorf("expected *types.TailorOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Tailored Resume\n\n")
	output.WriteString(result.TailoredContent)
	output.WriteString("\n\n")

	output.WriteString("## ATS Analysis\n\n")
	fmt.Fprintf(&output, "**Method:** %s  \n", result.ScoringMethod)
	fmt.Fprintf(&output, "**Score:** %d/100\n\n", result.ATSScore)
	if len(result.Breakdown) > 0 {
		output.WriteString("| Component | Score |\n|---|---|\n")
		output.WriteString(breakdownLines(result.Breakdown, func(name string, value int) string {
			return fmt.Sprintf("| %s | %d |\n", name, value)
		}))
		output.WriteString("\n")
	}

	fmt.Fprintf(&output, "**Keywords:** %s\n\n", joinOrNone(result.Keywords))

	if len(result.Improvements) > 0 {
		output.WriteString("## Improvements\n\n")
		for _, imp := range result.Improvements {
			fmt.Fprintf(&output, "### %s\n\n", imp.Section)
			if imp.Before != "" {
				fmt.Fprintf(&output, "- **Before:** %s\n", imp.Before)
			}
			if imp.After != "" {
				fmt.Fprintf(&output, "- **After:** %s\n", imp.After)
			}
			fmt.Fprintf(&output, "- **Why:** %s\n\n", imp.Reasoning)
		}
	}
	if result.Degraded {
		output.WriteString("> The AI provider was unavailable; this is a degraded result.\n")
	}
	return output.String(), nil
}

func (f *TailorMarkdownFormatter) SupportedType() string {
	return TypeTailor
}

// SectionsTextFormatter prints parsed résumé sections
type SectionsTextFormatter struct{}

func (f *SectionsTextFormatter) Format(data any) (string, error) {
	sections, ok := data.([]document.Section)
	if !ok {
		return "", fmt.Errorf("expected []document.Section, got %T", data)
	}

	var output strings.Builder
	for i, section := range sections {
		if i > 0 {
			output.WriteString("\n")
		}
		fmt.Fprintf(&output, "=== %s ===\n", section.Title)
		for _, line := range section.Content {
			switch {
			case strings.HasPrefix(line, document.SubsectionMarker):
				fmt.Fprintf(&output, "%s\n", strings.TrimPrefix(line, document.SubsectionMarker))
			case strings.HasPrefix(line, document.ContentMarker):
				fmt.Fprintf(&output, "    %s\n", strings.TrimPrefix(line, document.ContentMarker))
			default:
				fmt.Fprintf(&output, "  %s\n", line)
			}
		}
	}
	return output.String(), nil
}

func (f *SectionsTextFormatter) SupportedType() string {
	return TypeSections
}

// SectionsMarkdownFormatter prints parsed résumé sections as markdown
type SectionsMarkdownFormatter struct{}

func (f *SectionsMarkdownFormatter) Format(data any) (string, error) {
	sections, ok := data.([]document.Section)
	if !ok {
		return "", fmt.Errorf("expected []document.Section, got %T", data)
	}

	var output strings.Builder
	for _, section := range sections {
		fmt.Fprintf(&output, "## %s\n\n", section.Title)
		for _, line := range section.Content {
			switch {
			case strings.HasPrefix(line, document.SubsectionMarker):
				fmt.Fprintf(&output, "\n**%s**\n\n", strings.TrimPrefix(line, document.SubsectionMarker))
			case strings.HasPrefix(line, document.ContentMarker):
				fmt.Fprintf(&output, "- %s\n", strings.TrimPrefix(line, document.ContentMarker))
			default:
				fmt.Fprintf(&output, "- %s\n", line)
			}
		}
		output.WriteString("\n")
	}
	return output.String(), nil
}

func (f *SectionsMarkdownFormatter) SupportedType() string {
	return TypeSections
}

// MultiJobTextFormatter handles text formatting for multi-job analyses
type MultiJobTextFormatter struct{}

func (f *MultiJobTextFormatter) Format(data any) (string, error) {
	analysis, ok := data.(*types.MultiJobAnalysis)
	if !ok {
		return "", fmt.Errorf("expected *types.MultiJobAnalysis, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== MULTI-JOB ANALYSIS ===\n\n")
	fmt.Fprintf(&output, "Common keywords: %s\n\n", joinOrNone(analysis.CommonKeywords))
	output.WriteString("Master optimization:\n")
	output.WriteString(analysis.MasterOptimization)
	output.WriteString("\n\n")
	for _, insight := range analysis.JobSpecificInsights {
		fmt.Fprintf(&output, "- %s (match %d/100): %s\n", insight.Title, insight.MatchScore, joinOrNone(insight.UniqueKeywords))
	}
	if analysis.Degraded {
		output.WriteString("\nNote: the AI provider was unavailable; this is a degraded result.\n")
	}
	return output.String(), nil
}

func (f *MultiJobTextFormatter) SupportedType() string {
	return TypeMultiJob
}

// MultiJobMarkdownFormatter handles markdown formatting for multi-job analyses
type MultiJobMarkdownFormatter struct{}

func (f *MultiJobMarkdownFormatter) Format(data any) (string, error) {
	analysis, ok := data.(*types.MultiJobAnalysis)
	if !ok {
		return "", fmt.Errorf("expected *types.MultiJobAnalysis, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Multi-Job Analysis\n\n")
	fmt.Fprintf(&output, "**Common keywords:** %s\n\n", joinOrNone(analysis.CommonKeywords))
	output.WriteString("## Master Optimization\n\n")
	output.WriteString(analysis.MasterOptimization)
	output.WriteString("\n\n## Jobs\n\n| Title | Match | Unique keywords |\n|---|---|---|\n")
	for _, insight := range analysis.JobSpecificInsights {
		fmt.Fprintf(&output, "| %s | %d | %s |\n", insight.Title, insight.MatchScore, joinOrNone(insight.UniqueKeywords))
	}
	if analysis.Degraded {
		output.WriteString("\n> The AI provider was unavailable; this is a degraded result.\n")
	}
	return output.String(), nil
}

func (f *MultiJobMarkdownFormatter) SupportedType() string {
	return TypeMultiJob
}
