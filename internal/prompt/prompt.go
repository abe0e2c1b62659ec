// Package prompt assembles the instructions sent to the model.
package prompt

import (
	"fmt"
	"strings"

	"policyaudit/internal/model"
	"policyaudit/internal/schema"
)

// PageMarker returns the delimiter placed before a page's text.
func PageMarker(pageNumber int) string {
	return fmt.Sprintf("=== Page %d ===", pageNumber)
}

// RenderPages concatenates page texts in the given order, each prefixed by its marker.
func RenderPages(pages []model.ExtractedPage) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		parts = append(parts, PageMarker(p.PageNumber)+"\n"+p.Content)
	}
	return strings.Join(parts, "\n\n")
}

// NormalizeFrameworks trims names, drops blanks and removes duplicates while
// keeping first-seen order.
func NormalizeFrameworks(frameworks []string) []string {
	out := make([]string, 0, len(frameworks))
	seen := make(map[string]struct{}, len(frameworks))
	for _, f := range frameworks {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func scopeInstruction(frameworks []string) string {
	if len(frameworks) == 0 {
		return "No specific framework was selected. Use your general compliance judgment and widely accepted data protection and information security practice."
	}
	return fmt.Sprintf(
		"Review the document ONLY against the following compliance frameworks: %s. Do not report findings that belong to any other framework.",
		strings.Join(frameworks, ", "),
	)
}

// BuildAnalysisPrompt builds the document analysis instruction.
func BuildAnalysisPrompt(req model.AnalysisRequest) string {
	frameworks := NormalizeFrameworks(req.Frameworks)

	var b strings.Builder
	b.WriteString("You are a compliance expert analyzing a policy document")
	if len(frameworks) > 0 {
		b.WriteString(" against ")
		b.WriteString(strings.Join(frameworks, ", "))
	}
	b.WriteString(".\n\n")
	b.WriteString(scopeInstruction(frameworks))
	b.WriteString("\n\n")

	b.WriteString("Requirements:\n")
	b.WriteString("1. Report BOTH violations and compliances: every section that violates a requirement is a VIOLATION finding, and every section that satisfies a requirement is a COMPLIANCE finding.\n")
	b.WriteString("2. Give each finding a clear title and identify the specific section it refers to.\n")
	b.WriteString("3. Explain the violation or the compliance in detail.\n")
	b.WriteString("4. Reference the specific policy or regulation clause.\n")
	b.WriteString("5. Include the page number shown in the page marker and an exact quote copied verbatim from that page.\n\n")

	b.WriteString("IMPORTANT: Do not report only problems. Include COMPLIANCE findings for compliant sections as well as VIOLATION findings for non-compliant ones.\n\n")

	b.WriteString("Document to analyze:\n\n")
	b.WriteString(RenderPages(req.Pages))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Analyze this document thoroughly and use the %s tool to return your findings.", schema.ReportToolName)
	return b.String()
}

// BuildGuidancePrompt builds the assistant instruction for a free-form question.
func BuildGuidancePrompt(message string, frameworks []string) string {
	frameworks = NormalizeFrameworks(frameworks)

	var b strings.Builder
	b.WriteString("You are a compliance assistant answering a question about policy and regulation.\n\n")
	b.WriteString(scopeInstruction(frameworks))
	b.WriteString("\n\n")
	b.WriteString("Question:\n")
	b.WriteString(message)
	b.WriteString("\n\n")
	b.WriteString("Structure your answer as follows:\n")
	b.WriteString("1. answer: a clear, direct answer to the question.\n")
	b.WriteString("2. referenced_frameworks: the frameworks you actually relied on, not every framework that was selected.\n")
	b.WriteString("3. relevant_articles: the specific articles or clauses you cited, each with its title, source and a url to its text.\n\n")
	fmt.Fprintf(&b, "Use the %s tool to return your answer.", schema.GuidanceToolName)
	return b.String()
}
