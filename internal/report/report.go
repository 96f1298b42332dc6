// Package report renders a screening result as a markdown report and,
// optionally, as a standalone HTML page.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/joelkehle/markcheck/internal/search"
)

// BuildMarkdown assembles the screening report for one check result.
func BuildMarkdown(resp *search.CheckResponse, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Trademark Screening Report\n\n")
	fmt.Fprintf(&b, "- Query: %s\n", resp.Trademark)
	fmt.Fprintf(&b, "- Country: %s\n", resp.Country)
	if len(resp.Classes) > 0 {
		fmt.Fprintf(&b, "- Classes: %s\n", strings.Join(resp.Classes, ", "))
	}
	fmt.Fprintf(&b, "- Date: %s\n\n", now.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "**Risk level:** `%s` (%d similar marks, %d patents)\n\n",
		resp.RiskLevel, resp.MatchCount, resp.PatentCount)

	if len(resp.SimilarMarks) > 0 {
		buildMarksSection(&b, resp.SimilarMarks)
	}
	if len(resp.Patents) > 0 {
		buildPatentsSection(&b, resp.Patents)
	}
	if len(resp.SimilarMarks) == 0 && len(resp.Patents) == 0 {
		b.WriteString("No similar marks or patents were found in the index.\n\n")
	}

	fmt.Fprintf(&b, "## Notes\n\n")
	for _, note := range resp.Notes {
		fmt.Fprintf(&b, "- %s\n", note)
	}
	return b.String()
}

func buildMarksSection(b *strings.Builder, marks []search.MarkSummary) {
	fmt.Fprintf(b, "## Similar Marks\n\n")
	fmt.Fprintf(b, "| Reg No | Mark | Owner | Country | Status | Active | Similarity |\n")
	fmt.Fprintf(b, "|---|---|---|---|---|---|---|\n")
	for _, m := range marks {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %.4f |\n",
			cell(m.RegNo), cell(m.MarkText), cell(m.OwnerName),
			cell(m.Country), cell(m.Status), yesNo(m.Active), m.Similarity)
	}
	b.WriteString("\n")
}

func buildPatentsSection(b *strings.Builder, patents []search.PatentSummary) {
	fmt.Fprintf(b, "## Patents\n\n")
	fmt.Fprintf(b, "| Application | Publication | Applicant | Status | Active | Similarity |\n")
	fmt.Fprintf(b, "|---|---|---|---|---|---|\n")
	for _, p := range patents {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %.4f |\n",
			cell(p.ApplicationNumber), cell(p.PublicationNumber),
			cell(p.ApplicantName), cell(p.Status), yesNo(p.Active), p.Similarity)
	}
	b.WriteString("\n")
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", "\\|")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// RenderHTML converts the markdown report to a standalone HTML document.
func RenderHTML(markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var out strings.Builder
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Trademark Screening Report</title>\n</head>\n<body>\n")
	if err := md.Convert([]byte(markdown), &out); err != nil {
		return "", fmt.Errorf("render report html: %w", err)
	}
	out.WriteString("</body>\n</html>\n")
	return out.String(), nil
}
