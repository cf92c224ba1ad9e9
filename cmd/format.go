package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
)

// Define styles using lipgloss
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Margin(1, 0, 1, 0)

	resultStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Margin(0, 0, 1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)
)

var titleCaser = cases.Title(language.English)

// domainHeading renders a section heading like "Tasks (3 results)".
func domainHeading(domain core.DomainType, count int) string {
	noun := titleCaser.String(string(domain)) + "s"
	word := "results"
	if count == 1 {
		word = "result"
	}
	return headerStyle.Render(fmt.Sprintf("%s (%d %s)", noun, count, word))
}

// renderResult renders one search result as a bordered block.
func renderResult(index int, res core.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s", index, titleStyle.Render(res.Title))
	if res.Subtitle != "" {
		fmt.Fprintf(&b, "\n   %s", res.Subtitle)
	}
	if res.Description != "" {
		fmt.Fprintf(&b, "\n   %s", truncateText(res.Description, 120))
	}
	if len(res.Tags) > 0 {
		fmt.Fprintf(&b, "\n   %s", tagStyle.Render("#"+strings.Join(res.Tags, " #")))
	}

	meta := fmt.Sprintf("score %.0f", res.Relevance)
	if !res.CreatedAt.IsZero() {
		meta += " · " + formatTime(res.CreatedAt)
	}
	fmt.Fprintf(&b, "\n   %s", metaStyle.Render(meta))

	return resultStyle.Render(b.String())
}

// groupByDomain splits a merged result list back into per-domain
// sections in canonical domain order.
func groupByDomain(results []core.SearchResult) ([]core.DomainType, map[core.DomainType][]core.SearchResult) {
	grouped := make(map[core.DomainType][]core.SearchResult)
	for _, res := range results {
		grouped[res.Domain] = append(grouped[res.Domain], res)
	}

	var order []core.DomainType
	for _, d := range core.SearchableDomains {
		if len(grouped[d]) > 0 {
			order = append(order, d)
		}
	}
	return order, grouped
}

func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

// formatTime formats a time relative to now or as an absolute date
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	// If it's within the last day, show relative time
	if diff < 24*time.Hour {
		if diff < time.Hour {
			minutes := int(diff.Minutes())
			if minutes < 1 {
				return "just now"
			}
			return fmt.Sprintf("%d minutes ago", minutes)
		}
		hours := int(diff.Hours())
		return fmt.Sprintf("%d hours ago", hours)
	}

	// If it's within the last week, show days ago
	if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%d days ago", days)
	}

	// Otherwise show the date
	if t.Year() == now.Year() {
		return t.Format("Jan 2, 15:04")
	}
	return t.Format("Jan 2, 2006")
}
