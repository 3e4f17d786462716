// Package display renders analysis results for the terminal and saves the
// per-stage reports as markdown files.
package display

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"coinsage/internal/models"
	"coinsage/internal/storage"
	"coinsage/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(1, 2).
			Width(80)

	sectionStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#10B981")).
			Padding(1, 2).
			Width(80)

	buyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	sellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	holdStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

// Banner prints the startup banner.
func Banner() {
	fmt.Println(titleStyle.Render("CoinSage — AI-Powered Crypto Advisory"))
	fmt.Println(dimStyle.Render("Multi-stage market analysis for informed decisions"))
	fmt.Println()
}

func decisionStyle(decision string) lipgloss.Style {
	switch decision {
	case "Buy":
		return buyStyle
	case "Sell":
		return sellStyle
	default:
		return holdStyle
	}
}

// RenderResult prints a completed analysis to the terminal.
func RenderResult(result *models.Result) {
	header := fmt.Sprintf("Analysis for %s — %s\nProfile: %s  Horizon: %s",
		result.Coin, result.TradeDate, result.TraderProfile, result.Horizon)
	fmt.Println(headerStyle.Render(header))

	var summary strings.Builder
	summary.WriteString("Final Decision: ")
	summary.WriteString(decisionStyle(result.FinalDecision).Render(result.FinalDecision))
	if result.Confidence != nil {
		summary.WriteString(fmt.Sprintf("   Confidence: %.2f", *result.Confidence))
	}
	summary.WriteString("\n\n")
	summary.WriteString(result.FinalReason)
	fmt.Println(sectionStyle.Render(summary.String()))

	if result.RiskNotes != "" {
		fmt.Println(sectionStyle.Render("Risk Notes\n\n" + result.RiskNotes))
	}
	if result.ResearchSummary != "" {
		fmt.Println(sectionStyle.Render("Research Summary\n\n" + result.ResearchSummary))
	}
}

// RenderHistory prints stored history entries as a compact list.
func RenderHistory(entries []*storage.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Println(dimStyle.Render("No past analyses found."))
		return
	}

	var b strings.Builder
	for _, e := range entries {
		conf := "—"
		if e.Confidence != nil {
			conf = fmt.Sprintf("%.2f", *e.Confidence)
		}
		b.WriteString(fmt.Sprintf("#%d  %-12s %s  %-4s conf=%s  (%s, %s)  %s\n",
			e.ID, e.Coin, e.TradeDate,
			decisionStyle(e.FinalDecision).Render(e.FinalDecision),
			conf, e.TraderProfile, e.Horizon, e.CreatedAt))
	}
	fmt.Println(sectionStyle.Render(strings.TrimRight(b.String(), "\n")))
}

// SaveReports writes the per-stage markdown reports under
// resultsDir/<coin>/<trade_date>/.
func SaveReports(resultsDir string, result *models.Result) error {
	dir := filepath.Join(resultsDir, result.Coin, result.TradeDate)

	reports := map[string]string{
		"news.md":         result.Reports.News.Raw,
		"fundamentals.md": result.Reports.Fundamentals.Raw,
		"technical.md":    result.Reports.Technical.Raw,
		"sentiment.md":    result.Reports.Sentiment.Raw,
		"research.md":     result.Reports.Overall.Raw,
	}
	for name, content := range reports {
		if strings.TrimSpace(content) == "" {
			continue
		}
		if err := utils.WriteMarkdown(dir, name, content); err != nil {
			return err
		}
	}

	final := fmt.Sprintf("# Final Recommendation for %s\n\n**Decision**: %s\n\n%s\n\n## Risk Notes\n\n%s\n",
		result.Coin, result.FinalDecision, result.FinalReason, result.RiskNotes)
	return utils.WriteMarkdown(dir, "final.md", final)
}
