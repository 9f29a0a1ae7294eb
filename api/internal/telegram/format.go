package telegram

import (
	"fmt"
	"sort"
	"strings"

	"allkinds-bot/api/internal/matching"
)

// FormatMatches renders the ranked list for Telegram. At most limit entries;
// limit <= 0 means no cap.
func FormatMatches(results []matching.Result, limit int) string {
	if limit <= 0 || limit > len(results) {
		limit = len(results)
	}

	var b strings.Builder
	b.WriteString("Your closest matches:\n")
	for i, res := range results[:limit] {
		fmt.Fprintf(&b, "\n%d. User %d: cohesion %+.2f over %d shared questions\n",
			i+1, res.UserID, res.Score, res.SharedCount)
		if res.Complementary > 0 {
			fmt.Fprintf(&b, "   %d complementary answers\n", res.Complementary)
		}
		for _, cat := range sortedCategories(res.Cohesion) {
			fmt.Fprintf(&b, "   • %s: %+.2f (%d)\n",
				cat, res.CategoryScores[cat], res.CategoryCounts[cat])
		}
	}
	if limit < len(results) {
		fmt.Fprintf(&b, "\n…and %d more.", len(results)-limit)
	}
	return b.String()
}

// sortedCategories orders a breakdown by score (best first), then by name so
// the rendering is stable.
func sortedCategories(c matching.Cohesion) []string {
	cats := make([]string, 0, len(c.CategoryScores))
	for cat := range c.CategoryScores {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		si, sj := c.CategoryScores[cats[i]], c.CategoryScores[cats[j]]
		if si != sj {
			return si > sj
		}
		return cats[i] < cats[j]
	})
	return cats
}
