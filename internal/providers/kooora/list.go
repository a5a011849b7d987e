package kooora

import (
	"github.com/PuerkitoBio/goquery"
)

// extractMatchList groups the day's matches under their competition headers in
// page order.
func extractMatchList(doc *goquery.Document, pageURL string) map[string]any {
	leagues := []any{}
	doc.Find(".fco-competition-section").Each(func(_ int, section *goquery.Selection) {
		matches := []any{}
		section.Find(".fco-match-row").Each(func(_ int, row *goquery.Selection) {
			matches = append(matches, map[string]any{
				"homeTeam":  text(row, ".fco-match-team:first-child .fco-long-name"),
				"awayTeam":  text(row, ".fco-match-team:last-child .fco-long-name"),
				"homeScore": text(row, ".fco-match-score[data-side='team-a']"),
				"awayScore": text(row, ".fco-match-score[data-side='team-b']"),
				"status":    text(row, ".fco-match-state"),
				"time":      attr(row, ".fco-match-start-date", "datetime"),
				"channel":   text(row, ".fco-match-channel"),
				"url":       resolve(pageURL, attr(row, "a.fco-match-data", "href")),
			})
		})
		leagues = append(leagues, map[string]any{
			"name":    text(section, ".fco-competition-section__header-name"),
			"logo":    attr(section, ".fco-competition-section__header img", "src"),
			"matches": matches,
		})
	})
	return map[string]any{"leagues": leagues}
}
