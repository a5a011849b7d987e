package kooora

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

const (
	homeGridTeam = ".fco-match-header__grid-team:first-child"
	awayGridTeam = ".fco-match-header__grid-team:last-child"
	predictor    = ".fco-match-predictor__result"
	substitute   = ".fco-lineup-player--substitute"
)

func extractMatchDetail(doc *goquery.Document, pageURL string) map[string]any {
	root := doc.Selection
	home := teamHeader(root, homeGridTeam, "team-a")
	away := teamHeader(root, awayGridTeam, "team-b")

	return map[string]any{
		"matchInfo": map[string]any{
			"league":        text(root, ".fco-match-header-competition-name"),
			"date":          attr(root, ".fco-match-header-match-day", "datetime"),
			"status":        text(root, ".fco-match-state"),
			"homeTeam":      home,
			"awayTeam":      away,
			"halfTimeScore": text(root, ".fco-match-header__results-item:first-child .fco-match-header__sub-score"),
			"finalScore":    text(root, ".fco-match-header__results-item:last-child .fco-match-header__sub-score"),
			"matchUrl":      pageURL,
		},
		"matchDetails": map[string]any{
			"stadium": text(root, ".fco-match-details__venue .fco-match-details__value"),
			"referee": text(root, ".fco-match-details__referee .fco-match-details__value"),
			"round":   text(root, ".fco-match-details__round .fco-match-details__value"),
		},
		"scorers": map[string]any{
			"home": listTexts(root, ".fco-match-header__scorers-left li"),
			"away": listTexts(root, ".fco-match-header__scorers-right li"),
		},
		"events":      extractEvents(root),
		"stats":       extractStats(root),
		"lineups":     extractLineups(root),
		"predictions": extractPredictions(root),
		"standings":   extractStandings(root, home["name"].(string), away["name"].(string)),
	}
}

func teamHeader(root *goquery.Selection, grid, side string) map[string]any {
	return map[string]any{
		"name":  text(root, grid+" .fco-long-name"),
		"logo":  attr(root, grid+" img", "src"),
		"score": text(root, fmt.Sprintf(".fco-match-header-score[data-side='%s']", side)),
	}
}

func extractEvents(root *goquery.Selection) []any {
	events := []any{}
	root.Find(".fco-commentary__event").Each(func(_ int, s *goquery.Selection) {
		side := "away"
		if s.HasClass("fco-commentary__event--team-a") {
			side = "home"
		}
		events = append(events, map[string]any{
			"time": text(s, ".fco-commentary__event-time"),
			"text": text(s, ".fco-commentary__event-text"),
			"type": side,
		})
	})
	return events
}

func extractStats(root *goquery.Selection) map[string]any {
	stats := map[string]any{}
	root.Find(".fco-match-stats-row").Each(func(_ int, s *goquery.Selection) {
		name := text(s, ".fco-match-stats-row__label")
		stats[name] = map[string]any{
			"home": text(s, ".fco-match-stats-row__stat:first-child .fco-match-stats-row__stat-value"),
			"away": text(s, ".fco-match-stats-row__stat:last-child .fco-match-stats-row__stat-value"),
		}
	})
	return stats
}

func extractLineups(root *goquery.Selection) map[string]any {
	side := func(name string) map[string]any {
		team := fmt.Sprintf(".fco-lineup-team[data-side='%s']", name)
		return map[string]any{
			"starting":    players(root, team+" .fco-lineup-player:not("+substitute+")", true),
			"substitutes": players(root, team+" .fco-lineup-player"+substitute, false),
		}
	}
	return map[string]any{
		"home": side("home"),
		"away": side("away"),
	}
}

func players(root *goquery.Selection, selector string, withPosition bool) []any {
	out := []any{}
	root.Find(selector).Each(func(_ int, s *goquery.Selection) {
		p := map[string]any{
			"name":   text(s, ".fco-lineup-player__name"),
			"number": text(s, ".fco-lineup-player__number"),
		}
		if withPosition {
			p["position"] = text(s, ".fco-lineup-player__position")
		}
		out = append(out, p)
	})
	return out
}

func extractPredictions(root *goquery.Selection) map[string]any {
	vote := func(pos string) map[string]any {
		item := predictor + ":" + pos
		return map[string]any{
			"percent": text(root, item+" .fco-match-predictor__result-vote-percent"),
			"votes":   text(root, item+" .fco-match-predictor__result-vote-votes"),
		}
	}
	return map[string]any{
		"home": vote("first-child"),
		"draw": vote("nth-child(2)"),
		"away": vote("last-child"),
	}
}

// extractStandings keeps named rows and flags the two teams of this match.
func extractStandings(root *goquery.Selection, homeName, awayName string) []any {
	rows := []any{}
	root.Find(".fco-standings-table__row").Each(func(_ int, s *goquery.Selection) {
		team := text(s, ".fco-standings-table__team-name--long")
		if team == "" {
			return
		}
		rows = append(rows, map[string]any{
			"position": text(s, ".fco-standings-table__cell--position"),
			"team":     team,
			"played":   text(s, ".fco-standings-table__cell--played"),
			"points":   text(s, ".fco-standings-table__cell--points"),
			"isHome":   team == homeName,
			"isAway":   team == awayName,
		})
	})
	return rows
}
