package snapshot

import (
	"sort"
	"strings"
)

// TeamHeader is one side of the match header.
type TeamHeader struct {
	Name  Text `json:"name"`
	Logo  Text `json:"logo"`
	Score Text `json:"score"`
}

func (t *TeamHeader) fill() {
	t.Name = t.Name.or(Unknown)
	t.Score = t.Score.or(Zero)
}

// MatchInfo is the header block of a match page.
type MatchInfo struct {
	League        Text       `json:"league"`
	Date          Text       `json:"date"`
	Status        Text       `json:"status"`
	HomeTeam      TeamHeader `json:"homeTeam"`
	AwayTeam      TeamHeader `json:"awayTeam"`
	HalfTimeScore Text       `json:"halfTimeScore"`
	FinalScore    Text       `json:"finalScore"`
	MatchURL      Text       `json:"matchUrl"`
}

func (m *MatchInfo) Fill() {
	m.League = m.League.or(Unknown)
	m.Status = m.Status.or(Unknown)
	m.HomeTeam.fill()
	m.AwayTeam.fill()
}

// MatchDetails carries venue and officials when the page exposes them.
type MatchDetails struct {
	Stadium Text `json:"stadium"`
	Referee Text `json:"referee"`
	Round   Text `json:"round"`
}

func (m *MatchDetails) Fill() {
	m.Stadium = m.Stadium.or(Unknown)
	m.Referee = m.Referee.or(Unknown)
	m.Round = m.Round.or(Unknown)
}

// Scorers lists goal lines per side as displayed.
type Scorers struct {
	Home []Text `json:"home"`
	Away []Text `json:"away"`
}

func (s *Scorers) Fill() {
	s.Home = fillTexts(s.Home)
	s.Away = fillTexts(s.Away)
}

// Event is one live-commentary entry.
type Event struct {
	Time Text `json:"time"`
	Text Text `json:"text"`
	Type Text `json:"type"`
}

// Events is the commentary feed in page order.
type Events []Event

func (e *Events) Fill() {
	if *e == nil {
		*e = Events{}
	}
}

// StatLine is one statistic for both sides.
type StatLine struct {
	Home Text `json:"home"`
	Away Text `json:"away"`
}

// Stats is keyed by the statistic label.
type Stats map[string]StatLine

// Fill trims labels and defaults missing values. When several labels trim to
// the same name, the exact label wins, else the first in sorted order.
func (s *Stats) Fill() {
	raw := make([]string, 0, len(*s))
	for label := range *s {
		raw = append(raw, label)
	}
	sort.Strings(raw)

	out := make(Stats, len(*s))
	for _, label := range raw {
		name := strings.TrimSpace(label)
		if name == "" {
			continue
		}
		if _, taken := out[name]; taken && label != name {
			continue
		}
		line := (*s)[label]
		line.Home = line.Home.or(Zero)
		line.Away = line.Away.or(Zero)
		out[name] = line
	}
	*s = out
}

// Player is a lineup entry. Substitutes carry no position.
type Player struct {
	Name     Text `json:"name"`
	Number   Text `json:"number"`
	Position Text `json:"position"`
}

// TeamLineup holds one side's starters and bench.
type TeamLineup struct {
	Starting    []Player `json:"starting"`
	Substitutes []Player `json:"substitutes"`
}

func (t *TeamLineup) fill() {
	t.Starting = fillPlayers(t.Starting)
	t.Substitutes = fillPlayers(t.Substitutes)
}

func fillPlayers(players []Player) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		p.Name = p.Name.or(Unknown)
		out[i] = p
	}
	return out
}

// Lineups holds both sides.
type Lineups struct {
	Home TeamLineup `json:"home"`
	Away TeamLineup `json:"away"`
}

func (l *Lineups) Fill() {
	l.Home.fill()
	l.Away.fill()
}

// Vote is one outcome of the fan predictor.
type Vote struct {
	Percent Text `json:"percent"`
	Votes   Text `json:"votes"`
}

func (v *Vote) fill() {
	v.Percent = v.Percent.or(Zero)
	v.Votes = v.Votes.or(Zero)
}

// Predictions is the fan predictor block.
type Predictions struct {
	Home Vote `json:"home"`
	Draw Vote `json:"draw"`
	Away Vote `json:"away"`
}

func (p *Predictions) Fill() {
	p.Home.fill()
	p.Draw.fill()
	p.Away.fill()
}

// StandingRow is one league table row.
type StandingRow struct {
	Position Text `json:"position"`
	Team     Text `json:"team"`
	Played   Text `json:"played"`
	Points   Text `json:"points"`
	IsHome   bool `json:"isHome"`
	IsAway   bool `json:"isAway"`
}

// Standings is the league table in page order.
type Standings []StandingRow

func (s *Standings) Fill() {
	out := make(Standings, len(*s))
	for i, row := range *s {
		row.Team = row.Team.or(Unknown)
		row.Played = row.Played.or(Zero)
		row.Points = row.Points.or(Zero)
		out[i] = row
	}
	*s = out
}
