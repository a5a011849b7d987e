package snapshot

// Match is one fixture row on the listing page.
type Match struct {
	HomeTeam  Text `json:"homeTeam"`
	AwayTeam  Text `json:"awayTeam"`
	HomeScore Text `json:"homeScore"`
	AwayScore Text `json:"awayScore"`
	Status    Text `json:"status"`
	Time      Text `json:"time"`
	Channel   Text `json:"channel"`
	URL       Text `json:"url"`
}

// League groups the fixtures of one competition. Its display name is its identity.
type League struct {
	Name    Text    `json:"name"`
	Logo    Text    `json:"logo"`
	Matches []Match `json:"matches"`
}

// Leagues is the listing in page order.
type Leagues []League

func (l *Leagues) Fill() {
	out := make(Leagues, len(*l))
	for i, league := range *l {
		league.Name = league.Name.or(Unknown)
		matches := make([]Match, len(league.Matches))
		for j, m := range league.Matches {
			m.HomeTeam = m.HomeTeam.or(Unknown)
			m.AwayTeam = m.AwayTeam.or(Unknown)
			m.Status = m.Status.or(Unknown)
			matches[j] = m
		}
		league.Matches = matches
		out[i] = league
	}
	*l = out
}
