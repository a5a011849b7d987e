package config

// KoooraConfig controls page fetches from kooora.com.
type KoooraConfig struct {
	MatchURL     string
	ListURL      string
	UserAgent    string
	FetchTimeout Duration
}

func loadKooora() KoooraConfig {
	return KoooraConfig{
		MatchURL:     envOrDefault(envKoooraMatchURL, ""),
		ListURL:      envOrDefault(envKoooraListURL, ""),
		UserAgent:    envOrDefault(envKoooraUserAgent, ""),
		FetchTimeout: durationEnvOrDefault(envFetchTimeout, defaultFetchTimeout),
	}
}
