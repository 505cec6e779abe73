package feed

const (
	// Base URL
	DefaultBaseURL = "https://api.sleeper.app"

	// API Endpoints
	DraftEndpoint = "/v1/draft/%s"
	PicksEndpoint = "/v1/draft/%s/picks"
)
