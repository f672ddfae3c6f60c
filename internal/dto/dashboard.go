package dto

type FAQResponse struct {
	Question string `json:"question"`
	Count    int    `json:"count"`
}

type PeakHourResponse struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type PopularPropertyResponse struct {
	PropertyID string `json:"property_id"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Mentions   int    `json:"mentions"`
}

type InsightsResponse struct {
	Summary                string   `json:"summary"`
	FrequentNeeds          []string `json:"frequent_needs"`
	PotentialOpportunities []string `json:"potential_opportunities"`
	RecommendedActions     []string `json:"recommended_actions"`
}

type StatsResponse struct {
	TotalConversations int `json:"total_conversations"`
	UniqueQuestions    int `json:"unique_questions"`
	HoursTracked       int `json:"hours_tracked"`
	TotalProperties    int `json:"total_properties"`
}
