package dto

import "time"

type ChatRequest struct {
	UserId  string `json:"user_id" validate:"required"`
	Message string `json:"message" validate:"required,max=500"`
}

// ChatResponse duplicates the product slice under both Products and
// Recommendations on purpose: deployed clients read either field, so
// the response shape keeps both names.
type ChatResponse struct {
	Greeting           string       `json:"greeting"`
	Products           []ProductDTO `json:"products"`
	FollowUpQuestion   string       `json:"follow_up_question"`
	Recommendations    []ProductDTO `json:"recommendations"`
	EducationalContent *string      `json:"educational_content"`
	ProcessingTimeMs   int64        `json:"processing_time_ms"`
	Timestamp          time.Time    `json:"timestamp"`
}

// ProductDTO is the display form of a catalog item. Numeric gaps render
// as "N/A" so the client never formats missing data itself.
type ProductDTO struct {
	Id           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Strain       string   `json:"strain"`
	THC          string   `json:"thc"`
	CBD          string   `json:"cbd"`
	Price        string   `json:"price"`
	Inventory    int      `json:"inventory"`
	Description  string   `json:"description"`
	PhotoUrl     string   `json:"photo_url"`
	Effects      []string `json:"effects"`
	MatchDetails []string `json:"match_details"`
}

// RecommendationFilterRequest is the "see more" flow: explicit filters
// plus everything the client already displayed.
type RecommendationFilterRequest struct {
	UserId          string   `json:"user_id" validate:"required"`
	Category        string   `json:"category"`
	Strain          string   `json:"strain"`
	Effects         []string `json:"effects"`
	ExperienceLevel string   `json:"experience_level"`
	PriceBand       string   `json:"price_band"`
	ExcludeProducts []string `json:"exclude_products"`
}

type UpdatePreferencesRequest struct {
	UserId      string            `json:"user_id" validate:"required"`
	Preferences map[string]string `json:"preferences" validate:"required"`
}

type PreferencesResponse struct {
	UserId      string            `json:"user_id"`
	Preferences map[string]string `json:"preferences"`
}

type HealthResponse struct {
	Status             string    `json:"status"`
	Timestamp          time.Time `json:"timestamp"`
	Version            string    `json:"version"`
	ProductCatalogSize int       `json:"product_catalog_size"`
	ActiveSessions     int       `json:"active_sessions"`
	UptimeSeconds      int64     `json:"uptime_seconds"`
}
