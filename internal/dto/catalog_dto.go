package dto

import "time"

type CatalogReloadResponse struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

type CatalogStatsResponse struct {
	Items      int       `json:"items"`
	Accepted   int       `json:"accepted"`
	Rejected   int       `json:"rejected"`
	Categories int       `json:"categories"`
	Strains    int       `json:"strains"`
	Effects    int       `json:"effects"`
	LoadedAt   time.Time `json:"loaded_at"`
}
