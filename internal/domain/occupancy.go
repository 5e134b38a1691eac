package domain

type DailyOccupancy struct {
	Date       string `json:"date"`
	Percentage int    `json:"percentage"`
	Notes      string `json:"notes,omitempty"`
}
