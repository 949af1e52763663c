package dto

type CandidatesResponse struct {
	Zone       string         `json:"zone"`
	City       string         `json:"city"`
	RadiusKm   float64        `json:"radius_km"`
	Counts     map[string]int `json:"counts"`
	Candidates []StopResponse `json:"candidates"`
}
