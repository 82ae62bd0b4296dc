package dto

type CreateBetRequest struct {
	Date        string  `json:"date"` // ISO, ex: "2026-08-30"
	Teams       string  `json:"teams"`
	StakeCents  int64   `json:"stake_cents"`
	Odds        float64 `json:"odds"`
	IsCascade   bool    `json:"is_cascade"`
	ObjectiveID string  `json:"objective_id,omitempty"`
}

type UpdateBetStatusRequest struct {
	Status string `json:"status"` // "PENDING" | "WON" | "LOST"
}

type CreateObjectiveRequest struct {
	Name         string `json:"name"`
	InitialCents int64  `json:"initial_cents"`
	TargetCents  int64  `json:"target_cents"`
}
