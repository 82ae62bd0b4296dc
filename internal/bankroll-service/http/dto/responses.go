package dto

import "github.com/betflow/bankroll-tracker/pkg/contracts/records"

type StatsResponse struct {
	TotalBets        int     `json:"total_bets"`
	TotalProfitCents int64   `json:"total_profit_cents"`
	WinRate          float64 `json:"win_rate"` // 0..100
}

type TimelinePoint struct {
	Label        string `json:"label"`
	RunningCents int64  `json:"running_cents"`
}

// Projeções indefinidas saem como null pra UI exibir "N/A" — nunca NaN nem
// um zero enganoso.
type ObjectiveProgressResponse struct {
	Objective       records.Objective `json:"objective"`
	CurrentCents    int64             `json:"current_cents"`
	ProgressPercent *float64          `json:"progress_percent"`
	RemainingCents  int64             `json:"remaining_cents"`
	EstimatedBets   *int              `json:"estimated_bets"`
}

type SuggestionResponse struct {
	StakeCents *int64 `json:"stake_cents"` // null quando a última aposta não foi ganha
}

type AnalysisResponse struct {
	Analysis string `json:"analysis"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
