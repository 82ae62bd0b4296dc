package events

// Evento publicado no tópico "bet_settled" quando uma aposta é resolvida.
// ProfitCents é a contribuição líquida no ledger (negativa em derrota).
type BetSettled struct {
	BetID       string  `json:"bet_id"`
	Teams       string  `json:"teams"`
	StakeCents  int64   `json:"stake_cents"`
	Odds        float64 `json:"odds"`
	Status      string  `json:"status"` // "WON" | "LOST"
	ResultCents int64   `json:"result_cents"`
	ProfitCents int64   `json:"profit_cents"`
	TsUnixMs    int64   `json:"ts_unix_ms"`
}
