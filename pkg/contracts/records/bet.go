package records

// Status é o desfecho atual de uma aposta.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusWon     Status = "WON"
	StatusLost    Status = "LOST"
)

// Valid informa se o valor corresponde a um status conhecido.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusWon, StatusLost:
		return true
	}
	return false
}

// Bet é o registro de uma aposta, serializado inteiro no slot de persistência
// e nas respostas da API. Dinheiro sempre em centavos.
type Bet struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"` // data ISO informada pelo usuário, guardada como veio
	Teams       string  `json:"teams"`
	StakeCents  int64   `json:"stake_cents"`
	Odds        float64 `json:"odds"`
	Status      Status  `json:"status"`
	ResultCents int64   `json:"result_cents"` // retorno bruto; 0 a menos que Status == WON
	IsCascade   bool    `json:"is_cascade"`
	ObjectiveID string  `json:"objective_id,omitempty"`
}
