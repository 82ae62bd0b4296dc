package topics

const (
	// Emitido quando uma aposta sai de PENDING para WON/LOST.
	BetSettled = "bet_settled"
)
