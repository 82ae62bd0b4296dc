package slots

// Slots nomeados da camada de persistência. Cada slot guarda a coleção
// inteira serializada como array JSON, sobrescrita a cada mutação.
const (
	Bets       = "betflow_bets"
	Objectives = "betflow_objectives"
)
