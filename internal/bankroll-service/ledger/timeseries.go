package ledger

import (
	"fmt"

	"github.com/betflow/bankroll-tracker/pkg/contracts/records"
)

// ChartPoint é um ponto da curva de lucro acumulado.
type ChartPoint struct {
	Label        string
	RunningCents int64
}

// TimeSeries percorre a coleção de trás pra frente (o armazenamento é do mais
// recente pro mais antigo) e emite um ponto por aposta em ordem cronológica,
// com rótulo sequencial 1-based. Coleção vazia produz sequência vazia; quem
// renderiza decide o placeholder.
func TimeSeries(bets []records.Bet) []ChartPoint {
	pts := make([]ChartPoint, 0, len(bets))
	var running int64
	for i := len(bets) - 1; i >= 0; i-- {
		running += ProfitCents(bets[i])
		pts = append(pts, ChartPoint{
			Label:        fmt.Sprintf("Aposta %d", len(bets)-i),
			RunningCents: running,
		})
	}
	return pts
}
