package ledger

import (
	"math"

	"github.com/betflow/bankroll-tracker/pkg/contracts/records"
)

// Summary são os agregados globais do ledger, recalculados do zero a cada
// leitura — nada de cache incremental.
type Summary struct {
	TotalBets        int
	TotalProfitCents int64
	WinRate          float64 // 0..100
}

// ProfitCents é a contribuição de uma aposta no lucro acumulado: vitória soma
// retorno menos stake, derrota subtrai o stake, pendente não conta.
func ProfitCents(b records.Bet) int64 {
	switch b.Status {
	case records.StatusWon:
		return b.ResultCents - b.StakeCents
	case records.StatusLost:
		return -b.StakeCents
	}
	return 0
}

// Summarize agrega a coleção inteira. Coleção vazia produz win rate 0.
func Summarize(bets []records.Bet) Summary {
	s := Summary{TotalBets: len(bets)}
	won := 0
	for _, b := range bets {
		s.TotalProfitCents += ProfitCents(b)
		if b.Status == records.StatusWon {
			won++
		}
	}
	if s.TotalBets > 0 {
		s.WinRate = float64(won) / float64(s.TotalBets) * 100
	}
	return s
}

// Settle devolve a aposta com o novo status e o retorno recalculado:
// WON arredonda stake*odds pro centavo, qualquer outro status zera.
// Única via de mutação de Status/ResultCents; stake e odds nunca mudam.
func Settle(b records.Bet, status records.Status) records.Bet {
	b.Status = status
	if status == records.StatusWon {
		b.ResultCents = int64(math.Round(float64(b.StakeCents) * b.Odds))
	} else {
		b.ResultCents = 0
	}
	return b
}
