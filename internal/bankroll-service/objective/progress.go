package objective

import (
	"math"

	"github.com/betflow/bankroll-tracker/internal/bankroll-service/ledger"
	"github.com/betflow/bankroll-tracker/pkg/contracts/records"
)

// FallbackAvgWinCents é a taxa de projeção enquanto não existe nenhuma
// vitória no histórico global (R$10).
const FallbackAvgWinCents = 1000

// Percent é o progresso da meta com variante indefinida explícita: quando o
// target é igual ao valor inicial a razão é 0/0 e a UI deve exibir "N/A",
// nunca NaN.
type Percent struct {
	Defined bool
	Value   float64 // 0..100 quando Defined
}

// Estimate é a projeção de apostas até a meta; indefinida quando a média de
// lucro por vitória não é positiva.
type Estimate struct {
	Defined bool
	Bets    int
}

// Progress é o estado vivo de uma meta. O CurrentCents gravado no registro é
// só a foto da criação; este aqui é o valor de verdade.
type Progress struct {
	ObjectiveID    string
	CurrentCents   int64
	Percent        Percent
	RemainingCents int64
	EstimatedBets  Estimate
}

// AvgWinProfitCents é a média GLOBAL de lucro por aposta ganha — a taxa de
// previsão é comportamental, compartilhada por todas as metas.
func AvgWinProfitCents(bets []records.Bet) float64 {
	var sum int64
	wins := 0
	for _, b := range bets {
		if b.Status == records.StatusWon {
			sum += ledger.ProfitCents(b)
			wins++
		}
	}
	if wins == 0 {
		return FallbackAvgWinCents
	}
	return float64(sum) / float64(wins)
}

// Evaluate calcula o progresso de uma meta contra a coleção inteira de
// apostas. Só as vinculadas pelo ObjectiveID entram no saldo; ObjectiveID
// pendurado em meta apagada simplesmente não casa com ninguém.
func Evaluate(obj records.Objective, bets []records.Bet) Progress {
	cur := obj.InitialCents
	for _, b := range bets {
		if b.ObjectiveID == obj.ID {
			cur += ledger.ProfitCents(b)
		}
	}

	p := Progress{ObjectiveID: obj.ID, CurrentCents: cur}

	if span := obj.TargetCents - obj.InitialCents; span != 0 {
		raw := float64(cur-obj.InitialCents) / float64(span) * 100
		p.Percent = Percent{Defined: true, Value: math.Min(100, math.Max(0, raw))}
	}

	if rem := obj.TargetCents - cur; rem > 0 {
		p.RemainingCents = rem
		if avg := AvgWinProfitCents(bets); avg > 0 {
			p.EstimatedBets = Estimate{Defined: true, Bets: int(math.Ceil(float64(rem) / avg))}
		}
	} else {
		// meta alcançada: nada restante, esforço zero
		p.EstimatedBets = Estimate{Defined: true}
	}

	return p
}
