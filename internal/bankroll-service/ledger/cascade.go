package ledger

import "github.com/betflow/bankroll-tracker/pkg/contracts/records"

// SuggestStakeCents devolve o retorno da aposta mais recente (posição 0 da
// coleção) como stake sugerido da próxima, somente se ela foi ganha.
// A sugestão só pré-preenche o formulário; não toca o ledger.
func SuggestStakeCents(bets []records.Bet) (int64, bool) {
	if len(bets) == 0 {
		return 0, false
	}
	if last := bets[0]; last.Status == records.StatusWon {
		return last.ResultCents, true
	}
	return 0, false
}
