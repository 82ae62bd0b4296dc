package advisor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/betflow/bankroll-tracker/internal/shared/metrics"
	"github.com/betflow/bankroll-tracker/pkg/contracts/records"
)

// Mensagens fixas exibidas ao usuário; o texto gerado vem sempre verbatim.
const (
	MsgNoBets  = "Adicione algumas apostas para receber uma análise estratégica."
	MsgEmpty   = "Não foi possível gerar uma análise no momento."
	MsgFailure = "Erro ao conectar com o consultor de IA."
)

// Generator é o backend de geração de texto.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Service monta o resumo do histórico e pede três dicas curtas de gestão de
// banca. Roda fora do caminho das mutações: falha aqui vira MsgFailure e
// nunca encosta no ledger.
type Service struct {
	log      *zap.Logger
	gen      Generator
	language string // idioma da resposta, fixado por configuração
}

func NewService(log *zap.Logger, gen Generator, language string) *Service {
	return &Service{log: log, gen: gen, language: language}
}

// Analyze devolve sempre um texto exibível, nunca erro. Sem apostas não há
// chamada de rede.
func (s *Service) Analyze(ctx context.Context, bets []records.Bet) string {
	if len(bets) == 0 {
		return MsgNoBets
	}

	text, err := s.gen.GenerateContent(ctx, s.prompt(bets))
	if err != nil {
		metrics.AdvisorRequests.WithLabelValues("error").Inc()
		s.log.Warn("análise estratégica falhou", zap.Error(err))
		return MsgFailure
	}
	metrics.AdvisorRequests.WithLabelValues("ok").Inc()

	if strings.TrimSpace(text) == "" {
		return MsgEmpty
	}
	return text
}

func (s *Service) prompt(bets []records.Bet) string {
	lines := make([]string, 0, len(bets))
	for _, b := range bets {
		lines = append(lines, fmt.Sprintf(
			"Data: %s, Times: %s, Stake: R$%.2f, Odd: %.2f, Status: %s, Retorno: R$%.2f",
			b.Date, b.Teams, float64(b.StakeCents)/100, b.Odds, b.Status, float64(b.ResultCents)/100,
		))
	}

	return fmt.Sprintf(`Analise o seguinte histórico de apostas esportivas e forneça 3 dicas estratégicas curtas para melhorar os resultados. Foque em gestão de banca e padrões de vitórias/derrotas.

Histórico:
%s

Responda em %s, de forma profissional e motivadora.`, strings.Join(lines, "\n"), s.language)
}
