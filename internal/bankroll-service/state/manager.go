package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/betflow/bankroll-tracker/internal/bankroll-service/ledger"
	"github.com/betflow/bankroll-tracker/internal/bankroll-service/objective"
	"github.com/betflow/bankroll-tracker/internal/bankroll-service/pubsub"
	"github.com/betflow/bankroll-tracker/internal/bankroll-service/store"
	"github.com/betflow/bankroll-tracker/internal/shared/metrics"
	"github.com/betflow/bankroll-tracker/pkg/contracts/events"
	"github.com/betflow/bankroll-tracker/pkg/contracts/records"
	"github.com/betflow/bankroll-tracker/pkg/contracts/slots"
)

var (
	ErrInvalidBet       = errors.New("invalid bet")
	ErrInvalidObjective = errors.New("invalid objective")
)

// Broadcaster avisa o colaborador de UI que o estado mudou.
type Broadcaster interface {
	Notify(ctx context.Context, c pubsub.StateChange) error
}

// SettledPublisher emite o evento de aposta resolvida.
type SettledPublisher interface {
	PublishBetSettled(ctx context.Context, e events.BetSettled) error
}

// Manager é o único dono das duas coleções. Toda mutação valida, monta a
// coleção substituta, persiste o slot inteiro e só então troca em memória —
// falha na escrita deixa memória e slot no snapshot anterior.
//
// Um ator lógico por vez dirige as mutações, mas o servidor HTTP é
// concorrente; o mutex serializa.
type Manager struct {
	log   *zap.Logger
	store store.SlotStore
	bcast Broadcaster      // opcional
	publ  SettledPublisher // opcional

	mu         sync.Mutex
	bets       []records.Bet       // mais recente primeiro
	objectives []records.Objective // ordem de criação
}

func NewManager(log *zap.Logger, st store.SlotStore, b Broadcaster, p SettledPublisher) *Manager {
	return &Manager{log: log, store: st, bcast: b, publ: p}
}

// Load lê os dois slots uma vez na subida. Falha de leitura ou payload
// corrompido degrada pra coleção vazia — nunca derruba o serviço.
func (m *Manager) Load(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if raw := m.loadSlot(ctx, slots.Bets); raw != nil {
		if err := json.Unmarshal(raw, &m.bets); err != nil {
			m.log.Warn("slot de apostas ilegível; começando vazio", zap.Error(err))
			m.bets = nil
		}
	}
	if raw := m.loadSlot(ctx, slots.Objectives); raw != nil {
		if err := json.Unmarshal(raw, &m.objectives); err != nil {
			m.log.Warn("slot de metas ilegível; começando vazio", zap.Error(err))
			m.objectives = nil
		}
	}

	m.log.Info("estado carregado",
		zap.Int("bets", len(m.bets)),
		zap.Int("objectives", len(m.objectives)),
	)
}

func (m *Manager) loadSlot(ctx context.Context, slot string) []byte {
	raw, err := m.store.Load(ctx, slot)
	if err != nil {
		m.log.Warn("load do slot falhou; começando vazio", zap.String("slot", slot), zap.Error(err))
		return nil
	}
	return raw
}

// BetInput são os campos controlados pelo usuário na criação de aposta.
type BetInput struct {
	Date        string
	Teams       string
	StakeCents  int64
	Odds        float64
	IsCascade   bool
	ObjectiveID string
}

// AddBet valida e insere a aposta no TOPO da coleção (mais recente primeiro).
// O gráfico e a sugestão de cascata dependem dessa ordem.
func (m *Manager) AddBet(ctx context.Context, in BetInput) (records.Bet, error) {
	if strings.TrimSpace(in.Teams) == "" || strings.TrimSpace(in.Date) == "" {
		return records.Bet{}, fmt.Errorf("%w: teams e date são obrigatórios", ErrInvalidBet)
	}
	if in.StakeCents < 0 || in.Odds < 0 {
		return records.Bet{}, fmt.Errorf("%w: stake e odds não podem ser negativos", ErrInvalidBet)
	}

	b := records.Bet{
		ID:          uuid.NewString(),
		Date:        in.Date,
		Teams:       in.Teams,
		StakeCents:  in.StakeCents,
		Odds:        in.Odds,
		Status:      records.StatusPending,
		IsCascade:   in.IsCascade,
		ObjectiveID: in.ObjectiveID,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]records.Bet, 0, len(m.bets)+1)
	next = append(next, b)
	next = append(next, m.bets...)
	if err := m.saveBets(ctx, next); err != nil {
		return records.Bet{}, err
	}
	m.notify(ctx, "bet", "created", b.ID)
	return b, nil
}

// ObjectiveInput são os campos controlados pelo usuário na criação de meta.
type ObjectiveInput struct {
	Name         string
	InitialCents int64
	TargetCents  int64
}

// AddObjective valida e anexa a meta no FIM (ordem de criação).
// CurrentCents nasce igual ao inicial e nunca é ressincronizado; o valor
// exibido vem sempre de ObjectivesProgress.
func (m *Manager) AddObjective(ctx context.Context, in ObjectiveInput) (records.Objective, error) {
	if strings.TrimSpace(in.Name) == "" {
		return records.Objective{}, fmt.Errorf("%w: name é obrigatório", ErrInvalidObjective)
	}
	if in.InitialCents < 0 || in.TargetCents < 0 {
		return records.Objective{}, fmt.Errorf("%w: valores não podem ser negativos", ErrInvalidObjective)
	}
	if in.TargetCents < in.InitialCents {
		return records.Objective{}, fmt.Errorf("%w: target menor que o valor inicial", ErrInvalidObjective)
	}

	o := records.Objective{
		ID:           uuid.NewString(),
		Name:         in.Name,
		InitialCents: in.InitialCents,
		TargetCents:  in.TargetCents,
		CurrentCents: in.InitialCents,
		CreatedAt:    time.Now().UTC(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]records.Objective, len(m.objectives), len(m.objectives)+1)
	copy(next, m.objectives)
	next = append(next, o)
	if err := m.saveObjectives(ctx, next); err != nil {
		return records.Objective{}, err
	}
	m.notify(ctx, "objective", "created", o.ID)
	return o, nil
}

// DeleteBet remove o registro por completo (sem tombstone). ID desconhecido
// é no-op: nada escrito, nada notificado.
func (m *Manager) DeleteBet(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]records.Bet, 0, len(m.bets))
	for _, b := range m.bets {
		if b.ID != id {
			next = append(next, b)
		}
	}
	if len(next) == len(m.bets) {
		return nil
	}
	if err := m.saveBets(ctx, next); err != nil {
		return err
	}
	m.notify(ctx, "bet", "deleted", id)
	return nil
}

// DeleteObjective remove a meta sem tocar nas apostas vinculadas: o
// objective_id delas fica pendurado e o restante do sistema trata como
// aposta sem meta.
func (m *Manager) DeleteObjective(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]records.Objective, 0, len(m.objectives))
	for _, o := range m.objectives {
		if o.ID != id {
			next = append(next, o)
		}
	}
	if len(next) == len(m.objectives) {
		return nil
	}
	if err := m.saveObjectives(ctx, next); err != nil {
		return err
	}
	m.notify(ctx, "objective", "deleted", id)
	return nil
}

// SetBetStatus aplica a transição e recalcula o retorno via ledger.Settle.
// Qualquer status pode ir pra qualquer outro, inclusive reabrir pra PENDING.
// ID desconhecido é no-op (found=false). Resoluções WON/LOST emitem
// bet_settled quando o producer está ligado.
func (m *Manager) SetBetStatus(ctx context.Context, id string, status records.Status) (records.Bet, bool, error) {
	if !status.Valid() {
		return records.Bet{}, false, fmt.Errorf("%w: status %q", ErrInvalidBet, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, b := range m.bets {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return records.Bet{}, false, nil
	}

	next := make([]records.Bet, len(m.bets))
	copy(next, m.bets)
	next[idx] = ledger.Settle(next[idx], status)

	if err := m.saveBets(ctx, next); err != nil {
		return records.Bet{}, false, err
	}
	settled := next[idx]
	m.notify(ctx, "bet", "status_changed", id)

	if m.publ != nil && status != records.StatusPending {
		if err := m.publ.PublishBetSettled(ctx, events.BetSettled{
			BetID:       settled.ID,
			Teams:       settled.Teams,
			StakeCents:  settled.StakeCents,
			Odds:        settled.Odds,
			Status:      string(settled.Status),
			ResultCents: settled.ResultCents,
			ProfitCents: ledger.ProfitCents(settled),
		}); err != nil {
			m.log.Warn("publish bet_settled falhou", zap.Error(err))
		}
	}
	return settled, true, nil
}

// Bets devolve uma cópia da coleção na ordem de armazenamento.
func (m *Manager) Bets() []records.Bet {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]records.Bet, len(m.bets))
	copy(out, m.bets)
	return out
}

// Objectives devolve uma cópia das metas em ordem de criação.
func (m *Manager) Objectives() []records.Objective {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]records.Objective, len(m.objectives))
	copy(out, m.objectives)
	return out
}

// Summary, TimeSeries e Suggestion são projeções puras do snapshot atual.
func (m *Manager) Summary() ledger.Summary { return ledger.Summarize(m.Bets()) }

func (m *Manager) TimeSeries() []ledger.ChartPoint { return ledger.TimeSeries(m.Bets()) }

func (m *Manager) Suggestion() (int64, bool) { return ledger.SuggestStakeCents(m.Bets()) }

// ObjectiveWithProgress junta o registro da meta com o progresso vivo.
type ObjectiveWithProgress struct {
	Objective records.Objective
	Progress  objective.Progress
}

// ObjectivesProgress avalia cada meta contra o mesmo snapshot de apostas.
func (m *Manager) ObjectivesProgress() []ObjectiveWithProgress {
	bets := m.Bets()
	objs := m.Objectives()

	out := make([]ObjectiveWithProgress, 0, len(objs))
	for _, o := range objs {
		out = append(out, ObjectiveWithProgress{
			Objective: o,
			Progress:  objective.Evaluate(o, bets),
		})
	}
	return out
}

// saveBets persiste a coleção substituta e, só em caso de sucesso, troca a
// referência em memória. Chamar com o mutex em mãos.
func (m *Manager) saveBets(ctx context.Context, next []records.Bet) error {
	payload, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if err := m.store.Save(ctx, slots.Bets, payload); err != nil {
		metrics.SlotSaves.WithLabelValues(slots.Bets, "error").Inc()
		return fmt.Errorf("save slot %s: %w", slots.Bets, err)
	}
	metrics.SlotSaves.WithLabelValues(slots.Bets, "ok").Inc()
	m.bets = next
	return nil
}

func (m *Manager) saveObjectives(ctx context.Context, next []records.Objective) error {
	payload, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if err := m.store.Save(ctx, slots.Objectives, payload); err != nil {
		metrics.SlotSaves.WithLabelValues(slots.Objectives, "error").Inc()
		return fmt.Errorf("save slot %s: %w", slots.Objectives, err)
	}
	metrics.SlotSaves.WithLabelValues(slots.Objectives, "ok").Inc()
	m.objectives = next
	return nil
}

func (m *Manager) notify(ctx context.Context, entity, op, id string) {
	metrics.Mutations.WithLabelValues(entity, op).Inc()
	if m.bcast == nil {
		return
	}
	if err := m.bcast.Notify(ctx, pubsub.StateChange{Entity: entity, Op: op, ID: id}); err != nil {
		m.log.Debug("broadcast de mudança falhou", zap.Error(err))
	}
}
