package state

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/betflow/bankroll-tracker/internal/bankroll-service/pubsub"
	"github.com/betflow/bankroll-tracker/pkg/contracts/events"
	"github.com/betflow/bankroll-tracker/pkg/contracts/records"
	"github.com/betflow/bankroll-tracker/pkg/contracts/slots"
)

// memStore simula a fronteira de persistência em memória.
type memStore struct {
	mu    sync.Mutex
	data  map[string][]byte
	fail  bool
	saves int
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (s *memStore) Load(_ context.Context, slot string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errors.New("store indisponível")
	}
	return s.data[slot], nil
}

func (s *memStore) Save(_ context.Context, slot string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("store indisponível")
	}
	s.saves++
	s.data[slot] = payload
	return nil
}

type captureBroadcaster struct {
	changes []pubsub.StateChange
}

func (c *captureBroadcaster) Notify(_ context.Context, ch pubsub.StateChange) error {
	c.changes = append(c.changes, ch)
	return nil
}

type capturePublisher struct {
	settled []events.BetSettled
}

func (c *capturePublisher) PublishBetSettled(_ context.Context, e events.BetSettled) error {
	c.settled = append(c.settled, e)
	return nil
}

func newTestManager(st *memStore) (*Manager, *captureBroadcaster, *capturePublisher) {
	bcast := &captureBroadcaster{}
	publ := &capturePublisher{}
	return NewManager(zap.NewNop(), st, bcast, publ), bcast, publ
}

func TestAddBetPrependsNewestFirst(t *testing.T) {
	m, bcast, _ := newTestManager(newMemStore())
	ctx := context.Background()

	first, err := m.AddBet(ctx, BetInput{Date: "2026-08-01", Teams: "A x B", StakeCents: 1000, Odds: 2.0})
	require.NoError(t, err)
	second, err := m.AddBet(ctx, BetInput{Date: "2026-08-02", Teams: "C x D", StakeCents: 2000, Odds: 1.5})
	require.NoError(t, err)

	bets := m.Bets()
	require.Len(t, bets, 2)
	assert.Equal(t, second.ID, bets[0].ID, "criação insere no topo")
	assert.Equal(t, first.ID, bets[1].ID)
	assert.Equal(t, records.StatusPending, bets[0].Status)
	assert.Equal(t, int64(0), bets[0].ResultCents)
	assert.NotEmpty(t, bets[0].ID)

	require.Len(t, bcast.changes, 2)
	assert.Equal(t, pubsub.StateChange{Entity: "bet", Op: "created", ID: second.ID}, bcast.changes[1])
}

func TestAddObjectiveAppendsInCreationOrder(t *testing.T) {
	m, _, _ := newTestManager(newMemStore())
	ctx := context.Background()

	first, err := m.AddObjective(ctx, ObjectiveInput{Name: "Meta 1", InitialCents: 0, TargetCents: 10000})
	require.NoError(t, err)
	second, err := m.AddObjective(ctx, ObjectiveInput{Name: "Meta 2", InitialCents: 5000, TargetCents: 20000})
	require.NoError(t, err)

	objs := m.Objectives()
	require.Len(t, objs, 2)
	assert.Equal(t, first.ID, objs[0].ID, "metas ficam em ordem de criação")
	assert.Equal(t, second.ID, objs[1].ID)
	assert.Equal(t, int64(5000), objs[1].CurrentCents, "snapshot da criação é igual ao inicial")
}

func TestAddBetValidation(t *testing.T) {
	m, _, _ := newTestManager(newMemStore())
	ctx := context.Background()

	_, err := m.AddBet(ctx, BetInput{Date: "2026-08-01", Teams: "", StakeCents: 1000, Odds: 2.0})
	assert.ErrorIs(t, err, ErrInvalidBet)

	_, err = m.AddBet(ctx, BetInput{Date: "", Teams: "A x B", StakeCents: 1000, Odds: 2.0})
	assert.ErrorIs(t, err, ErrInvalidBet)

	_, err = m.AddBet(ctx, BetInput{Date: "2026-08-01", Teams: "A x B", StakeCents: -1, Odds: 2.0})
	assert.ErrorIs(t, err, ErrInvalidBet)

	_, err = m.AddBet(ctx, BetInput{Date: "2026-08-01", Teams: "A x B", StakeCents: 1000, Odds: -0.5})
	assert.ErrorIs(t, err, ErrInvalidBet)

	assert.Empty(t, m.Bets(), "validação rejeita antes de existir registro")
}

func TestAddObjectiveValidation(t *testing.T) {
	m, _, _ := newTestManager(newMemStore())
	ctx := context.Background()

	_, err := m.AddObjective(ctx, ObjectiveInput{Name: "  ", TargetCents: 1000})
	assert.ErrorIs(t, err, ErrInvalidObjective)

	_, err = m.AddObjective(ctx, ObjectiveInput{Name: "Meta", InitialCents: 2000, TargetCents: 1000})
	assert.ErrorIs(t, err, ErrInvalidObjective, "target abaixo do inicial não entra")

	_, err = m.AddObjective(ctx, ObjectiveInput{Name: "Meta", InitialCents: -1, TargetCents: 1000})
	assert.ErrorIs(t, err, ErrInvalidObjective)
}

func TestSetBetStatusRecomputesResult(t *testing.T) {
	m, _, publ := newTestManager(newMemStore())
	ctx := context.Background()

	b, err := m.AddBet(ctx, BetInput{Date: "2026-08-01", Teams: "A x B", StakeCents: 10000, Odds: 2.5})
	require.NoError(t, err)

	won, found, err := m.SetBetStatus(ctx, b.ID, records.StatusWon)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(25000), won.ResultCents)

	require.Len(t, publ.settled, 1)
	assert.Equal(t, int64(15000), publ.settled[0].ProfitCents)

	// reabrir zera o retorno e preserva o resto
	reopened, found, err := m.SetBetStatus(ctx, b.ID, records.StatusPending)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(0), reopened.ResultCents)
	assert.Equal(t, b.StakeCents, reopened.StakeCents)
	assert.Equal(t, b.Odds, reopened.Odds)
	assert.Equal(t, b.Teams, reopened.Teams)

	assert.Len(t, publ.settled, 1, "volta pra PENDING não é resolução")
}

func TestSetBetStatusUnknownIDIsNoop(t *testing.T) {
	st := newMemStore()
	m, bcast, _ := newTestManager(st)
	ctx := context.Background()

	_, err := m.AddBet(ctx, BetInput{Date: "2026-08-01", Teams: "A x B", StakeCents: 1000, Odds: 2.0})
	require.NoError(t, err)
	savesBefore := st.saves

	_, found, err := m.SetBetStatus(ctx, "nao-existe", records.StatusWon)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, savesBefore, st.saves, "no-op não escreve slot")
	assert.Len(t, bcast.changes, 1)
}

func TestSetBetStatusRejectsUnknownStatus(t *testing.T) {
	m, _, _ := newTestManager(newMemStore())

	_, _, err := m.SetBetStatus(context.Background(), "qualquer", records.Status("CANCELLED"))
	assert.ErrorIs(t, err, ErrInvalidBet)
}

func TestDeleteIsIdempotent(t *testing.T) {
	st := newMemStore()
	m, _, _ := newTestManager(st)
	ctx := context.Background()

	b, err := m.AddBet(ctx, BetInput{Date: "2026-08-01", Teams: "A x B", StakeCents: 1000, Odds: 2.0})
	require.NoError(t, err)

	require.NoError(t, m.DeleteBet(ctx, b.ID))
	assert.Empty(t, m.Bets())

	savesBefore := st.saves
	require.NoError(t, m.DeleteBet(ctx, b.ID), "segundo delete é no-op, não erro")
	assert.Equal(t, savesBefore, st.saves)
}

func TestDeleteObjectiveKeepsLinkedBets(t *testing.T) {
	m, _, _ := newTestManager(newMemStore())
	ctx := context.Background()

	obj, err := m.AddObjective(ctx, ObjectiveInput{Name: "Meta", InitialCents: 0, TargetCents: 10000})
	require.NoError(t, err)
	_, err = m.AddBet(ctx, BetInput{Date: "2026-08-01", Teams: "A x B", StakeCents: 1000, Odds: 2.0, ObjectiveID: obj.ID})
	require.NoError(t, err)

	require.NoError(t, m.DeleteObjective(ctx, obj.ID))

	bets := m.Bets()
	require.Len(t, bets, 1, "apagar a meta não apaga as apostas")
	assert.Equal(t, obj.ID, bets[0].ObjectiveID, "o vínculo fica pendurado")

	// agregação segue funcionando com o vínculo pendurado
	assert.Empty(t, m.ObjectivesProgress())
	assert.Equal(t, 1, m.Summary().TotalBets)
}

func TestSaveFailureLeavesStateUntouched(t *testing.T) {
	st := newMemStore()
	m, _, _ := newTestManager(st)
	ctx := context.Background()

	b, err := m.AddBet(ctx, BetInput{Date: "2026-08-01", Teams: "A x B", StakeCents: 1000, Odds: 2.0})
	require.NoError(t, err)

	st.fail = true

	_, err = m.AddBet(ctx, BetInput{Date: "2026-08-02", Teams: "C x D", StakeCents: 2000, Odds: 1.5})
	require.Error(t, err)

	_, _, err = m.SetBetStatus(ctx, b.ID, records.StatusWon)
	require.Error(t, err)

	err = m.DeleteBet(ctx, b.ID)
	require.Error(t, err)

	st.fail = false
	bets := m.Bets()
	require.Len(t, bets, 1, "escrita falhou: memória continua no snapshot anterior")
	assert.Equal(t, b.ID, bets[0].ID)
	assert.Equal(t, records.StatusPending, bets[0].Status)
}

func TestLoadFromSlots(t *testing.T) {
	st := newMemStore()
	st.data[slots.Bets] = []byte(`[{"id":"b1","date":"2026-08-01","teams":"A x B","stake_cents":1000,"odds":2.0,"status":"WON","result_cents":2000,"is_cascade":false}]`)
	st.data[slots.Objectives] = []byte(`[{"id":"o1","name":"Meta","initial_cents":0,"target_cents":10000,"current_cents":0,"created_at":"2026-08-01T00:00:00Z"}]`)

	m, _, _ := newTestManager(st)
	m.Load(context.Background())

	require.Len(t, m.Bets(), 1)
	require.Len(t, m.Objectives(), 1)
	assert.Equal(t, int64(1000), m.Summary().TotalProfitCents)
}

func TestLoadDegradesToEmpty(t *testing.T) {
	st := newMemStore()
	st.data[slots.Bets] = []byte(`{isso não é um array`)

	m, _, _ := newTestManager(st)
	m.Load(context.Background())
	assert.Empty(t, m.Bets(), "slot corrompido degrada pra coleção vazia")

	st2 := newMemStore()
	st2.fail = true
	m2, _, _ := newTestManager(st2)
	m2.Load(context.Background())
	assert.Empty(t, m2.Bets(), "falha de leitura degrada pra coleção vazia")
	assert.Empty(t, m2.Objectives())
}

func TestSuggestionFollowsNewestBet(t *testing.T) {
	m, _, _ := newTestManager(newMemStore())
	ctx := context.Background()

	_, ok := m.Suggestion()
	assert.False(t, ok)

	b, err := m.AddBet(ctx, BetInput{Date: "2026-08-01", Teams: "A x B", StakeCents: 10000, Odds: 2.5})
	require.NoError(t, err)

	_, ok = m.Suggestion()
	assert.False(t, ok, "pendente não sugere cascata")

	_, _, err = m.SetBetStatus(ctx, b.ID, records.StatusWon)
	require.NoError(t, err)

	cents, ok := m.Suggestion()
	require.True(t, ok)
	assert.Equal(t, int64(25000), cents)
}
