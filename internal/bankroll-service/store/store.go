package store

import "context"

// SlotStore é a fronteira de persistência: cada slot guarda uma coleção
// inteira serializada como array JSON, sobrescrita por completo a cada
// mutação. Load devolve nil quando o slot ainda não existe.
type SlotStore interface {
	Load(ctx context.Context, slot string) ([]byte, error)
	Save(ctx context.Context, slot string, payload []byte) error
}
