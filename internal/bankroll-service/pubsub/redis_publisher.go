package pubsub

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// StateChange avisa o colaborador de UI que o estado mudou e as visões
// derivadas devem ser relidas. Não carrega o estado em si.
type StateChange struct {
	Entity string `json:"entity"` // "bet" | "objective"
	Op     string `json:"op"`     // "created" | "deleted" | "status_changed"
	ID     string `json:"id"`
}

type RedisBroadcaster struct {
	r       *redis.Client
	channel string
}

func NewRedisBroadcaster(r *redis.Client, channel string) *RedisBroadcaster {
	return &RedisBroadcaster{r: r, channel: channel}
}

func (b *RedisBroadcaster) Notify(ctx context.Context, c StateChange) error {
	payload, _ := json.Marshal(c)
	return b.r.Publish(ctx, b.channel, payload).Err()
}
