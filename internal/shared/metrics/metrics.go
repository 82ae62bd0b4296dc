package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Mutations conta escritas aplicadas ao estado, por entidade e operação.
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bankroll_mutations_total",
		Help: "Mutações aplicadas às coleções de apostas e metas.",
	}, []string{"entity", "op"})

	// SlotSaves conta escritas de coleção completa nos slots, por resultado.
	SlotSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bankroll_slot_saves_total",
		Help: "Escritas de coleção completa nos slots de persistência.",
	}, []string{"slot", "result"})

	// AdvisorRequests conta chamadas ao consultor de IA, por resultado.
	AdvisorRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bankroll_advisor_requests_total",
		Help: "Chamadas ao serviço de análise estratégica.",
	}, []string{"result"})
)

type HealthFunc func(ctx context.Context) error

// StartServer sobe um servidor HTTP leve só pra /metrics e /healthz,
// executável numa goroutine no main.
func StartServer(port string, healthFn HealthFunc) *http.Server {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()

		if err := healthFn(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(fmt.Sprintf("unhealthy: %v", err)))
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		_ = srv.ListenAndServe()
	}()

	return srv
}
