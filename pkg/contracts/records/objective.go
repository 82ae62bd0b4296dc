package records

import "time"

// Objective é uma meta de crescimento de banca. Zero ou mais apostas apontam
// para ela via ObjectiveID; apagar a meta não apaga nem desvincula as apostas.
type Objective struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	InitialCents int64     `json:"initial_cents"`
	TargetCents  int64     `json:"target_cents"`
	CurrentCents int64     `json:"current_cents"` // foto tirada na criação; o valor vivo é sempre recalculado
	CreatedAt    time.Time `json:"created_at"`
}
