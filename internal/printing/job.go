package printing

import (
	"github.com/google/uuid"

	"order_kiosk/internal/models"
)

const (
	jobReceipt = "receipt"
	jobTest    = "test"
)

// Job is one unit of printer work.
type Job struct {
	ID    string       `json:"id"`
	Kind  string       `json:"kind"`
	Order models.Order `json:"order"`
}

func newJob(kind string, order models.Order) Job {
	return Job{ID: uuid.NewString(), Kind: kind, Order: order}
}
