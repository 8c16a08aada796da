package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskQuotationExpire marks overdue sent quotations as expired.
	TaskQuotationExpire = "quotation:expire_overdue"
)

// QuotationExpirePayload bounds the expiry sweep. A zero Before means "now".
type QuotationExpirePayload struct {
	Before time.Time `json:"before,omitempty"`
}

// NewQuotationExpireTask constructs an Asynq task.
func NewQuotationExpireTask(payload QuotationExpirePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskQuotationExpire, data), nil
}
