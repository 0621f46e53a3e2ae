package exports

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TaskArchiveExport = "exports.archive"

// ArchivePayload is one finished download waiting to be archived and logged.
// RequestedAt fixes the object key, so a retried upload overwrites itself.
type ArchivePayload struct {
	EntityType  string    `json:"entityType"`
	UserID      uuid.UUID `json:"userId"`
	Rows        int       `json:"rows"`
	Body        []byte    `json:"body"`
	RequestedAt time.Time `json:"requestedAt"`
}

func NewArchiveTask(payload ArchivePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskArchiveExport, data), nil
}

func ParseArchivePayload(task *asynq.Task) (ArchivePayload, error) {
	var payload ArchivePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ArchivePayload{}, err
	}
	return payload, nil
}
