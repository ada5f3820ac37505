package domain

import "time"

// EventJobCreated is the routing key of the event published after a job is saved.
const EventJobCreated = "job.created"

// JobEvent is the message body published for the sheet exporter.
type JobEvent struct {
	Type       string    `json:"type"`
	Job        JobRecord `json:"job"`
	OccurredAt time.Time `json:"occurredAt"`
}

// JobMessage wraps a received JobEvent with its broker acknowledgement
// callbacks. The worker pool calls exactly one of them.
type JobMessage struct {
	Event *JobEvent
	Ack   func() error
	Nack  func(requeue bool) error
}
