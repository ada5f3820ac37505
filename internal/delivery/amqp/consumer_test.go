package amqp

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Harsh-BH/fieldtools/internal/domain"
)

func TestDecodeEvent(t *testing.T) {
	start := time.Date(2025, 11, 17, 9, 0, 0, 0, time.UTC)
	body, _ := json.Marshal(domain.JobEvent{
		Type:       domain.EventJobCreated,
		Job:        domain.JobRecord{ID: "42", TechName: "Ana", Signal: domain.SignalBad, StartTime: start, EndTime: start},
		OccurredAt: start,
	})

	event, err := decodeEvent(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Job.ID != "42" || event.Job.Signal != domain.SignalBad {
		t.Errorf("unexpected event %+v", event)
	}
}

func TestDecodeEvent_Rejects(t *testing.T) {
	cases := map[string]string{
		"malformed":  `{"type":`,
		"wrong type": `{"type":"job.deleted","job":{"id":"1"}}`,
		"no id":      `{"type":"job.created","job":{}}`,
	}
	for name, body := range cases {
		if _, err := decodeEvent([]byte(body)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
