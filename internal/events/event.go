// Package events carries appointment lifecycle events out of the process
// through a transactional outbox: rows are written in the same transaction
// as the mutation and a poller publishes them to Kafka. Without brokers
// configured the poller is a no-op and the deployment has no background
// work at all.
package events

import (
	"encoding/json"
	"time"

	"github.com/sofiane-rh/salon-erp/internal/model"
)

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType.
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

const (
	TypeAppointmentCreated       = "appointment.created.v1"
	TypeAppointmentStatusChanged = "appointment.status_changed.v1"
	TypeAppointmentDeleted       = "appointment.deleted.v1"
)

func AppointmentCreated(a model.Appointment) Event {
	payload, _ := json.Marshal(map[string]any{
		"appointment_id": a.ID,
		"client_id":      a.ClientID,
		"staff_id":       a.StaffID,
		"service_id":     a.ServiceID,
		"start_time":     a.StartTime.Format(time.RFC3339),
		"end_time":       a.EndTime.Format(time.RFC3339),
		"status":         a.Status,
	})
	return Event{
		AggregateType: "appointment",
		AggregateID:   a.ID,
		EventType:     TypeAppointmentCreated,
		Payload:       payload,
	}
}

func AppointmentStatusChanged(a model.Appointment, previous model.AppointmentStatus) Event {
	payload, _ := json.Marshal(map[string]any{
		"appointment_id":  a.ID,
		"previous_status": previous,
		"status":          a.Status,
		"changed_at":      time.Now().UTC().Format(time.RFC3339),
	})
	return Event{
		AggregateType: "appointment",
		AggregateID:   a.ID,
		EventType:     TypeAppointmentStatusChanged,
		Payload:       payload,
	}
}

func AppointmentDeleted(id string) Event {
	payload, _ := json.Marshal(map[string]any{
		"appointment_id": id,
		"deleted_at":     time.Now().UTC().Format(time.RFC3339),
	})
	return Event{
		AggregateType: "appointment",
		AggregateID:   id,
		EventType:     TypeAppointmentDeleted,
		Payload:       payload,
	}
}
