package model

import "time"

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return AppointmentStatus(s), true
	}
	return "", false
}

// CanTransitionTo is the transition graph the calendar UI exercises:
// pending -> confirmed|cancelled, confirmed -> completed|cancelled.
// completed and cancelled are terminal. The server only enforces this
// graph when strict transitions are enabled.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

type Appointment struct {
	ID        string            `json:"id"`
	ClientID  string            `json:"clientId"`
	StaffID   string            `json:"staffId"`
	ServiceID string            `json:"serviceId"`
	StartTime time.Time         `json:"startTime"`
	EndTime   time.Time         `json:"endTime"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

// AppointmentDetails is the calendar payload with related records embedded.
type AppointmentDetails struct {
	Appointment
	Client  Client              `json:"client"`
	Staff   Profile             `json:"staff"`
	Service ServiceWithCategory `json:"service"`
}
