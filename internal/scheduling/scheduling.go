// Package scheduling holds the pure booking rules: which staff may perform
// a service, how an appointment's end time is derived, and when two
// bookings collide.
package scheduling

import (
	"time"

	"github.com/sofiane-rh/salon-erp/internal/model"
)

// EndTime derives the appointment end from the service duration. The end
// time is fixed at creation and never re-derived on update.
func EndTime(start time.Time, durationMinutes int) time.Time {
	return start.Add(time.Duration(durationMinutes) * time.Minute)
}

// EligibleStaff returns the profiles qualified to perform svc: those whose
// skill set contains the service's category, plus admins and superadmins,
// which are exempt from skill gating. An empty result is a valid answer
// ("no eligible staff"), not an error.
func EligibleStaff(svc model.Service, roster []model.Profile, skills []model.StaffSkill) []model.Profile {
	qualified := make(map[string]bool, len(skills))
	for _, sk := range skills {
		if sk.CategoryID == svc.CategoryID {
			qualified[sk.ProfileID] = true
		}
	}

	var eligible []model.Profile
	for _, p := range roster {
		if p.Role.SkillExempt() || qualified[p.ID] {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

// Overlaps reports whether [start, end) collides with the appointment's
// interval. Half-open on both sides, so back-to-back bookings are fine.
func Overlaps(start, end time.Time, a model.Appointment) bool {
	return start.Before(a.EndTime) && a.StartTime.Before(end)
}

// Conflict returns the first non-cancelled appointment of the same staff
// member that overlaps the candidate interval, if any. Callers decide what
// to do with it: by default double-booking is allowed and conflicts are
// only rejected when overlap checking is switched on.
func Conflict(staffID string, start, end time.Time, existing []model.Appointment) (model.Appointment, bool) {
	for _, a := range existing {
		if a.StaffID != staffID || a.Status == model.StatusCancelled {
			continue
		}
		if Overlaps(start, end, a) {
			return a, true
		}
	}
	return model.Appointment{}, false
}
