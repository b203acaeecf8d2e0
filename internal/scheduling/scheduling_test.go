package scheduling

import (
	"testing"
	"time"

	"github.com/sofiane-rh/salon-erp/internal/model"
)

func TestEndTime(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	end := EndTime(start, 60)
	want := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	if !end.Equal(want) {
		t.Fatalf("expected end %s, got %s", want.Format(time.RFC3339), end.Format(time.RFC3339))
	}
}

func TestEligibleStaff_SkillMatchPlusAdmins(t *testing.T) {
	svc := model.Service{ID: "svc-1", CategoryID: 2}
	roster := []model.Profile{
		{ID: "p1", Role: model.RoleStaff},
		{ID: "p2", Role: model.RoleStaff},
		{ID: "p3", Role: model.RoleAdmin},
		{ID: "p4", Role: model.RoleSuperadmin},
		{ID: "p5", Role: model.RoleReception},
	}
	skills := []model.StaffSkill{
		{ProfileID: "p1", CategoryID: 2},
		{ProfileID: "p2", CategoryID: 1},
		{ProfileID: "p5", CategoryID: 2},
	}

	eligible := EligibleStaff(svc, roster, skills)
	got := map[string]bool{}
	for _, p := range eligible {
		got[p.ID] = true
	}
	want := []string{"p1", "p3", "p4", "p5"}
	if len(eligible) != len(want) {
		t.Fatalf("expected %d eligible, got %d (%v)", len(want), len(eligible), got)
	}
	for _, id := range want {
		if !got[id] {
			t.Fatalf("expected %s to be eligible", id)
		}
	}
}

func TestEligibleStaff_OrderOfSkillAssignmentIrrelevant(t *testing.T) {
	svc := model.Service{ID: "svc-1", CategoryID: 3}
	roster := []model.Profile{{ID: "p1", Role: model.RoleStaff}}
	forward := []model.StaffSkill{{ProfileID: "p1", CategoryID: 1}, {ProfileID: "p1", CategoryID: 3}}
	backward := []model.StaffSkill{{ProfileID: "p1", CategoryID: 3}, {ProfileID: "p1", CategoryID: 1}}

	if len(EligibleStaff(svc, roster, forward)) != 1 {
		t.Fatal("expected p1 eligible with forward skill order")
	}
	if len(EligibleStaff(svc, roster, backward)) != 1 {
		t.Fatal("expected p1 eligible with backward skill order")
	}
}

func TestEligibleStaff_EmptyResultIsValid(t *testing.T) {
	svc := model.Service{ID: "svc-1", CategoryID: 9}
	roster := []model.Profile{{ID: "p1", Role: model.RoleStaff}}

	eligible := EligibleStaff(svc, roster, nil)
	if len(eligible) != 0 {
		t.Fatalf("expected no eligible staff, got %d", len(eligible))
	}
}

func TestConflict_HalfOpenIntervals(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	existing := []model.Appointment{
		{ID: "a1", StaffID: "s1", StartTime: day.Add(9 * time.Hour), EndTime: day.Add(10 * time.Hour), Status: model.StatusConfirmed},
	}

	// 09:30-10:30 overlaps 09:00-10:00.
	if _, ok := Conflict("s1", day.Add(9*time.Hour+30*time.Minute), day.Add(10*time.Hour+30*time.Minute), existing); !ok {
		t.Fatal("expected overlap to be detected")
	}
	// Back-to-back 10:00-11:00 does not conflict.
	if _, ok := Conflict("s1", day.Add(10*time.Hour), day.Add(11*time.Hour), existing); ok {
		t.Fatal("back-to-back booking should not conflict")
	}
	// Different staff member never conflicts.
	if _, ok := Conflict("s2", day.Add(9*time.Hour), day.Add(10*time.Hour), existing); ok {
		t.Fatal("different staff should not conflict")
	}
}

func TestConflict_CancelledIgnored(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	existing := []model.Appointment{
		{ID: "a1", StaffID: "s1", StartTime: day.Add(9 * time.Hour), EndTime: day.Add(10 * time.Hour), Status: model.StatusCancelled},
	}
	if _, ok := Conflict("s1", day.Add(9*time.Hour), day.Add(10*time.Hour), existing); ok {
		t.Fatal("cancelled appointments must not block the slot")
	}
}
