package reporting

import (
	"testing"
	"time"

	"github.com/sofiane-rh/salon-erp/internal/model"
)

var testNow = time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC)

func appt(id, clientID, staffID, serviceID string, start time.Time, status model.AppointmentStatus) model.Appointment {
	return model.Appointment{
		ID:        id,
		ClientID:  clientID,
		StaffID:   staffID,
		ServiceID: serviceID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    status,
	}
}

func TestComputeKPIs_RevenueCountsCompletedOnly(t *testing.T) {
	snap := Snapshot{
		Services: []model.Service{
			{ID: "cut", Price: 1500},
			{ID: "color", Price: 4000},
		},
		Appointments: []model.Appointment{
			appt("a1", "c1", "s1", "cut", testNow.Add(-2*time.Hour), model.StatusCompleted),   // today
			appt("a2", "c1", "s1", "color", testNow.AddDate(0, 0, -3), model.StatusCompleted), // this month
			appt("a3", "c1", "s1", "cut", testNow.AddDate(0, -2, 0), model.StatusCompleted),   // this year
			appt("a4", "c1", "s1", "color", testNow.Add(-1*time.Hour), model.StatusPending),   // today, no revenue
			appt("a5", "c1", "s1", "color", testNow.Add(-1*time.Hour), model.StatusCancelled), // today, no revenue
			appt("a6", "c1", "s1", "cut", testNow.AddDate(-1, 0, 0), model.StatusCompleted),   // last year
		},
	}

	k := ComputeKPIs(snap, testNow)
	if k.RevenueToday != 1500 {
		t.Fatalf("revenueToday = %d, want 1500", k.RevenueToday)
	}
	if k.RevenueMonth != 1500+4000 {
		t.Fatalf("revenueMonth = %d, want 5500", k.RevenueMonth)
	}
	if k.RevenueYear != 1500+4000+1500 {
		t.Fatalf("revenueYear = %d, want 7000", k.RevenueYear)
	}
	// Any status counts toward today's appointment tally.
	if k.AppointmentsToday != 3 {
		t.Fatalf("appointmentsToday = %d, want 3", k.AppointmentsToday)
	}
	if k.AppointmentsCompleted != 4 {
		t.Fatalf("appointmentsCompleted = %d, want 4", k.AppointmentsCompleted)
	}
	if k.AppointmentsCancelled != 1 {
		t.Fatalf("appointmentsCancelled = %d, want 1", k.AppointmentsCancelled)
	}
}

func TestTopEmployees_RankedByMonthlyRevenue(t *testing.T) {
	snap := Snapshot{
		Services: []model.Service{{ID: "cut", Price: 1000}, {ID: "color", Price: 3000}},
		Profiles: []model.Profile{
			{ID: "s1", FirstName: "Amel", LastName: "B", ColorCode: "#111111"},
			{ID: "s2", FirstName: "Nadia", LastName: "K"},
			{ID: "s3", FirstName: "Yasmine", LastName: "T"},
		},
		Appointments: []model.Appointment{
			appt("a1", "c1", "s1", "cut", testNow.AddDate(0, 0, -1), model.StatusCompleted),
			appt("a2", "c1", "s2", "color", testNow.AddDate(0, 0, -2), model.StatusCompleted),
			appt("a3", "c1", "s2", "cut", testNow.AddDate(0, 0, -2), model.StatusCompleted),
			appt("a4", "c1", "s3", "color", testNow.AddDate(0, -1, 0), model.StatusCompleted), // last month
			appt("a5", "c1", "s1", "color", testNow.AddDate(0, 0, -1), model.StatusPending),   // not completed
		},
	}

	top := TopEmployees(snap, testNow)
	if len(top) != 2 {
		t.Fatalf("expected 2 ranked employees, got %d", len(top))
	}
	if top[0].ID != "s2" || top[0].Revenue != 4000 || top[0].AppointmentsCount != 2 {
		t.Fatalf("unexpected leader: %+v", top[0])
	}
	if top[1].ID != "s1" || top[1].Revenue != 1000 {
		t.Fatalf("unexpected runner-up: %+v", top[1])
	}
	if top[1].ColorCode != "#111111" {
		t.Fatalf("colorCode not carried: %+v", top[1])
	}
	if top[0].ColorCode != model.DefaultColorCode {
		t.Fatalf("missing colorCode should fall back to default, got %q", top[0].ColorCode)
	}
}

func TestTopEmployees_TieBreakIsFirstEncountered(t *testing.T) {
	snap := Snapshot{
		Services: []model.Service{{ID: "cut", Price: 1000}},
		Profiles: []model.Profile{
			{ID: "s1", FirstName: "A", LastName: "A"},
			{ID: "s2", FirstName: "B", LastName: "B"},
		},
		Appointments: []model.Appointment{
			appt("a1", "c1", "s2", "cut", testNow.AddDate(0, 0, -1), model.StatusCompleted),
			appt("a2", "c1", "s1", "cut", testNow.AddDate(0, 0, -1), model.StatusCompleted),
		},
	}

	top := TopEmployees(snap, testNow)
	if len(top) != 2 || top[0].ID != "s2" {
		t.Fatalf("stable tie-break broken: %+v", top)
	}
}

func TestTopEmployees_LimitedToFive(t *testing.T) {
	snap := Snapshot{Services: []model.Service{{ID: "cut", Price: 100}}}
	for i := 0; i < 7; i++ {
		id := string(rune('a' + i))
		snap.Profiles = append(snap.Profiles, model.Profile{ID: id, FirstName: id, LastName: id})
		snap.Appointments = append(snap.Appointments,
			appt("appt-"+id, "c1", id, "cut", testNow.AddDate(0, 0, -1), model.StatusCompleted))
	}

	if got := len(TopEmployees(snap, testNow)); got != 5 {
		t.Fatalf("expected top 5, got %d", got)
	}
}

func TestTopServices_RevenueRankingWithCategoryName(t *testing.T) {
	categories := []model.ServiceCategory{{ID: 1, Name: "Coiffure"}, {ID: 2, Name: "Onglerie"}}
	snap := Snapshot{
		Services: []model.Service{
			{ID: "cut", CategoryID: 1, Name: "Coupe", Price: 1000},
			{ID: "mani", CategoryID: 2, Name: "Manucure", Price: 1800},
		},
		Appointments: []model.Appointment{
			appt("a1", "c1", "s1", "cut", testNow.AddDate(0, 0, -1), model.StatusCompleted),
			appt("a2", "c1", "s1", "cut", testNow.AddDate(0, 0, -1), model.StatusCompleted),
			appt("a3", "c1", "s1", "mani", testNow.AddDate(0, 0, -1), model.StatusCompleted),
		},
	}

	top := TopServices(snap, testNow, categories)
	if len(top) != 2 {
		t.Fatalf("expected 2 services, got %d", len(top))
	}
	if top[0].ID != "cut" || top[0].Revenue != 2000 || top[0].Count != 2 || top[0].CategoryName != "Coiffure" {
		t.Fatalf("unexpected top service: %+v", top[0])
	}
}

func TestGoldenClient_NilWhenNoCompletedThisMonth(t *testing.T) {
	snap := Snapshot{
		Services: []model.Service{{ID: "cut", Price: 1000}},
		Clients:  []model.Client{{ID: "c1", FullName: "Lina M", Phone: "0550"}},
		Appointments: []model.Appointment{
			appt("a1", "c1", "s1", "cut", testNow.AddDate(0, 0, -1), model.StatusPending),
			appt("a2", "c1", "s1", "cut", testNow.AddDate(0, -1, 0), model.StatusCompleted), // last month
		},
	}

	if g := ComputeGoldenClient(snap, testNow); g != nil {
		t.Fatalf("expected nil golden client, got %+v", g)
	}
}

func TestGoldenClient_HighestSpender(t *testing.T) {
	snap := Snapshot{
		Services: []model.Service{{ID: "cut", Price: 1000}, {ID: "color", Price: 5000}},
		Clients: []model.Client{
			{ID: "c1", FullName: "Lina M", Phone: "0550 11 22 33"},
			{ID: "c2", FullName: "Sara B", Phone: "0660 44 55 66"},
		},
		Appointments: []model.Appointment{
			appt("a1", "c1", "s1", "cut", testNow.AddDate(0, 0, -1), model.StatusCompleted),
			appt("a2", "c2", "s1", "color", testNow.AddDate(0, 0, -2), model.StatusCompleted),
		},
	}

	g := ComputeGoldenClient(snap, testNow)
	if g == nil {
		t.Fatal("expected a golden client")
	}
	if g.ID != "c2" || g.TotalSpent != 5000 || g.AppointmentsCount != 1 || g.Phone != "0660 44 55 66" {
		t.Fatalf("unexpected golden client: %+v", g)
	}
}

func TestDayWindow_LocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	now := time.Date(2024, 6, 15, 0, 30, 0, 0, loc)
	start, end := DayWindow(now)
	if start.Hour() != 0 || start.Day() != 15 || start.Location() != loc {
		t.Fatalf("unexpected day start %s", start)
	}
	if !end.Equal(start.AddDate(0, 0, 1)) {
		t.Fatalf("unexpected day end %s", end)
	}
}
