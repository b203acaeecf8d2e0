// Package reporting derives the dashboard figures from a full snapshot of
// the ledger. Everything here is a pure function of its inputs and is
// recomputed on every request; the dataset is small enough that caching or
// incremental maintenance would buy nothing.
package reporting

import (
	"sort"
	"time"

	"github.com/sofiane-rh/salon-erp/internal/model"
)

// Snapshot is the cross-table input every dashboard figure is derived from.
type Snapshot struct {
	Appointments []model.Appointment
	Services     []model.Service
	Profiles     []model.Profile
	Clients      []model.Client
}

type KPIs struct {
	RevenueToday          int `json:"revenueToday"`
	RevenueMonth          int `json:"revenueMonth"`
	RevenueYear           int `json:"revenueYear"`
	AppointmentsToday     int `json:"appointmentsToday"`
	AppointmentsCompleted int `json:"appointmentsCompleted"`
	AppointmentsCancelled int `json:"appointmentsCancelled"`
}

type TopEmployee struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	ColorCode         string `json:"colorCode"`
	Revenue           int    `json:"revenue"`
	AppointmentsCount int    `json:"appointmentsCount"`
}

type TopService struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CategoryName string `json:"categoryName"`
	Count        int    `json:"count"`
	Revenue      int    `json:"revenue"`
}

type GoldenClient struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	TotalSpent        int    `json:"totalSpent"`
	AppointmentsCount int    `json:"appointmentsCount"`
}

const topLimit = 5

func priceIndex(services []model.Service) map[string]int {
	prices := make(map[string]int, len(services))
	for _, s := range services {
		prices[s.ID] = s.Price
	}
	return prices
}

// ComputeKPIs sums service prices over completed appointments per window.
// appointmentsToday intentionally counts every status, not just completed;
// the revenue figures remain completed-only.
func ComputeKPIs(snap Snapshot, now time.Time) KPIs {
	dayStart, dayEnd := DayWindow(now)
	monthStart := MonthStart(now)
	yearStart := YearStart(now)
	prices := priceIndex(snap.Services)

	var k KPIs
	for _, a := range snap.Appointments {
		if !a.StartTime.Before(dayStart) && a.StartTime.Before(dayEnd) {
			k.AppointmentsToday++
		}
		switch a.Status {
		case model.StatusCompleted:
			k.AppointmentsCompleted++
			price := prices[a.ServiceID]
			if !a.StartTime.Before(dayStart) && a.StartTime.Before(dayEnd) {
				k.RevenueToday += price
			}
			if !a.StartTime.Before(monthStart) {
				k.RevenueMonth += price
			}
			if !a.StartTime.Before(yearStart) {
				k.RevenueYear += price
			}
		case model.StatusCancelled:
			k.AppointmentsCancelled++
		}
	}
	return k
}

type revenueBucket struct {
	key     string
	revenue int
	count   int
}

// monthlyRevenueByKey groups this month's completed appointments by keyFn,
// in first-encountered order so the later stable sort has a deterministic
// tie-break.
func monthlyRevenueByKey(snap Snapshot, now time.Time, keyFn func(model.Appointment) string) []revenueBucket {
	monthStart := MonthStart(now)
	prices := priceIndex(snap.Services)

	index := map[string]int{}
	var buckets []revenueBucket
	for _, a := range snap.Appointments {
		if a.Status != model.StatusCompleted || a.StartTime.Before(monthStart) {
			continue
		}
		key := keyFn(a)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, revenueBucket{key: key})
		}
		buckets[i].revenue += prices[a.ServiceID]
		buckets[i].count++
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].revenue > buckets[j].revenue
	})
	if len(buckets) > topLimit {
		buckets = buckets[:topLimit]
	}
	return buckets
}

// TopEmployees ranks staff by revenue from completed appointments this month.
func TopEmployees(snap Snapshot, now time.Time) []TopEmployee {
	profiles := make(map[string]model.Profile, len(snap.Profiles))
	for _, p := range snap.Profiles {
		profiles[p.ID] = p
	}

	buckets := monthlyRevenueByKey(snap, now, func(a model.Appointment) string { return a.StaffID })
	out := make([]TopEmployee, 0, len(buckets))
	for _, b := range buckets {
		p, ok := profiles[b.key]
		if !ok {
			continue
		}
		colorCode := p.ColorCode
		if colorCode == "" {
			colorCode = model.DefaultColorCode
		}
		out = append(out, TopEmployee{
			ID:                p.ID,
			Name:              p.FullName(),
			ColorCode:         colorCode,
			Revenue:           b.revenue,
			AppointmentsCount: b.count,
		})
	}
	return out
}

// TopServices ranks services by revenue from completed appointments this month.
func TopServices(snap Snapshot, now time.Time, categories []model.ServiceCategory) []TopService {
	services := make(map[string]model.Service, len(snap.Services))
	for _, s := range snap.Services {
		services[s.ID] = s
	}
	categoryNames := make(map[int]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	buckets := monthlyRevenueByKey(snap, now, func(a model.Appointment) string { return a.ServiceID })
	out := make([]TopService, 0, len(buckets))
	for _, b := range buckets {
		s, ok := services[b.key]
		if !ok {
			continue
		}
		out = append(out, TopService{
			ID:           s.ID,
			Name:         s.Name,
			CategoryName: categoryNames[s.CategoryID],
			Count:        b.count,
			Revenue:      b.revenue,
		})
	}
	return out
}

// ComputeGoldenClient returns the client with the highest spend on completed
// appointments this month, or nil when the month has no completed
// appointments.
func ComputeGoldenClient(snap Snapshot, now time.Time) *GoldenClient {
	clients := make(map[string]model.Client, len(snap.Clients))
	for _, c := range snap.Clients {
		clients[c.ID] = c
	}

	buckets := monthlyRevenueByKey(snap, now, func(a model.Appointment) string { return a.ClientID })
	for _, b := range buckets {
		c, ok := clients[b.key]
		if !ok {
			continue
		}
		return &GoldenClient{
			ID:                c.ID,
			Name:              c.FullName,
			Phone:             c.Phone,
			TotalSpent:        b.revenue,
			AppointmentsCount: b.count,
		}
	}
	return nil
}
