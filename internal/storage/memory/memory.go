// Package memory is a mutex-guarded, map-backed implementation of
// storage.Store. It backs handler tests and database-less development;
// behavior mirrors the Postgres implementation, including the seeded
// category set.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sofiane-rh/salon-erp/internal/events"
	"github.com/sofiane-rh/salon-erp/internal/model"
	"github.com/sofiane-rh/salon-erp/internal/reporting"
	"github.com/sofiane-rh/salon-erp/internal/storage"
)

type Store struct {
	mu sync.RWMutex

	profiles     map[string]model.Profile
	profileOrder []string
	skills       map[string][]int

	categories []model.ServiceCategory

	services     map[string]model.Service
	serviceOrder []string

	clients     map[string]model.Client
	clientOrder []string

	appointments map[string]model.Appointment
	apptOrder    []string

	events []events.Event
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		profiles:     map[string]model.Profile{},
		skills:       map[string][]int{},
		services:     map[string]model.Service{},
		clients:      map[string]model.Client{},
		appointments: map[string]model.Appointment{},
		categories: []model.ServiceCategory{
			{ID: 1, Name: "Coiffure"},
			{ID: 2, Name: "Esthétique"},
			{ID: 3, Name: "Onglerie"},
			{ID: 4, Name: "Massage"},
		},
	}
}

// Events returns the appointment events recorded so far. Tests use this
// where the Postgres store would have written outbox rows.
func (s *Store) Events() []events.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]events.Event, len(s.events))
	copy(out, s.events)
	return out
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// ---- Profiles ----

func (s *Store) sortedSkills(profileID string) []int {
	skills := append([]int(nil), s.skills[profileID]...)
	sort.Ints(skills)
	return skills
}

func (s *Store) GetProfiles(_ context.Context) ([]model.ProfileWithSkills, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ProfileWithSkills, 0, len(s.profileOrder))
	for _, id := range s.profileOrder {
		out = append(out, model.ProfileWithSkills{Profile: s.profiles[id], Skills: s.sortedSkills(id)})
	}
	return out, nil
}

func (s *Store) GetProfile(_ context.Context, id string) (model.ProfileWithSkills, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return model.ProfileWithSkills{}, storage.ErrNotFound
	}
	return model.ProfileWithSkills{Profile: p, Skills: s.sortedSkills(id)}, nil
}

func (s *Store) GetProfileByEmail(_ context.Context, email string) (model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.profileOrder {
		if s.profiles[id].Email == email {
			return s.profiles[id], nil
		}
	}
	return model.Profile{}, storage.ErrNotFound
}

func (s *Store) GetStaffProfiles(_ context.Context) ([]model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Profile
	for _, id := range s.profileOrder {
		p := s.profiles[id]
		if p.Role == model.RoleStaff || p.Role == model.RoleReception {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) CreateProfile(_ context.Context, p model.Profile, skills []int) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.profileOrder {
		if s.profiles[id].Email == p.Email {
			return model.Profile{}, storage.ErrDuplicateEmail
		}
	}
	s.profiles[p.ID] = p
	s.profileOrder = append(s.profileOrder, p.ID)
	if len(skills) > 0 {
		s.skills[p.ID] = append([]int(nil), skills...)
	}
	return p, nil
}

func (s *Store) UpdateProfile(_ context.Context, id string, upd storage.ProfileUpdate) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return model.Profile{}, storage.ErrNotFound
	}
	if upd.Email != nil && *upd.Email != p.Email {
		for _, other := range s.profileOrder {
			if other != id && s.profiles[other].Email == *upd.Email {
				return model.Profile{}, storage.ErrDuplicateEmail
			}
		}
		p.Email = *upd.Email
	}
	if upd.FirstName != nil {
		p.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		p.LastName = *upd.LastName
	}
	if upd.PasswordHash != nil {
		p.PasswordHash = *upd.PasswordHash
	}
	if upd.Role != nil {
		p.Role = *upd.Role
	}
	if upd.ColorCode != nil {
		p.ColorCode = *upd.ColorCode
	}
	if upd.Skills != nil {
		if len(*upd.Skills) == 0 {
			delete(s.skills, id)
		} else {
			s.skills[id] = append([]int(nil), *upd.Skills...)
		}
	}
	s.profiles[id] = p
	return p, nil
}

func (s *Store) DeleteProfile(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.profiles, id)
	delete(s.skills, id)
	s.profileOrder = removeID(s.profileOrder, id)
	return nil
}

func (s *Store) GetStaffSkills(_ context.Context) ([]model.StaffSkill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.StaffSkill
	for _, id := range s.profileOrder {
		for _, cat := range s.sortedSkills(id) {
			out = append(out, model.StaffSkill{ProfileID: id, CategoryID: cat})
		}
	}
	return out, nil
}

// ---- Catalog ----

func (s *Store) GetServiceCategories(_ context.Context) ([]model.ServiceCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.ServiceCategory(nil), s.categories...), nil
}

func (s *Store) categoryByID(id int) model.ServiceCategory {
	for _, c := range s.categories {
		if c.ID == id {
			return c
		}
	}
	return model.ServiceCategory{ID: id}
}

func (s *Store) GetServices(_ context.Context) ([]model.ServiceWithCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ServiceWithCategory, 0, len(s.serviceOrder))
	for _, id := range s.serviceOrder {
		svc := s.services[id]
		out = append(out, model.ServiceWithCategory{Service: svc, Category: s.categoryByID(svc.CategoryID)})
	}
	return out, nil
}

func (s *Store) GetService(_ context.Context, id string) (model.ServiceWithCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	svc, ok := s.services[id]
	if !ok {
		return model.ServiceWithCategory{}, storage.ErrNotFound
	}
	return model.ServiceWithCategory{Service: svc, Category: s.categoryByID(svc.CategoryID)}, nil
}

func (s *Store) CreateService(_ context.Context, svc model.Service) (model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[svc.ID] = svc
	s.serviceOrder = append(s.serviceOrder, svc.ID)
	return svc, nil
}

func (s *Store) UpdateService(_ context.Context, id string, upd storage.ServiceUpdate) (model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.services[id]
	if !ok {
		return model.Service{}, storage.ErrNotFound
	}
	if upd.CategoryID != nil {
		svc.CategoryID = *upd.CategoryID
	}
	if upd.Name != nil {
		svc.Name = *upd.Name
	}
	if upd.Price != nil {
		svc.Price = *upd.Price
	}
	if upd.Duration != nil {
		svc.Duration = *upd.Duration
	}
	s.services[id] = svc
	return svc, nil
}

func (s *Store) DeleteService(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.services[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.services, id)
	s.serviceOrder = removeID(s.serviceOrder, id)
	return nil
}

// ---- Clients ----

func (s *Store) GetClients(_ context.Context) ([]model.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Client, 0, len(s.clientOrder))
	for _, id := range s.clientOrder {
		out = append(out, s.clients[id])
	}
	return out, nil
}

func (s *Store) GetClient(_ context.Context, id string) (model.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return model.Client{}, storage.ErrNotFound
	}
	return c, nil
}

func (s *Store) CreateClient(_ context.Context, c model.Client) (model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.ID] = c
	s.clientOrder = append(s.clientOrder, c.ID)
	return c, nil
}

func (s *Store) UpdateClient(_ context.Context, id string, upd storage.ClientUpdate) (model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[id]
	if !ok {
		return model.Client{}, storage.ErrNotFound
	}
	if upd.FullName != nil {
		c.FullName = *upd.FullName
	}
	if upd.Phone != nil {
		c.Phone = *upd.Phone
	}
	if upd.Email != nil {
		c.Email = *upd.Email
	}
	if upd.Notes != nil {
		c.Notes = *upd.Notes
	}
	s.clients[id] = c
	return c, nil
}

func (s *Store) DeleteClient(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.clients, id)
	s.clientOrder = removeID(s.clientOrder, id)
	return nil
}

// ---- Appointments ----

func (s *Store) details(a model.Appointment) model.AppointmentDetails {
	svc := s.services[a.ServiceID]
	return model.AppointmentDetails{
		Appointment: a,
		Client:      s.clients[a.ClientID],
		Staff:       s.profiles[a.StaffID],
		Service:     model.ServiceWithCategory{Service: svc, Category: s.categoryByID(svc.CategoryID)},
	}
}

func (s *Store) listAppointments(filter func(model.Appointment) bool) []model.AppointmentDetails {
	var out []model.AppointmentDetails
	for _, id := range s.apptOrder {
		a := s.appointments[id]
		if filter == nil || filter(a) {
			out = append(out, s.details(a))
		}
	}
	return out
}

func (s *Store) GetAppointments(_ context.Context) ([]model.AppointmentDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listAppointments(nil), nil
}

func (s *Store) GetAppointmentsByStaff(_ context.Context, staffID string) ([]model.AppointmentDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listAppointments(func(a model.Appointment) bool { return a.StaffID == staffID }), nil
}

func (s *Store) GetAppointmentsByClient(_ context.Context, clientID string) ([]model.AppointmentDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listAppointments(func(a model.Appointment) bool { return a.ClientID == clientID }), nil
}

func (s *Store) ListActiveAppointmentsByStaff(_ context.Context, staffID string) ([]model.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Appointment
	for _, id := range s.apptOrder {
		a := s.appointments[id]
		if a.StaffID == staffID && a.Status != model.StatusCancelled {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) GetAppointment(_ context.Context, id string) (model.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appointments[id]
	if !ok {
		return model.Appointment{}, storage.ErrNotFound
	}
	return a, nil
}

func (s *Store) CreateAppointment(_ context.Context, a model.Appointment) (model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments[a.ID] = a
	s.apptOrder = append(s.apptOrder, a.ID)
	s.events = append(s.events, events.AppointmentCreated(a))
	return a, nil
}

func (s *Store) UpdateAppointmentStatus(_ context.Context, id string, status model.AppointmentStatus) (model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return model.Appointment{}, storage.ErrNotFound
	}
	previous := a.Status
	a.Status = status
	s.appointments[id] = a
	s.events = append(s.events, events.AppointmentStatusChanged(a, previous))
	return a, nil
}

func (s *Store) DeleteAppointment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appointments[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.appointments, id)
	s.apptOrder = removeID(s.apptOrder, id)
	s.events = append(s.events, events.AppointmentDeleted(id))
	return nil
}

// ---- Dashboard ----

func (s *Store) Snapshot(_ context.Context) (reporting.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := reporting.Snapshot{}
	for _, id := range s.apptOrder {
		snap.Appointments = append(snap.Appointments, s.appointments[id])
	}
	for _, id := range s.serviceOrder {
		snap.Services = append(snap.Services, s.services[id])
	}
	for _, id := range s.profileOrder {
		snap.Profiles = append(snap.Profiles, s.profiles[id])
	}
	for _, id := range s.clientOrder {
		snap.Clients = append(snap.Clients, s.clients[id])
	}
	return snap, nil
}
