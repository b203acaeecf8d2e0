// Package storage defines the persistence contract of the application.
// Handlers depend on the Store interface only, so the Postgres
// implementation can be swapped for the in-memory one in tests or
// database-less development.
package storage

import (
	"context"
	"errors"

	"github.com/sofiane-rh/salon-erp/internal/model"
	"github.com/sofiane-rh/salon-erp/internal/reporting"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// ProfileUpdate carries a partial profile PATCH; nil fields are untouched.
// Skills, when non-nil, replaces the full skill set.
type ProfileUpdate struct {
	FirstName    *string
	LastName     *string
	Email        *string
	PasswordHash *string
	Role         *model.Role
	ColorCode    *string
	Skills       *[]int
}

type ServiceUpdate struct {
	CategoryID *int
	Name       *string
	Price      *int
	Duration   *int
}

type ClientUpdate struct {
	FullName *string
	Phone    *string
	Email    *string
	Notes    *string
}

type Store interface {
	// Profiles
	GetProfiles(ctx context.Context) ([]model.ProfileWithSkills, error)
	GetProfile(ctx context.Context, id string) (model.ProfileWithSkills, error)
	GetProfileByEmail(ctx context.Context, email string) (model.Profile, error)
	GetStaffProfiles(ctx context.Context) ([]model.Profile, error)
	CreateProfile(ctx context.Context, p model.Profile, skills []int) (model.Profile, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (model.Profile, error)
	DeleteProfile(ctx context.Context, id string) error
	GetStaffSkills(ctx context.Context) ([]model.StaffSkill, error)

	// Catalog
	GetServiceCategories(ctx context.Context) ([]model.ServiceCategory, error)
	GetServices(ctx context.Context) ([]model.ServiceWithCategory, error)
	GetService(ctx context.Context, id string) (model.ServiceWithCategory, error)
	CreateService(ctx context.Context, s model.Service) (model.Service, error)
	UpdateService(ctx context.Context, id string, upd ServiceUpdate) (model.Service, error)
	DeleteService(ctx context.Context, id string) error

	// Clients
	GetClients(ctx context.Context) ([]model.Client, error)
	GetClient(ctx context.Context, id string) (model.Client, error)
	CreateClient(ctx context.Context, c model.Client) (model.Client, error)
	UpdateClient(ctx context.Context, id string, upd ClientUpdate) (model.Client, error)
	DeleteClient(ctx context.Context, id string) error

	// Appointments
	GetAppointments(ctx context.Context) ([]model.AppointmentDetails, error)
	GetAppointmentsByStaff(ctx context.Context, staffID string) ([]model.AppointmentDetails, error)
	GetAppointmentsByClient(ctx context.Context, clientID string) ([]model.AppointmentDetails, error)
	ListActiveAppointmentsByStaff(ctx context.Context, staffID string) ([]model.Appointment, error)
	GetAppointment(ctx context.Context, id string) (model.Appointment, error)
	CreateAppointment(ctx context.Context, a model.Appointment) (model.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id string, status model.AppointmentStatus) (model.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error

	// Dashboard
	Snapshot(ctx context.Context) (reporting.Snapshot, error)
}
