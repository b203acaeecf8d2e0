package postgres

import (
	"context"
	"time"

	"github.com/sofiane-rh/salon-erp/internal/events"
	"github.com/sofiane-rh/salon-erp/internal/model"
	"github.com/sofiane-rh/salon-erp/internal/storage"
)

// Appointments carry no FK constraints, so a related client, staff profile
// or service may have been hard-deleted. LEFT JOINs keep such rows listed,
// with the missing relation zero-valued.
const appointmentDetailsQuery = `
	SELECT a.id, a.client_id, a.staff_id, a.service_id, a.start_time, a.end_time, a.status, a.created_at,
		cl.id, cl.full_name, cl.phone, cl.email, cl.notes, cl.created_at,
		st.id, st.first_name, st.last_name, st.email, st.password, st.role, st.color_code, st.created_at,
		sv.id, sv.category_id, sv.name, sv.price, sv.duration, sv.created_at, c.id, c.name
	FROM appointments a
	LEFT JOIN clients cl ON cl.id = a.client_id
	LEFT JOIN profiles st ON st.id = a.staff_id
	LEFT JOIN services sv ON sv.id = a.service_id
	LEFT JOIN services_categories c ON c.id = sv.category_id
`

func scanAppointmentDetails(row interface{ Scan(...any) error }) (model.AppointmentDetails, error) {
	var d model.AppointmentDetails
	var (
		clID, clName, clPhone, clEmail, clNotes         *string
		clCreated                                       *time.Time
		stID, stFirst, stLast, stEmail, stPass, stColor *string
		stRole                                          *string
		stCreated                                       *time.Time
		svID, svName                                    *string
		svCategory, svPrice, svDuration                 *int
		svCreated                                       *time.Time
		catID                                           *int
		catName                                         *string
	)
	err := row.Scan(
		&d.ID, &d.ClientID, &d.StaffID, &d.ServiceID, &d.StartTime, &d.EndTime, &d.Status, &d.CreatedAt,
		&clID, &clName, &clPhone, &clEmail, &clNotes, &clCreated,
		&stID, &stFirst, &stLast, &stEmail, &stPass, &stRole, &stColor, &stCreated,
		&svID, &svCategory, &svName, &svPrice, &svDuration, &svCreated, &catID, &catName,
	)
	if err != nil {
		return model.AppointmentDetails{}, err
	}
	if clID != nil {
		d.Client = model.Client{ID: *clID, FullName: *clName, Phone: *clPhone, Email: *clEmail, Notes: *clNotes, CreatedAt: *clCreated}
	}
	if stID != nil {
		d.Staff = model.Profile{ID: *stID, FirstName: *stFirst, LastName: *stLast, Email: *stEmail, PasswordHash: *stPass, Role: model.Role(*stRole), ColorCode: *stColor, CreatedAt: *stCreated}
	}
	if svID != nil {
		d.Service.Service = model.Service{ID: *svID, CategoryID: *svCategory, Name: *svName, Price: *svPrice, Duration: *svDuration, CreatedAt: *svCreated}
		if catID != nil {
			d.Service.Category = model.ServiceCategory{ID: *catID, Name: *catName}
		}
	}
	return d, nil
}

func (s *Store) queryAppointmentDetails(ctx context.Context, where string, args ...any) ([]model.AppointmentDetails, error) {
	rows, err := s.pool.Query(ctx, appointmentDetailsQuery+where+` ORDER BY a.start_time, a.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AppointmentDetails
	for rows.Next() {
		d, err := scanAppointmentDetails(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) GetAppointments(ctx context.Context) ([]model.AppointmentDetails, error) {
	return s.queryAppointmentDetails(ctx, ``)
}

func (s *Store) GetAppointmentsByStaff(ctx context.Context, staffID string) ([]model.AppointmentDetails, error) {
	return s.queryAppointmentDetails(ctx, ` WHERE a.staff_id = $1`, staffID)
}

func (s *Store) GetAppointmentsByClient(ctx context.Context, clientID string) ([]model.AppointmentDetails, error) {
	return s.queryAppointmentDetails(ctx, ` WHERE a.client_id = $1`, clientID)
}

const appointmentColumns = `id, client_id, staff_id, service_id, start_time, end_time, status, created_at`

func scanAppointment(row interface{ Scan(...any) error }) (model.Appointment, error) {
	var a model.Appointment
	err := row.Scan(&a.ID, &a.ClientID, &a.StaffID, &a.ServiceID, &a.StartTime, &a.EndTime, &a.Status, &a.CreatedAt)
	return a, err
}

// ListActiveAppointmentsByStaff returns the staff member's appointments that
// still occupy calendar time, so cancelled ones never block a slot.
func (s *Store) ListActiveAppointmentsByStaff(ctx context.Context, staffID string) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE staff_id = $1 AND status <> 'cancelled'
		ORDER BY start_time, id
	`, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) GetAppointment(ctx context.Context, id string) (model.Appointment, error) {
	a, err := scanAppointment(s.pool.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id))
	if err != nil {
		return model.Appointment{}, notFound(err)
	}
	return a, nil
}

func (s *Store) CreateAppointment(ctx context.Context, a model.Appointment) (model.Appointment, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.Appointment{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	created, err := scanAppointment(tx.QueryRow(ctx, `
		INSERT INTO appointments (id, client_id, staff_id, service_id, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+appointmentColumns+`
	`, a.ID, a.ClientID, a.StaffID, a.ServiceID, a.StartTime, a.EndTime, a.Status))
	if err != nil {
		return model.Appointment{}, err
	}
	if err := s.outbox.Insert(ctx, tx, events.AppointmentCreated(created)); err != nil {
		return model.Appointment{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Appointment{}, err
	}
	return created, nil
}

func (s *Store) UpdateAppointmentStatus(ctx context.Context, id string, status model.AppointmentStatus) (model.Appointment, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.Appointment{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var previous model.AppointmentStatus
	if err := tx.QueryRow(ctx, `SELECT status FROM appointments WHERE id = $1 FOR UPDATE`, id).Scan(&previous); err != nil {
		return model.Appointment{}, notFound(err)
	}

	updated, err := scanAppointment(tx.QueryRow(ctx, `
		UPDATE appointments SET status = $2 WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, id, status))
	if err != nil {
		return model.Appointment{}, err
	}
	if err := s.outbox.Insert(ctx, tx, events.AppointmentStatusChanged(updated, previous)); err != nil {
		return model.Appointment{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Appointment{}, err
	}
	return updated, nil
}

func (s *Store) DeleteAppointment(ctx context.Context, id string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	if err := s.outbox.Insert(ctx, tx, events.AppointmentDeleted(id)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
