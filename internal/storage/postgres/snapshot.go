package postgres

import (
	"context"

	"github.com/sofiane-rh/salon-erp/internal/model"
	"github.com/sofiane-rh/salon-erp/internal/reporting"
)

// Snapshot loads the full ledger for dashboard computation. The tables are
// small (one salon's worth of data) so four plain selects beat pushing the
// aggregation into SQL.
func (s *Store) Snapshot(ctx context.Context) (reporting.Snapshot, error) {
	var snap reporting.Snapshot

	rows, err := s.pool.Query(ctx, `SELECT `+appointmentColumns+` FROM appointments ORDER BY start_time, id`)
	if err != nil {
		return reporting.Snapshot{}, err
	}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			rows.Close()
			return reporting.Snapshot{}, err
		}
		snap.Appointments = append(snap.Appointments, a)
	}
	rows.Close()
	if rows.Err() != nil {
		return reporting.Snapshot{}, rows.Err()
	}

	rows, err = s.pool.Query(ctx, `SELECT id, category_id, name, price, duration, created_at FROM services`)
	if err != nil {
		return reporting.Snapshot{}, err
	}
	for rows.Next() {
		var svc model.Service
		if err := rows.Scan(&svc.ID, &svc.CategoryID, &svc.Name, &svc.Price, &svc.Duration, &svc.CreatedAt); err != nil {
			rows.Close()
			return reporting.Snapshot{}, err
		}
		snap.Services = append(snap.Services, svc)
	}
	rows.Close()
	if rows.Err() != nil {
		return reporting.Snapshot{}, rows.Err()
	}

	rows, err = s.pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles`)
	if err != nil {
		return reporting.Snapshot{}, err
	}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			rows.Close()
			return reporting.Snapshot{}, err
		}
		snap.Profiles = append(snap.Profiles, p)
	}
	rows.Close()
	if rows.Err() != nil {
		return reporting.Snapshot{}, rows.Err()
	}

	rows, err = s.pool.Query(ctx, `SELECT `+clientColumns+` FROM clients`)
	if err != nil {
		return reporting.Snapshot{}, err
	}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			rows.Close()
			return reporting.Snapshot{}, err
		}
		snap.Clients = append(snap.Clients, c)
	}
	rows.Close()
	return snap, rows.Err()
}
