package postgres

import (
	"context"

	"github.com/sofiane-rh/salon-erp/internal/model"
	"github.com/sofiane-rh/salon-erp/internal/storage"
)

func (s *Store) GetServiceCategories(ctx context.Context) ([]model.ServiceCategory, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM services_categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ServiceCategory
	for rows.Next() {
		var c model.ServiceCategory
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const serviceJoin = `
	SELECT s.id, s.category_id, s.name, s.price, s.duration, s.created_at, c.id, c.name
	FROM services s
	JOIN services_categories c ON c.id = s.category_id
`

func scanServiceWithCategory(row interface{ Scan(...any) error }) (model.ServiceWithCategory, error) {
	var sc model.ServiceWithCategory
	err := row.Scan(&sc.ID, &sc.CategoryID, &sc.Name, &sc.Price, &sc.Duration, &sc.CreatedAt,
		&sc.Category.ID, &sc.Category.Name)
	return sc, err
}

func (s *Store) GetServices(ctx context.Context) ([]model.ServiceWithCategory, error) {
	rows, err := s.pool.Query(ctx, serviceJoin+` ORDER BY s.created_at, s.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ServiceWithCategory
	for rows.Next() {
		sc, err := scanServiceWithCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *Store) GetService(ctx context.Context, id string) (model.ServiceWithCategory, error) {
	sc, err := scanServiceWithCategory(s.pool.QueryRow(ctx, serviceJoin+` WHERE s.id = $1`, id))
	if err != nil {
		return model.ServiceWithCategory{}, notFound(err)
	}
	return sc, nil
}

func (s *Store) CreateService(ctx context.Context, svc model.Service) (model.Service, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO services (id, category_id, name, price, duration)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, svc.ID, svc.CategoryID, svc.Name, svc.Price, svc.Duration).Scan(&svc.CreatedAt)
	if err != nil {
		return model.Service{}, err
	}
	return svc, nil
}

func (s *Store) UpdateService(ctx context.Context, id string, upd storage.ServiceUpdate) (model.Service, error) {
	var svc model.Service
	err := s.pool.QueryRow(ctx, `
		UPDATE services
		SET category_id = COALESCE($2, category_id),
			name        = COALESCE($3, name),
			price       = COALESCE($4, price),
			duration    = COALESCE($5, duration)
		WHERE id = $1
		RETURNING id, category_id, name, price, duration, created_at
	`, id, upd.CategoryID, upd.Name, upd.Price, upd.Duration).
		Scan(&svc.ID, &svc.CategoryID, &svc.Name, &svc.Price, &svc.Duration, &svc.CreatedAt)
	if err != nil {
		return model.Service{}, notFound(err)
	}
	return svc, nil
}

func (s *Store) DeleteService(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
