package postgres

import (
	"context"

	"github.com/sofiane-rh/salon-erp/internal/model"
	"github.com/sofiane-rh/salon-erp/internal/storage"
)

const clientColumns = `id, full_name, phone, email, notes, created_at`

func scanClient(row interface{ Scan(...any) error }) (model.Client, error) {
	var c model.Client
	err := row.Scan(&c.ID, &c.FullName, &c.Phone, &c.Email, &c.Notes, &c.CreatedAt)
	return c, err
}

func (s *Store) GetClients(ctx context.Context) ([]model.Client, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetClient(ctx context.Context, id string) (model.Client, error) {
	c, err := scanClient(s.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		return model.Client{}, notFound(err)
	}
	return c, nil
}

func (s *Store) CreateClient(ctx context.Context, c model.Client) (model.Client, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO clients (id, full_name, phone, email, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, c.ID, c.FullName, c.Phone, c.Email, c.Notes).Scan(&c.CreatedAt)
	if err != nil {
		return model.Client{}, err
	}
	return c, nil
}

func (s *Store) UpdateClient(ctx context.Context, id string, upd storage.ClientUpdate) (model.Client, error) {
	c, err := scanClient(s.pool.QueryRow(ctx, `
		UPDATE clients
		SET full_name = COALESCE($2, full_name),
			phone     = COALESCE($3, phone),
			email     = COALESCE($4, email),
			notes     = COALESCE($5, notes)
		WHERE id = $1
		RETURNING `+clientColumns+`
	`, id, upd.FullName, upd.Phone, upd.Email, upd.Notes))
	if err != nil {
		return model.Client{}, notFound(err)
	}
	return c, nil
}

func (s *Store) DeleteClient(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
