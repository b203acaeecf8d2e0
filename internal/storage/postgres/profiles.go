package postgres

import (
	"context"

	"github.com/sofiane-rh/salon-erp/internal/model"
	"github.com/sofiane-rh/salon-erp/internal/storage"
)

const profileColumns = `id, first_name, last_name, email, password, role, color_code, created_at`

func scanProfile(row interface{ Scan(...any) error }) (model.Profile, error) {
	var p model.Profile
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.PasswordHash, &p.Role, &p.ColorCode, &p.CreatedAt)
	return p, err
}

func (s *Store) GetProfiles(ctx context.Context) ([]model.ProfileWithSkills, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	skillsByProfile, err := s.skillsByProfile(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.ProfileWithSkills, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, model.ProfileWithSkills{Profile: p, Skills: skillsByProfile[p.ID]})
	}
	return out, nil
}

func (s *Store) skillsByProfile(ctx context.Context) (map[string][]int, error) {
	rows, err := s.pool.Query(ctx, `SELECT profile_id, category_id FROM staff_skills ORDER BY profile_id, category_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]int{}
	for rows.Next() {
		var profileID string
		var categoryID int
		if err := rows.Scan(&profileID, &categoryID); err != nil {
			return nil, err
		}
		out[profileID] = append(out[profileID], categoryID)
	}
	return out, rows.Err()
}

func (s *Store) GetProfile(ctx context.Context, id string) (model.ProfileWithSkills, error) {
	p, err := scanProfile(s.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		return model.ProfileWithSkills{}, notFound(err)
	}

	rows, err := s.pool.Query(ctx, `SELECT category_id FROM staff_skills WHERE profile_id = $1 ORDER BY category_id`, id)
	if err != nil {
		return model.ProfileWithSkills{}, err
	}
	defer rows.Close()

	var skills []int
	for rows.Next() {
		var categoryID int
		if err := rows.Scan(&categoryID); err != nil {
			return model.ProfileWithSkills{}, err
		}
		skills = append(skills, categoryID)
	}
	if rows.Err() != nil {
		return model.ProfileWithSkills{}, rows.Err()
	}
	return model.ProfileWithSkills{Profile: p, Skills: skills}, nil
}

func (s *Store) GetProfileByEmail(ctx context.Context, email string) (model.Profile, error) {
	p, err := scanProfile(s.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email))
	if err != nil {
		return model.Profile{}, notFound(err)
	}
	return p, nil
}

func (s *Store) GetStaffProfiles(ctx context.Context) ([]model.Profile, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE role IN ('staff', 'reception')
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) CreateProfile(ctx context.Context, p model.Profile, skills []int) (model.Profile, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.Profile{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	created, err := scanProfile(tx.QueryRow(ctx, `
		INSERT INTO profiles (id, first_name, last_name, email, password, role, color_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+profileColumns+`
	`, p.ID, p.FirstName, p.LastName, p.Email, p.PasswordHash, p.Role, p.ColorCode))
	if err != nil {
		if isUniqueViolation(err) {
			return model.Profile{}, storage.ErrDuplicateEmail
		}
		return model.Profile{}, err
	}

	for _, categoryID := range skills {
		if _, err := tx.Exec(ctx, `
			INSERT INTO staff_skills (profile_id, category_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, p.ID, categoryID); err != nil {
			return model.Profile{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Profile{}, err
	}
	return created, nil
}

func (s *Store) UpdateProfile(ctx context.Context, id string, upd storage.ProfileUpdate) (model.Profile, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.Profile{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	updated, err := scanProfile(tx.QueryRow(ctx, `
		UPDATE profiles
		SET first_name = COALESCE($2, first_name),
			last_name  = COALESCE($3, last_name),
			email      = COALESCE($4, email),
			password   = COALESCE($5, password),
			role       = COALESCE($6, role),
			color_code = COALESCE($7, color_code)
		WHERE id = $1
		RETURNING `+profileColumns+`
	`, id, upd.FirstName, upd.LastName, upd.Email, upd.PasswordHash, upd.Role, upd.ColorCode))
	if err != nil {
		if isUniqueViolation(err) {
			return model.Profile{}, storage.ErrDuplicateEmail
		}
		return model.Profile{}, notFound(err)
	}

	// A non-nil skill list replaces the full set; nil leaves it untouched.
	if upd.Skills != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM staff_skills WHERE profile_id = $1`, id); err != nil {
			return model.Profile{}, err
		}
		for _, categoryID := range *upd.Skills {
			if _, err := tx.Exec(ctx, `
				INSERT INTO staff_skills (profile_id, category_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, id, categoryID); err != nil {
				return model.Profile{}, err
			}
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Profile{}, err
	}
	return updated, nil
}

func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM staff_skills WHERE profile_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return tx.Commit(ctx)
}

func (s *Store) GetStaffSkills(ctx context.Context) ([]model.StaffSkill, error) {
	rows, err := s.pool.Query(ctx, `SELECT profile_id, category_id FROM staff_skills ORDER BY profile_id, category_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.StaffSkill
	for rows.Next() {
		var sk model.StaffSkill
		if err := rows.Scan(&sk.ProfileID, &sk.CategoryID); err != nil {
			return nil, err
		}
		out = append(out, sk)
	}
	return out, rows.Err()
}
