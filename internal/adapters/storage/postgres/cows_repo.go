package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"smartmilk/internal/domain/cows"
)

const cowColumns = `
	id, owner_user_id,
	name, age, lactation_stage, photo,
	milk_volume, fat_percent, protein_percent, lactose_percent, ph,
	created_at, updated_at`

type CowsRepo struct {
	db *sql.DB
}

func NewCowsRepo(db *sql.DB) *CowsRepo {
	return &CowsRepo{db: db}
}

// NextID toma el próximo valor de cows_id_seq y lo formatea como COW001.
func (r *CowsRepo) NextID(ctx context.Context) (string, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT nextval('cows_id_seq')`).Scan(&n); err != nil {
		return "", err
	}
	return cows.FormatID(n), nil
}

func (r *CowsRepo) Create(ctx context.Context, c cows.Cow) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cows (`+cowColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		c.ID,
		c.OwnerUserID,
		c.Name,
		c.Age,
		c.LactationStage,
		c.Photo,
		c.MilkVolume,
		c.FatPercent,
		c.ProteinPercent,
		c.LactosePercent,
		c.PH,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func (r *CowsRepo) Update(ctx context.Context, c cows.Cow) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cows
		SET
			name = $2,
			age = $3,
			lactation_stage = $4,
			photo = $5,
			milk_volume = $6,
			fat_percent = $7,
			protein_percent = $8,
			lactose_percent = $9,
			ph = $10,
			updated_at = $11
		WHERE id = $1
	`,
		c.ID,
		c.Name,
		c.Age,
		c.LactationStage,
		c.Photo,
		c.MilkVolume,
		c.FatPercent,
		c.ProteinPercent,
		c.LactosePercent,
		c.PH,
		c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return cows.ErrNotFound
	}
	return nil
}

func (r *CowsRepo) GetByID(ctx context.Context, id string) (cows.Cow, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return cows.Cow{}, cows.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+cowColumns+` FROM cows WHERE id = $1`, id)
	c, err := scanCow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cows.Cow{}, cows.ErrNotFound
		}
		return cows.Cow{}, err
	}
	return c, nil
}

func (r *CowsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]cows.Cow, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return []cows.Cow{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+cowColumns+`
		FROM cows
		WHERE owner_user_id = $1
		ORDER BY created_at DESC, id DESC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]cows.Cow, 0)
	for rows.Next() {
		c, err := scanCow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CowsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cows WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return cows.ErrNotFound
	}
	return nil
}

// rowScanner cubre *sql.Row y *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCow(s rowScanner) (cows.Cow, error) {
	var c cows.Cow
	err := s.Scan(
		&c.ID,
		&c.OwnerUserID,
		&c.Name,
		&c.Age,
		&c.LactationStage,
		&c.Photo,
		&c.MilkVolume,
		&c.FatPercent,
		&c.ProteinPercent,
		&c.LactosePercent,
		&c.PH,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}
