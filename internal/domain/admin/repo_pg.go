package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinica/clinica/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicateEmail
		case "23503":
			return ErrInUse
		}
	}
	return err
}

// =========== Establishment Repository ===========

type establishmentRepoPG struct{ pool *pgxpool.Pool }

func NewEstablishmentRepoPG(pool *pgxpool.Pool) EstablishmentRepository {
	return &establishmentRepoPG{pool: pool}
}

func (r *establishmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const establishmentCols = `id, name, address, phone, email, active, created_at, updated_at`

func scanEstablishment(row pgx.Row) (*Establishment, error) {
	var e Establishment
	err := row.Scan(&e.ID, &e.Name, &e.Address, &e.Phone, &e.Email, &e.Active,
		&e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *establishmentRepoPG) Create(ctx context.Context, e *Establishment) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO establishments (id, name, address, phone, email, active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		e.ID, e.Name, e.Address, e.Phone, e.Email, e.Active)
	if err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *establishmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Establishment, error) {
	e, err := scanEstablishment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+establishmentCols+` FROM establishments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *establishmentRepoPG) Update(ctx context.Context, e *Establishment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE establishments SET name=$2, address=$3, phone=$4, email=$5, active=$6, updated_at=NOW()
		WHERE id = $1`,
		e.ID, e.Name, e.Address, e.Phone, e.Email, e.Active)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *establishmentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM establishments WHERE id = $1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *establishmentRepoPG) List(ctx context.Context, limit, offset int) ([]*Establishment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM establishments`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+establishmentCols+` FROM establishments ORDER BY name ASC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Establishment
	for rows.Next() {
		e, err := scanEstablishment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}

// =========== Staff User Repository ===========

type staffUserRepoPG struct{ pool *pgxpool.Pool }

func NewStaffUserRepoPG(pool *pgxpool.Pool) StaffUserRepository {
	return &staffUserRepoPG{pool: pool}
}

func (r *staffUserRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const staffCols = `id, establishment_id, name, email, password_hash, role, active, created_at, updated_at`

func scanStaffUser(row pgx.Row) (*StaffUser, error) {
	var u StaffUser
	err := row.Scan(&u.ID, &u.EstablishmentID, &u.Name, &u.Email, &u.PasswordHash,
		&u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	return &u, err
}

func (r *staffUserRepoPG) Create(ctx context.Context, u *StaffUser) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO staff_users (id, establishment_id, name, email, password_hash, role, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.EstablishmentID, u.Name, u.Email, u.PasswordHash, u.Role, u.Active)
	if err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *staffUserRepoPG) GetByID(ctx context.Context, id, establishmentID uuid.UUID) (*StaffUser, error) {
	u, err := scanStaffUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+staffCols+` FROM staff_users WHERE id = $1 AND establishment_id = $2`,
		id, establishmentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *staffUserRepoPG) GetByEmail(ctx context.Context, email string, establishmentID uuid.UUID) (*StaffUser, error) {
	u, err := scanStaffUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+staffCols+` FROM staff_users WHERE email = $1 AND establishment_id = $2`,
		email, establishmentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *staffUserRepoPG) Update(ctx context.Context, u *StaffUser) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE staff_users SET name=$3, email=$4, password_hash=$5, role=$6, active=$7, updated_at=NOW()
		WHERE id = $1 AND establishment_id = $2`,
		u.ID, u.EstablishmentID, u.Name, u.Email, u.PasswordHash, u.Role, u.Active)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *staffUserRepoPG) Delete(ctx context.Context, id, establishmentID uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM staff_users WHERE id = $1 AND establishment_id = $2`, id, establishmentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *staffUserRepoPG) Search(ctx context.Context, establishmentID uuid.UUID, params map[string]string, limit, offset int) ([]*StaffUser, int, error) {
	query := `SELECT ` + staffCols + ` FROM staff_users WHERE establishment_id = $1`
	countQuery := `SELECT COUNT(*) FROM staff_users WHERE establishment_id = $1`
	args := []interface{}{establishmentID}
	idx := 2

	if p, ok := params["q"]; ok {
		clause := fmt.Sprintf(` AND (name ILIKE $%d OR email ILIKE $%d)`, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+p+"%")
		idx++
	}
	if p, ok := params["role"]; ok {
		query += fmt.Sprintf(` AND role = $%d`, idx)
		countQuery += fmt.Sprintf(` AND role = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["active"]; ok {
		query += fmt.Sprintf(` AND active = $%d`, idx)
		countQuery += fmt.Sprintf(` AND active = $%d`, idx)
		args = append(args, p)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY name ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*StaffUser
	for rows.Next() {
		u, err := scanStaffUser(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, u)
	}
	return items, total, rows.Err()
}
