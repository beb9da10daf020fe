package billing

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
			return ErrDuplicateCode
		case "23503":
			return ErrAppointmentNotFound
		}
	}
	return err
}

// =========== Tariff Repository ===========

type tariffRepoPG struct{ pool *pgxpool.Pool }

func NewTariffRepoPG(pool *pgxpool.Pool) TariffRepository { return &tariffRepoPG{pool: pool} }

func (r *tariffRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const tariffCols = `id, establishment_id, code, name, category, value, active, created_at, updated_at`

func scanTariff(row pgx.Row) (*Tariff, error) {
	var t Tariff
	err := row.Scan(&t.ID, &t.EstablishmentID, &t.Code, &t.Name, &t.Category,
		&t.Value, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	return &t, err
}

func (r *tariffRepoPG) Create(ctx context.Context, t *Tariff) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO tariffs (id, establishment_id, code, name, category, value, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		t.ID, t.EstablishmentID, t.Code, t.Name, t.Category, t.Value, t.Active)
	if err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *tariffRepoPG) GetByID(ctx context.Context, id, establishmentID uuid.UUID) (*Tariff, error) {
	t, err := scanTariff(r.conn(ctx).QueryRow(ctx,
		`SELECT `+tariffCols+` FROM tariffs WHERE id = $1 AND establishment_id = $2`,
		id, establishmentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *tariffRepoPG) Update(ctx context.Context, t *Tariff) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE tariffs SET code=$3, name=$4, category=$5, value=$6, active=$7, updated_at=NOW()
		WHERE id = $1 AND establishment_id = $2`,
		t.ID, t.EstablishmentID, t.Code, t.Name, t.Category, t.Value, t.Active)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tariffRepoPG) Delete(ctx context.Context, id, establishmentID uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM tariffs WHERE id = $1 AND establishment_id = $2`, id, establishmentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tariffRepoPG) Search(ctx context.Context, establishmentID uuid.UUID, params map[string]string, limit, offset int) ([]*Tariff, int, error) {
	query := `SELECT ` + tariffCols + ` FROM tariffs WHERE establishment_id = $1`
	countQuery := `SELECT COUNT(*) FROM tariffs WHERE establishment_id = $1`
	args := []interface{}{establishmentID}
	idx := 2

	if p, ok := params["q"]; ok {
		clause := fmt.Sprintf(` AND (code ILIKE $%d OR name ILIKE $%d)`, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+p+"%")
		idx++
	}
	if p, ok := params["category"]; ok {
		query += fmt.Sprintf(` AND category = $%d`, idx)
		countQuery += fmt.Sprintf(` AND category = $%d`, idx)
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

	query += fmt.Sprintf(` ORDER BY code ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Tariff
	for rows.Next() {
		t, err := scanTariff(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, rows.Err()
}

// =========== Procedure Repository ===========

type procedureRepoPG struct{ pool *pgxpool.Pool }

func NewProcedureRepoPG(pool *pgxpool.Pool) ProcedureRepository { return &procedureRepoPG{pool: pool} }

func (r *procedureRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const procedureCols = `id, establishment_id, appointment_id, code, name, category, created_at, updated_at`

func scanProcedure(row pgx.Row) (*Procedure, error) {
	var p Procedure
	err := row.Scan(&p.ID, &p.EstablishmentID, &p.AppointmentID, &p.Code, &p.Name,
		&p.Category, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *procedureRepoPG) Create(ctx context.Context, p *Procedure) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO procedures (id, establishment_id, appointment_id, code, name, category)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.EstablishmentID, p.AppointmentID, p.Code, p.Name, p.Category)
	if err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *procedureRepoPG) GetByID(ctx context.Context, id, establishmentID uuid.UUID) (*Procedure, error) {
	p, err := scanProcedure(r.conn(ctx).QueryRow(ctx,
		`SELECT `+procedureCols+` FROM procedures WHERE id = $1 AND establishment_id = $2`,
		id, establishmentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *procedureRepoPG) Update(ctx context.Context, p *Procedure) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE procedures SET code=$3, name=$4, category=$5, updated_at=NOW()
		WHERE id = $1 AND establishment_id = $2`,
		p.ID, p.EstablishmentID, p.Code, p.Name, p.Category)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *procedureRepoPG) Delete(ctx context.Context, id, establishmentID uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM procedures WHERE id = $1 AND establishment_id = $2`, id, establishmentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *procedureRepoPG) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*Procedure, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+procedureCols+` FROM procedures WHERE appointment_id = $1 ORDER BY created_at ASC`,
		appointmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Procedure
	for rows.Next() {
		p, err := scanProcedure(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *procedureRepoPG) ExistsForAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM procedures WHERE appointment_id = $1)`,
		appointmentID).Scan(&exists)
	return exists, err
}

func (r *procedureRepoPG) Search(ctx context.Context, establishmentID uuid.UUID, params map[string]string, limit, offset int) ([]*Procedure, int, error) {
	query := `SELECT ` + procedureCols + ` FROM procedures WHERE establishment_id = $1`
	countQuery := `SELECT COUNT(*) FROM procedures WHERE establishment_id = $1`
	args := []interface{}{establishmentID}
	idx := 2

	if p, ok := params["q"]; ok {
		clause := fmt.Sprintf(` AND (code ILIKE $%d OR name ILIKE $%d)`, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+p+"%")
		idx++
	}
	if p, ok := params["appointment"]; ok {
		query += fmt.Sprintf(` AND appointment_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND appointment_id = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["category"]; ok {
		query += fmt.Sprintf(` AND category = $%d`, idx)
		countQuery += fmt.Sprintf(` AND category = $%d`, idx)
		args = append(args, p)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Procedure
	for rows.Next() {
		p, err := scanProcedure(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
