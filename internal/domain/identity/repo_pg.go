package identity

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
			return ErrDuplicateDocument
		case "23503":
			return ErrInUse
		}
	}
	return err
}

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository { return &patientRepoPG{pool: pool} }

func (r *patientRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const patientCols = `id, establishment_id, document_id, last_name, first_name,
	phone, email, birth_date, address, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.EstablishmentID, &p.DocumentID, &p.LastName, &p.FirstName,
		&p.Phone, &p.Email, &p.BirthDate, &p.Address, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patients (id, establishment_id, document_id, last_name, first_name,
			phone, email, birth_date, address)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.EstablishmentID, p.DocumentID, p.LastName, p.FirstName,
		p.Phone, p.Email, p.BirthDate, p.Address)
	if err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *patientRepoPG) GetByID(ctx context.Context, id, establishmentID uuid.UUID) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1 AND establishment_id = $2`,
		id, establishmentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET document_id=$3, last_name=$4, first_name=$5,
			phone=$6, email=$7, birth_date=$8, address=$9, updated_at=NOW()
		WHERE id = $1 AND establishment_id = $2`,
		p.ID, p.EstablishmentID, p.DocumentID, p.LastName, p.FirstName,
		p.Phone, p.Email, p.BirthDate, p.Address)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientRepoPG) Delete(ctx context.Context, id, establishmentID uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM patients WHERE id = $1 AND establishment_id = $2`, id, establishmentID)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientRepoPG) Exists(ctx context.Context, id, establishmentID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1 AND establishment_id = $2)`,
		id, establishmentID).Scan(&exists)
	return exists, err
}

func (r *patientRepoPG) Search(ctx context.Context, establishmentID uuid.UUID, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	query := `SELECT ` + patientCols + ` FROM patients WHERE establishment_id = $1`
	countQuery := `SELECT COUNT(*) FROM patients WHERE establishment_id = $1`
	args := []interface{}{establishmentID}
	idx := 2

	if p, ok := params["q"]; ok {
		clause := fmt.Sprintf(` AND (last_name ILIKE $%d OR first_name ILIKE $%d OR document_id ILIKE $%d)`, idx, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+p+"%")
		idx++
	}
	if p, ok := params["document"]; ok {
		query += fmt.Sprintf(` AND document_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND document_id = $%d`, idx)
		args = append(args, p)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY last_name ASC, first_name ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

// =========== Professional Repository ===========

type professionalRepoPG struct{ pool *pgxpool.Pool }

func NewProfessionalRepoPG(pool *pgxpool.Pool) ProfessionalRepository {
	return &professionalRepoPG{pool: pool}
}

func (r *professionalRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const professionalCols = `id, establishment_id, last_name, first_name, specialty,
	phone, email, availability, created_at, updated_at`

func scanProfessional(row pgx.Row) (*Professional, error) {
	var p Professional
	err := row.Scan(&p.ID, &p.EstablishmentID, &p.LastName, &p.FirstName, &p.Specialty,
		&p.Phone, &p.Email, &p.Availability, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *professionalRepoPG) Create(ctx context.Context, p *Professional) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO professionals (id, establishment_id, last_name, first_name, specialty,
			phone, email, availability)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.EstablishmentID, p.LastName, p.FirstName, p.Specialty,
		p.Phone, p.Email, p.Availability)
	if err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *professionalRepoPG) GetByID(ctx context.Context, id, establishmentID uuid.UUID) (*Professional, error) {
	p, err := scanProfessional(r.conn(ctx).QueryRow(ctx,
		`SELECT `+professionalCols+` FROM professionals WHERE id = $1 AND establishment_id = $2`,
		id, establishmentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *professionalRepoPG) Update(ctx context.Context, p *Professional) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE professionals SET last_name=$3, first_name=$4, specialty=$5,
			phone=$6, email=$7, availability=$8, updated_at=NOW()
		WHERE id = $1 AND establishment_id = $2`,
		p.ID, p.EstablishmentID, p.LastName, p.FirstName, p.Specialty,
		p.Phone, p.Email, p.Availability)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *professionalRepoPG) Delete(ctx context.Context, id, establishmentID uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM professionals WHERE id = $1 AND establishment_id = $2`, id, establishmentID)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *professionalRepoPG) Exists(ctx context.Context, id, establishmentID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM professionals WHERE id = $1 AND establishment_id = $2)`,
		id, establishmentID).Scan(&exists)
	return exists, err
}

func (r *professionalRepoPG) Search(ctx context.Context, establishmentID uuid.UUID, params map[string]string, limit, offset int) ([]*Professional, int, error) {
	query := `SELECT ` + professionalCols + ` FROM professionals WHERE establishment_id = $1`
	countQuery := `SELECT COUNT(*) FROM professionals WHERE establishment_id = $1`
	args := []interface{}{establishmentID}
	idx := 2

	if p, ok := params["q"]; ok {
		clause := fmt.Sprintf(` AND (last_name ILIKE $%d OR first_name ILIKE $%d)`, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+p+"%")
		idx++
	}
	if p, ok := params["specialty"]; ok {
		query += fmt.Sprintf(` AND specialty = $%d`, idx)
		countQuery += fmt.Sprintf(` AND specialty = $%d`, idx)
		args = append(args, p)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY last_name ASC, first_name ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Professional
	for rows.Next() {
		p, err := scanProfessional(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
