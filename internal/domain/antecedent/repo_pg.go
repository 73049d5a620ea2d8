package antecedent

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cpn/cpn/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// =========== Definition Repository ===========

// txQueryable is what the definition repository needs from its database
// handle: plain queries plus the ability to open a transaction for the
// multi-statement create.
type txQueryable interface {
	queryable
	db.Beginner
}

type definitionRepoPG struct{ pool txQueryable }

func NewDefinitionRepoPG(pool *pgxpool.Pool) DefinitionRepository {
	return &definitionRepoPG{pool: pool}
}

func (r *definitionRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const defCols = `id, code, name, description, antecedent_type, active, created_at, updated_at`

const fieldCols = `id, antecedent_definition_id, code, label, field_type, required, display_order, constraints, ui`

func scanDefinition(row pgx.Row) (*Definition, error) {
	var d Definition
	err := row.Scan(&d.ID, &d.Code, &d.Name, &d.Description, &d.AntecedentType,
		&d.Active, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *definitionRepoPG) CreateWithFields(ctx context.Context, d *Definition) error {
	err := db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		d.ID = uuid.New()
		conn := r.conn(ctx)
		_, err := conn.Exec(ctx, `
			INSERT INTO antecedent_definition (id, code, name, description, antecedent_type, active)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			d.ID, d.Code, d.Name, d.Description, d.AntecedentType, d.Active)
		if err != nil {
			return err
		}
		for _, f := range d.Fields {
			f.ID = uuid.New()
			f.DefinitionID = d.ID
			_, err := conn.Exec(ctx, `
				INSERT INTO antecedent_field_definition
					(id, antecedent_definition_id, code, label, field_type, required, display_order, constraints, ui)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
				f.ID, f.DefinitionID, f.Code, f.Label, f.Type, f.Required, f.DisplayOrder, f.Constraints, f.UI)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if isUniqueViolation(err) {
		return ErrCodeExists
	}
	return err
}

func (r *definitionRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Definition, error) {
	d, err := scanDefinition(r.conn(ctx).QueryRow(ctx,
		`SELECT `+defCols+` FROM antecedent_definition WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDefinitionNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadFields(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *definitionRepoPG) GetByCode(ctx context.Context, code string) (*Definition, error) {
	d, err := scanDefinition(r.conn(ctx).QueryRow(ctx,
		`SELECT `+defCols+` FROM antecedent_definition WHERE code = $1`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDefinitionNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadFields(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *definitionRepoPG) loadFields(ctx context.Context, d *Definition) error {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+fieldCols+` FROM antecedent_field_definition
		WHERE antecedent_definition_id = $1 ORDER BY display_order ASC`, d.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var f FieldDefinition
		if err := rows.Scan(&f.ID, &f.DefinitionID, &f.Code, &f.Label, &f.Type,
			&f.Required, &f.DisplayOrder, &f.Constraints, &f.UI); err != nil {
			return err
		}
		d.Fields = append(d.Fields, &f)
	}
	return rows.Err()
}

func (r *definitionRepoPG) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Definition, int, error) {
	where := ``
	if activeOnly {
		where = ` WHERE active`
	}
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM antecedent_definition`+where).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+defCols+` FROM antecedent_definition`+where+` ORDER BY code ASC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Definition
	for rows.Next() {
		d, err := scanDefinition(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, d := range items {
		if err := r.loadFields(ctx, d); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

func (r *definitionRepoPG) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE antecedent_definition SET active=$2, updated_at=NOW() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDefinitionNotFound
	}
	return nil
}

// =========== Patient Antecedent Repository ===========

type patientAntecedentRepoPG struct{ pool *pgxpool.Pool }

func NewPatientAntecedentRepoPG(pool *pgxpool.Pool) PatientAntecedentRepository {
	return &patientAntecedentRepoPG{pool: pool}
}

func (r *patientAntecedentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const paCols = `id, patient_id, antecedent_definition_id, field_values, recorded_at, recorded_by`

func scanPatientAntecedent(row pgx.Row) (*PatientAntecedent, error) {
	var pa PatientAntecedent
	err := row.Scan(&pa.ID, &pa.PatientID, &pa.DefinitionID, &pa.Values, &pa.RecordedAt, &pa.RecordedBy)
	return &pa, err
}

func (r *patientAntecedentRepoPG) Get(ctx context.Context, patientID, definitionID uuid.UUID) (*PatientAntecedent, error) {
	pa, err := scanPatientAntecedent(r.conn(ctx).QueryRow(ctx, `
		SELECT `+paCols+` FROM patient_antecedent
		WHERE patient_id = $1 AND antecedent_definition_id = $2`, patientID, definitionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return pa, nil
}

func (r *patientAntecedentRepoPG) Insert(ctx context.Context, pa *PatientAntecedent) error {
	pa.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient_antecedent (id, patient_id, antecedent_definition_id, field_values, recorded_at, recorded_by)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		pa.ID, pa.PatientID, pa.DefinitionID, pa.Values, pa.RecordedAt, pa.RecordedBy)
	if isUniqueViolation(err) {
		return ErrPairConflict
	}
	return err
}

func (r *patientAntecedentRepoPG) Update(ctx context.Context, pa *PatientAntecedent) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient_antecedent SET field_values=$3, recorded_at=$4, recorded_by=$5
		WHERE patient_id = $1 AND antecedent_definition_id = $2`,
		pa.PatientID, pa.DefinitionID, pa.Values, pa.RecordedAt, pa.RecordedBy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *patientAntecedentRepoPG) List(ctx context.Context, limit, offset int) ([]*PatientAntecedent, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient_antecedent`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+paCols+` FROM patient_antecedent ORDER BY recorded_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*PatientAntecedent
	for rows.Next() {
		pa, err := scanPatientAntecedent(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, pa)
	}
	return items, total, rows.Err()
}

func (r *patientAntecedentRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*PatientAntecedent, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM patient_antecedent WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+paCols+` FROM patient_antecedent
		WHERE patient_id = $1 ORDER BY recorded_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*PatientAntecedent
	for rows.Next() {
		pa, err := scanPatientAntecedent(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, pa)
	}
	return items, total, rows.Err()
}
