package prenatal

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

type formRepoPG struct{ pool *pgxpool.Pool }

func NewFormRepoPG(pool *pgxpool.Pool) FormRepository {
	return &formRepoPG{pool: pool}
}

func (r *formRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const formCols = `id, patient_id, lmp, estimated_due_date, created_at, updated_at`

const consultationCols = `id, prenatal_form_id, consultation_date, created_at`

func scanForm(row pgx.Row) (*Form, error) {
	var f Form
	err := row.Scan(&f.ID, &f.PatientID, &f.LMP, &f.EstimatedDueDate, &f.CreatedAt, &f.UpdatedAt)
	return &f, err
}

func (r *formRepoPG) CreateWithConsultations(ctx context.Context, f *Form) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		f.ID = uuid.New()
		conn := r.conn(ctx)
		_, err := conn.Exec(ctx, `
			INSERT INTO prenatal_form (id, patient_id, lmp, estimated_due_date)
			VALUES ($1,$2,$3,$4)`,
			f.ID, f.PatientID, f.LMP, f.EstimatedDueDate)
		if err != nil {
			return err
		}
		for _, c := range f.Consultations {
			c.ID = uuid.New()
			c.FormID = f.ID
			_, err := conn.Exec(ctx, `
				INSERT INTO consultation (id, prenatal_form_id, consultation_date)
				VALUES ($1,$2,$3)`,
				c.ID, c.FormID, c.Date)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *formRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Form, error) {
	f, err := scanForm(r.conn(ctx).QueryRow(ctx,
		`SELECT `+formCols+` FROM prenatal_form WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFormNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadConsultations(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (r *formRepoPG) loadConsultations(ctx context.Context, f *Form) error {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+consultationCols+` FROM consultation
		WHERE prenatal_form_id = $1 ORDER BY consultation_date ASC`, f.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var c Consultation
		if err := rows.Scan(&c.ID, &c.FormID, &c.Date, &c.CreatedAt); err != nil {
			return err
		}
		f.Consultations = append(f.Consultations, &c)
	}
	return rows.Err()
}

func (r *formRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Form, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM prenatal_form WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+formCols+` FROM prenatal_form
		WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Form
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, f := range items {
		if err := r.loadConsultations(ctx, f); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

func (r *formRepoPG) GetConsultation(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	var c Consultation
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+consultationCols+` FROM consultation WHERE id = $1`, id).
		Scan(&c.ID, &c.FormID, &c.Date, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrConsultationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *formRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	// Consultations go with the form via ON DELETE CASCADE.
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM prenatal_form WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFormNotFound
	}
	return nil
}
