package exam

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

func connFor(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

// =========== Exam Type Repository ===========

type typeRepoPG struct{ pool *pgxpool.Pool }

func NewTypeRepoPG(pool *pgxpool.Pool) TypeRepository {
	return &typeRepoPG{pool: pool}
}

const typeCols = `id, name, description, created_at, updated_at`

func scanType(row pgx.Row) (*ExamType, error) {
	var t ExamType
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	return &t, err
}

func (r *typeRepoPG) Create(ctx context.Context, t *ExamType) error {
	t.ID = uuid.New()
	_, err := connFor(ctx, r.pool).Exec(ctx, `
		INSERT INTO exam_type (id, name, description) VALUES ($1,$2,$3)`,
		t.ID, t.Name, t.Description)
	return err
}

func (r *typeRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*ExamType, error) {
	t, err := scanType(connFor(ctx, r.pool).QueryRow(ctx,
		`SELECT `+typeCols+` FROM exam_type WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *typeRepoPG) List(ctx context.Context, limit, offset int) ([]*ExamType, int, error) {
	conn := connFor(ctx, r.pool)
	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM exam_type`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn.Query(ctx,
		`SELECT `+typeCols+` FROM exam_type ORDER BY name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*ExamType
	for rows.Next() {
		t, err := scanType(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, rows.Err()
}

func (r *typeRepoPG) Update(ctx context.Context, t *ExamType) error {
	tag, err := connFor(ctx, r.pool).Exec(ctx, `
		UPDATE exam_type SET name=$2, description=$3, updated_at=NOW() WHERE id = $1`,
		t.ID, t.Name, t.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTypeNotFound
	}
	return nil
}

func (r *typeRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := connFor(ctx, r.pool).Exec(ctx, `DELETE FROM exam_type WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTypeNotFound
	}
	return nil
}

// =========== Exam Repository ===========

type examRepoPG struct{ pool *pgxpool.Pool }

func NewExamRepoPG(pool *pgxpool.Pool) ExamRepository {
	return &examRepoPG{pool: pool}
}

const examCols = `id, name, description, exam_type_id, created_at, updated_at`

func scanExam(row pgx.Row) (*Exam, error) {
	var e Exam
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.TypeID, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *examRepoPG) Create(ctx context.Context, e *Exam) error {
	e.ID = uuid.New()
	_, err := connFor(ctx, r.pool).Exec(ctx, `
		INSERT INTO exam (id, name, description, exam_type_id) VALUES ($1,$2,$3,$4)`,
		e.ID, e.Name, e.Description, e.TypeID)
	return err
}

func (r *examRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Exam, error) {
	e, err := scanExam(connFor(ctx, r.pool).QueryRow(ctx,
		`SELECT `+examCols+` FROM exam WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExamNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *examRepoPG) List(ctx context.Context, limit, offset int) ([]*Exam, int, error) {
	conn := connFor(ctx, r.pool)
	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM exam`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn.Query(ctx,
		`SELECT `+examCols+` FROM exam ORDER BY name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}

func (r *examRepoPG) Update(ctx context.Context, e *Exam) error {
	tag, err := connFor(ctx, r.pool).Exec(ctx, `
		UPDATE exam SET name=$2, description=$3, exam_type_id=$4, updated_at=NOW() WHERE id = $1`,
		e.ID, e.Name, e.Description, e.TypeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExamNotFound
	}
	return nil
}

func (r *examRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := connFor(ctx, r.pool).Exec(ctx, `DELETE FROM exam WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExamNotFound
	}
	return nil
}

// =========== Exam Result Repository ===========

type resultRepoPG struct{ pool *pgxpool.Pool }

func NewResultRepoPG(pool *pgxpool.Pool) ResultRepository {
	return &resultRepoPG{pool: pool}
}

const resultCols = `id, exam_id, consultation_id, field, value, created_at`

func scanResult(row pgx.Row) (*Result, error) {
	var res Result
	err := row.Scan(&res.ID, &res.ExamID, &res.ConsultationID, &res.Field, &res.Value, &res.CreatedAt)
	return &res, err
}

func (r *resultRepoPG) Create(ctx context.Context, res *Result) error {
	res.ID = uuid.New()
	_, err := connFor(ctx, r.pool).Exec(ctx, `
		INSERT INTO exam_result (id, exam_id, consultation_id, field, value)
		VALUES ($1,$2,$3,$4,$5)`,
		res.ID, res.ExamID, res.ConsultationID, res.Field, res.Value)
	return err
}

func (r *resultRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Result, error) {
	res, err := scanResult(connFor(ctx, r.pool).QueryRow(ctx,
		`SELECT `+resultCols+` FROM exam_result WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *resultRepoPG) ListByConsultation(ctx context.Context, consultationID uuid.UUID) ([]*Result, error) {
	rows, err := connFor(ctx, r.pool).Query(ctx, `
		SELECT `+resultCols+` FROM exam_result
		WHERE consultation_id = $1 ORDER BY created_at ASC`, consultationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, res)
	}
	return items, rows.Err()
}

func (r *resultRepoPG) Update(ctx context.Context, res *Result) error {
	tag, err := connFor(ctx, r.pool).Exec(ctx, `
		UPDATE exam_result SET exam_id=$2, consultation_id=$3, field=$4, value=$5 WHERE id = $1`,
		res.ID, res.ExamID, res.ConsultationID, res.Field, res.Value)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrResultNotFound
	}
	return nil
}

func (r *resultRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := connFor(ctx, r.pool).Exec(ctx, `DELETE FROM exam_result WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrResultNotFound
	}
	return nil
}
