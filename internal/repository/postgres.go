package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of *pgxpool.Pool the Postgres store uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const (
	queryFindAllPersons = `SELECT id, name, number FROM persons ORDER BY created_at, id`
	queryCountPersons   = `SELECT count(*) FROM persons`
	queryFindPerson     = `SELECT id, name, number FROM persons WHERE id = $1`
	queryInsertPerson   = `INSERT INTO persons (id, name, number) VALUES ($1, $2, $3) RETURNING id, name, number`
	queryUpdatePerson   = `UPDATE persons SET name = $2, number = $3, updated_at = now() WHERE id = $1 RETURNING id, name, number`
	queryDeletePerson   = `DELETE FROM persons WHERE id = $1`
)

// PostgresPersonRepository stores records in the persons table.
//
// The table's NOT NULL and CHECK constraints are the schema: violations
// come back as *pgconn.PgError and are mapped by sqlerr.
type PostgresPersonRepository struct {
	db Querier
}

var _ PersonRepository = (*PostgresPersonRepository)(nil)

func NewPostgresPersonRepository(db Querier) *PostgresPersonRepository {
	return &PostgresPersonRepository{db: db}
}

func (r *PostgresPersonRepository) FindAll(ctx context.Context) ([]Person, error) {
	rows, err := r.db.Query(ctx, queryFindAllPersons)
	if err != nil {
		return nil, fmt.Errorf("query persons: %w", err)
	}
	defer rows.Close()

	persons := []Person{}
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.ID, &p.Name, &p.Number); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate persons: %w", err)
	}
	return persons, nil
}

func (r *PostgresPersonRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, queryCountPersons).Scan(&n); err != nil {
		return 0, fmt.Errorf("count persons: %w", err)
	}
	return n, nil
}

func (r *PostgresPersonRepository) FindByID(ctx context.Context, id string) (*Person, error) {
	id, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return r.scanOne(r.db.QueryRow(ctx, queryFindPerson, id), "find person")
}

func (r *PostgresPersonRepository) Insert(ctx context.Context, fields PersonFields) (*Person, error) {
	return r.scanOne(r.db.QueryRow(ctx, queryInsertPerson, newID(), fields.Name, fields.Number), "insert person")
}

func (r *PostgresPersonRepository) UpdateByID(ctx context.Context, id string, fields PersonFields) (*Person, error) {
	id, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return r.scanOne(r.db.QueryRow(ctx, queryUpdatePerson, id, fields.Name, fields.Number), "update person")
}

func (r *PostgresPersonRepository) DeleteByID(ctx context.Context, id string) error {
	id, err := ParseID(id)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, queryDeletePerson, id); err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	return nil
}

func (r *PostgresPersonRepository) scanOne(row pgx.Row, op string) (*Person, error) {
	var p Person
	err := row.Scan(&p.ID, &p.Name, &p.Number)
	switch {
	case err == nil:
		return &p, nil
	case errors.Is(err, pgx.ErrNoRows):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("%s: %w", op, err)
	}
}
