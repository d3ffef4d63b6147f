package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var personColumns = []string{"id", "name", "number"}

func newTestPostgresRepository(t *testing.T) (*PostgresPersonRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})

	return NewPostgresPersonRepository(mock), mock
}

func TestPostgresFindAll(t *testing.T) {
	repo, mock := newTestPostgresRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(queryFindAllPersons)).
		WillReturnRows(pgxmock.NewRows(personColumns).
			AddRow("0b8c4b6e-54c5-4a8e-9f0e-8d3b1d0f5a11", "Arto Hellas", "040-123456").
			AddRow("7d1f0a7c-2f4e-4a53-8f6b-9b0b4c1d2e33", "Ada Lovelace", "39-44-5323523"))

	persons, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Person{
		{ID: "0b8c4b6e-54c5-4a8e-9f0e-8d3b1d0f5a11", Name: "Arto Hellas", Number: "040-123456"},
		{ID: "7d1f0a7c-2f4e-4a53-8f6b-9b0b4c1d2e33", Name: "Ada Lovelace", Number: "39-44-5323523"},
	}, persons)
}

func TestPostgresFindAllEmpty(t *testing.T) {
	repo, mock := newTestPostgresRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(queryFindAllPersons)).
		WillReturnRows(pgxmock.NewRows(personColumns))

	persons, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, persons)
	assert.Empty(t, persons)
}

func TestPostgresCount(t *testing.T) {
	repo, mock := newTestPostgresRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(queryCountPersons)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPostgresFindByID(t *testing.T) {
	const id = "0b8c4b6e-54c5-4a8e-9f0e-8d3b1d0f5a11"

	t.Run("found", func(t *testing.T) {
		repo, mock := newTestPostgresRepository(t)
		mock.ExpectQuery(regexp.QuoteMeta(queryFindPerson)).
			WithArgs(id).
			WillReturnRows(pgxmock.NewRows(personColumns).AddRow(id, "Arto Hellas", "040-123456"))

		p, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, &Person{ID: id, Name: "Arto Hellas", Number: "040-123456"}, p)
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newTestPostgresRepository(t)
		mock.ExpectQuery(regexp.QuoteMeta(queryFindPerson)).
			WithArgs(id).
			WillReturnRows(pgxmock.NewRows(personColumns))

		_, err := repo.FindByID(context.Background(), id)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed id never reaches the database", func(t *testing.T) {
		repo, _ := newTestPostgresRepository(t)

		_, err := repo.FindByID(context.Background(), "5")
		assert.ErrorIs(t, err, ErrMalformedID)
	})
}

func TestPostgresInsert(t *testing.T) {
	repo, mock := newTestPostgresRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(queryInsertPerson)).
		WithArgs(pgxmock.AnyArg(), "Arto Hellas", "040-123456").
		WillReturnRows(pgxmock.NewRows(personColumns).
			AddRow("0b8c4b6e-54c5-4a8e-9f0e-8d3b1d0f5a11", "Arto Hellas", "040-123456"))

	p, err := repo.Insert(context.Background(), PersonFields{Name: "Arto Hellas", Number: "040-123456"})
	require.NoError(t, err)
	assert.Equal(t, "0b8c4b6e-54c5-4a8e-9f0e-8d3b1d0f5a11", p.ID)
}

func TestPostgresUpdate(t *testing.T) {
	const id = "0b8c4b6e-54c5-4a8e-9f0e-8d3b1d0f5a11"

	t.Run("updated", func(t *testing.T) {
		repo, mock := newTestPostgresRepository(t)
		mock.ExpectQuery(regexp.QuoteMeta(queryUpdatePerson)).
			WithArgs(id, "Arto Hellas", "000").
			WillReturnRows(pgxmock.NewRows(personColumns).AddRow(id, "Arto Hellas", "000"))

		p, err := repo.UpdateByID(context.Background(), id, PersonFields{Name: "Arto Hellas", Number: "000"})
		require.NoError(t, err)
		assert.Equal(t, "000", p.Number)
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newTestPostgresRepository(t)
		mock.ExpectQuery(regexp.QuoteMeta(queryUpdatePerson)).
			WithArgs(id, "Arto Hellas", "000").
			WillReturnRows(pgxmock.NewRows(personColumns))

		_, err := repo.UpdateByID(context.Background(), id, PersonFields{Name: "Arto Hellas", Number: "000"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("check violation is passed through", func(t *testing.T) {
		repo, mock := newTestPostgresRepository(t)
		mock.ExpectQuery(regexp.QuoteMeta(queryUpdatePerson)).
			WithArgs(id, "", "000").
			WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "persons_name_check"})

		_, err := repo.UpdateByID(context.Background(), id, PersonFields{Name: "", Number: "000"})

		var pgErr *pgconn.PgError
		require.True(t, errors.As(err, &pgErr))
		assert.Equal(t, "23514", pgErr.Code)
	})
}

func TestPostgresDelete(t *testing.T) {
	const id = "0b8c4b6e-54c5-4a8e-9f0e-8d3b1d0f5a11"

	repo, mock := newTestPostgresRepository(t)
	mock.ExpectExec(regexp.QuoteMeta(queryDeletePerson)).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, repo.DeleteByID(context.Background(), id))
}
