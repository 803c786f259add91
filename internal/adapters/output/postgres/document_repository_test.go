package postgres

import (
	"context"
	"errors"
	"testing"

	"moranda/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var documentColumns = []string{"path", "data", "updated_at"}

// newMockRepository creates a repository over sqlmock with expectation checking on cleanup.
func newMockRepository(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return NewDocumentRepository(gdb), mock
}

func TestDocumentRepository_GetResolvesInsidePartition(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "documents" WHERE path = \$1`).
		WithArgs("asides/T1").
		WillReturnRows(sqlmock.NewRows(documentColumns).
			AddRow("asides/T1", `{"C1":{"open":true,"purpose":"plan"}}`, nil))

	snapshot, err := repo.Get(context.Background(), "asides/T1/C1")
	require.NoError(t, err)
	require.True(t, snapshot.Exists())

	var aside domain.Aside
	require.NoError(t, snapshot.Decode(&aside))
	assert.True(t, aside.Open)
	assert.Equal(t, "plan", aside.Purpose)
}

func TestDocumentRepository_GetMissingPartition(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "documents" WHERE path = \$1`).
		WithArgs("asides/T1").
		WillReturnRows(sqlmock.NewRows(documentColumns))

	snapshot, err := repo.Get(context.Background(), "asides/T1/C1")
	require.NoError(t, err)
	assert.False(t, snapshot.Exists())
}

func TestDocumentRepository_GetCollectionKeysByTeam(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "documents" WHERE path LIKE \$1`).
		WithArgs("teams/%").
		WillReturnRows(sqlmock.NewRows(documentColumns).
			AddRow("teams/T1", `{"id":"T1"}`, nil).
			AddRow("teams/T2", `{"id":"T2"}`, nil))

	snapshot, err := repo.Get(context.Background(), "teams")
	require.NoError(t, err)
	children := snapshot.Children()
	require.Len(t, children, 2)
	assert.Equal(t, "T1", children[0].Key())
	assert.Equal(t, map[string]any{"id": "T2"}, children[1].Value)
}

func TestDocumentRepository_UpdateMergesAndUpserts(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "documents" WHERE path = \$1 FOR UPDATE`).
		WithArgs("asides/T1").
		WillReturnRows(sqlmock.NewRows(documentColumns).
			AddRow("asides/T1", `{"C1":{"open":true,"purpose":"plan"}}`, nil))
	mock.ExpectExec(`INSERT INTO documents`).
		WithArgs("asides/T1", `{"C1":{"open":false,"purpose":"plan","summary":"shipped"}}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), "asides/T1/C1", domain.ClosedFields("shipped"))
	require.NoError(t, err)
}

func TestDocumentRepository_SetCreatesPartition(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "documents" WHERE path = \$1 FOR UPDATE`).
		WithArgs("users/T1").
		WillReturnRows(sqlmock.NewRows(documentColumns))
	mock.ExpectExec(`INSERT INTO documents`).
		WithArgs("users/T1", `{"U1":{"img":"a.png","scopes":false,"user":"alice"}}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Set(context.Background(), "users/T1", map[string]any{
		"U1": map[string]any{"img": "a.png", "scopes": false, "user": "alice"},
	})
	require.NoError(t, err)
}

func TestDocumentRepository_UpdateRollsBackOnWriteFailure(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "documents" WHERE path = \$1 FOR UPDATE`).
		WithArgs("asides/T1").
		WillReturnRows(sqlmock.NewRows(documentColumns))
	mock.ExpectExec(`INSERT INTO documents`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), "asides/T1/C1", map[string]any{"open": true})
	assert.Error(t, err)
}

func TestDocumentRepository_UpdateOutsidePartitionIsRejected(t *testing.T) {
	repo, _ := newMockRepository(t)

	err := repo.Update(context.Background(), "teams", map[string]any{"id": "T1"})
	assert.True(t, errors.Is(err, domain.ErrInvalidPath))
}
