package history

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"mlist-manager/core/database"
	"mlist-manager/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func setupSQLiteRepo(t *testing.T) *Repository {
	db, err := database.Connect(database.Config{
		Driver: database.DriverSQLite,
		Name:   filepath.Join(t.TempDir(), "history.db"),
	})
	require.NoError(t, err)

	repo := NewRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func TestNewRun(t *testing.T) {
	started := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	res := &reconcile.Result{
		Operation:    reconcile.OperationAdd,
		Before:       reconcile.Counts{Full: 2, Current: 1, Removed: 0},
		After:        reconcile.Counts{Full: 3, Current: 1, Removed: 1},
		Extracted:    4,
		Imported:     1,
		NewlyRemoved: 1,
		Adopted:      2,
		Resubscribed: 1,
	}

	run := NewRun("id-1", reconcile.OperationAdd, started, started.Add(time.Second), res, nil)

	assert.Equal(t, "id-1", run.ID)
	assert.Equal(t, "add", run.Operation)
	assert.True(t, run.Success)
	assert.Empty(t, run.Error)
	assert.Equal(t, 2, run.FullBefore)
	assert.Equal(t, 3, run.FullAfter)
	assert.Equal(t, 1, run.RemovedAfter)
	assert.Equal(t, 4, run.Extracted)
	assert.Equal(t, 1, run.Imported)
	assert.Equal(t, 1, run.NewlyRemoved)
	assert.Equal(t, 2, run.Adopted)
	assert.Equal(t, 1, run.Resubscribed)
}

func TestNewRun_TruncatesErrorOnRuneBoundary(t *testing.T) {
	now := time.Now()
	// 1023 ASCII bytes followed by a two-byte rune straddling the limit.
	msg := strings.Repeat("x", maxErrorLen-1) + "é" + "tail"

	run := NewRun("id-3", reconcile.OperationUpdate, now, now, nil, errors.New(msg))

	assert.True(t, utf8.ValidString(run.Error))
	assert.LessOrEqual(t, len(run.Error), maxErrorLen)
	assert.Equal(t, strings.Repeat("x", maxErrorLen-1), run.Error)

	short := NewRun("id-4", reconcile.OperationUpdate, now, now, nil, errors.New("ünïcode"))
	assert.Equal(t, "ünïcode", short.Error)
}

func TestNewRun_Failure(t *testing.T) {
	now := time.Now()
	run := NewRun("id-2", reconcile.OperationUpdate, now, now, nil, errors.New("failed to load full roster"))

	assert.False(t, run.Success)
	assert.Equal(t, "failed to load full roster", run.Error)
	assert.Zero(t, run.FullAfter)
}

func TestRepository_RecordAndList(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	for i, op := range []reconcile.Operation{reconcile.OperationExtract, reconcile.OperationUpdate, reconcile.OperationAdd} {
		started := base.Add(time.Duration(i) * time.Minute)
		run := NewRun(string(op), op, started, started, &reconcile.Result{Imported: i}, nil)
		require.NoError(t, repo.Record(ctx, run))
	}

	runs, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "add", runs[0].ID)
	assert.Equal(t, "update", runs[1].ID)
	assert.Equal(t, 2, runs[0].Imported)

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRepository_RecordDuplicate(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Record(ctx, NewRun("same", reconcile.OperationUpdate, now, now, nil, nil)))
	err := repo.Record(ctx, NewRun("same", reconcile.OperationUpdate, now, now, nil, nil))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record run same")
}

func TestRepository_Record_DBError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `roster_runs`").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	now := time.Now()
	err := repo.Record(context.Background(), NewRun("x", reconcile.OperationUpdate, now, now, nil, nil))
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_DBError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `roster_runs` ORDER BY started_at DESC LIMIT .+").WillReturnError(assert.AnError)

	runs, err := repo.List(context.Background(), 5)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, runs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, clampLimit(0))
	assert.Equal(t, DefaultLimit, clampLimit(-3))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, MaxLimit, clampLimit(MaxLimit+1))
}
