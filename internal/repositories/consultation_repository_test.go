package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradementor/internal/testutils"
	"tradementor/pkg/utils"
)

func TestLockSlot_UsesRowLock(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	repo := NewConsultationRepository(db)
	date := time.Date(2026, 4, 1, 0, 0, 0, 0, utils.KST())

	rows := sqlmock.NewRows([]string{"id", "customer_id", "consultation_date", "consultation_time"}).
		AddRow(uuid.New(), uuid.New(), date, "14:00")

	mock.ExpectQuery(`SELECT \* FROM "consultations" WHERE .* FOR UPDATE`).
		WithArgs(date, "14:00").
		WillReturnRows(rows)

	existing, err := repo.LockSlot(context.Background(), date, "14:00")
	require.NoError(t, err)
	assert.Len(t, existing, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_CommitsOnSuccess(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	repo := NewConsultationRepository(db)
	date := time.Date(2026, 4, 1, 0, 0, 0, 0, utils.KST())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "consultations" WHERE .* FOR UPDATE`).
		WithArgs(date, "10:00").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	err := repo.InTx(context.Background(), func(tx IConsultationRepository) error {
		_, err := tx.LockSlot(context.Background(), date, "10:00")
		return err
	})
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_RollsBackOnError(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	repo := NewConsultationRepository(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := repo.InTx(context.Background(), func(tx IConsultationRepository) error {
		return utils.ErrSlotFull
	})
	assert.ErrorIs(t, err, utils.ErrSlotFull)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByDate_AggregatesPerSlot(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	repo := NewConsultationRepository(db)
	date := time.Date(2026, 4, 1, 0, 0, 0, 0, utils.KST())

	rows := sqlmock.NewRows([]string{"consultation_time", "cnt"}).
		AddRow("10:00", 2).
		AddRow("14:00", 1)

	mock.ExpectQuery(`SELECT consultation_time, count\(\*\) as cnt FROM "consultations"`).
		WithArgs(date).
		WillReturnRows(rows)

	counts, err := repo.CountByDate(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["10:00"])
	assert.Equal(t, int64(1), counts["14:00"])
	assert.Equal(t, int64(0), counts["11:00"])

	assert.NoError(t, mock.ExpectationsWereMet())
}
