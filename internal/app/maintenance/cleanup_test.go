package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Maryann878/LinguAfrika-sub000/internal/accounts"
	"github.com/Maryann878/LinguAfrika-sub000/internal/models"
)

func openCleanupTestStore(t *testing.T) *accounts.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Account{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	store, err := accounts.NewStore(db)
	require.NoError(t, err)
	return store
}

func TestRunOncePurgesExpiredSecrets(t *testing.T) {
	store := openCleanupTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	account := &models.Account{Username: "amara", Email: "amara@example.com", Password: "x"}
	require.NoError(t, store.Insert(ctx, account))
	ok, err := store.SetVerificationCode(ctx, account.ID, "123456", now.Add(-time.Minute))
	require.NoError(t, err)
	require.True(t, ok)

	cleaner := NewCleaner(store, WithNow(func() time.Time { return now }))
	require.NoError(t, cleaner.RunOnce(ctx))

	after, err := store.FindByID(ctx, account.ID)
	require.NoError(t, err)
	require.Nil(t, after.VerificationCode)
	require.Nil(t, after.VerificationCodeExpiresAt)
}

func TestRunOnceLeavesLiveSecrets(t *testing.T) {
	store := openCleanupTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	account := &models.Account{Username: "amara", Email: "amara@example.com", Password: "x"}
	require.NoError(t, store.Insert(ctx, account))
	require.NoError(t, store.SetResetOTP(ctx, account.ID, "654321", now.Add(time.Hour)))

	cleaner := NewCleaner(store, WithNow(func() time.Time { return now }))
	require.NoError(t, cleaner.RunOnce(ctx))

	after, err := store.FindByID(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, after.ResetOTP)
}

func TestStartAndStopWithNilStore(t *testing.T) {
	cleaner := NewCleaner(nil)
	require.NoError(t, cleaner.Start())

	done := cleaner.Stop()
	select {
	case <-done.Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop in time")
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	store := openCleanupTestStore(t)

	cleaner := NewCleaner(store, WithPurgeSchedule("not a cron spec"))
	require.Error(t, cleaner.Start())
}
