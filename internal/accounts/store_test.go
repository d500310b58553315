package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Maryann878/LinguAfrika-sub000/internal/models"
)

func openStoreTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Account{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

func newStoreWithAccount(t *testing.T) (*Store, *models.Account) {
	t.Helper()

	store, err := NewStore(openStoreTestDB(t))
	require.NoError(t, err)

	account := &models.Account{
		Username: "amara",
		Email:    "amara@example.com",
		Password: "hashed-password",
	}
	require.NoError(t, store.Insert(context.Background(), account))
	require.NotEmpty(t, account.ID)

	return store, account
}

func TestNewStoreRequiresDB(t *testing.T) {
	_, err := NewStore(nil)
	require.Error(t, err)
}

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "amara@example.com", NormalizeEmail("  Amara@Example.COM "))
	require.Equal(t, "", NormalizeEmail("   "))
}

func TestInsertDuplicateEmail(t *testing.T) {
	store, _ := newStoreWithAccount(t)
	ctx := context.Background()

	err := store.Insert(ctx, &models.Account{
		Username: "someone-else",
		Email:    "AMARA@example.com",
		Password: "hashed",
	})
	require.ErrorIs(t, err, ErrDuplicate)

	err = store.Insert(ctx, &models.Account{
		Username: "amara",
		Email:    "other@example.com",
		Password: "hashed",
	})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestFindByEmailIsCaseInsensitive(t *testing.T) {
	store, account := newStoreWithAccount(t)
	ctx := context.Background()

	found, err := store.FindByEmail(ctx, "AMARA@Example.Com")
	require.NoError(t, err)
	require.Equal(t, account.ID, found.ID)

	_, err = store.FindByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFindByEmailOrUsername(t *testing.T) {
	store, account := newStoreWithAccount(t)
	ctx := context.Background()

	byUsername, err := store.FindByEmailOrUsername(ctx, "amara")
	require.NoError(t, err)
	require.Equal(t, account.ID, byUsername.ID)

	byEmail, err := store.FindByEmailOrUsername(ctx, "Amara@Example.com")
	require.NoError(t, err)
	require.Equal(t, account.ID, byEmail.ID)

	// Username lookups fold case the same way email lookups do.
	byFoldedUsername, err := store.FindByEmailOrUsername(ctx, "AMARA")
	require.NoError(t, err)
	require.Equal(t, account.ID, byFoldedUsername.ID)

	_, err = store.FindByEmailOrUsername(ctx, "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMarkVerifiedConsumesCode(t *testing.T) {
	store, account := newStoreWithAccount(t)
	ctx := context.Background()

	expiry := time.Now().Add(10 * time.Minute)
	ok, err := store.SetVerificationCode(ctx, account.ID, "123456", expiry)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.MarkVerified(ctx, account.ID, "654321")
	require.NoError(t, err)
	require.False(t, ok, "mismatched code must not verify")

	ok, err = store.MarkVerified(ctx, account.ID, "123456")
	require.NoError(t, err)
	require.True(t, ok)

	updated, err := store.FindByID(ctx, account.ID)
	require.NoError(t, err)
	require.True(t, updated.IsVerified)
	require.Nil(t, updated.VerificationCode)
	require.Nil(t, updated.VerificationCodeExpiresAt)

	// Code is gone; presenting it again matches nothing.
	ok, err = store.MarkVerified(ctx, account.ID, "123456")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSetResetOTPClearsPendingToken(t *testing.T) {
	store, account := newStoreWithAccount(t)
	ctx := context.Background()

	require.NoError(t, store.SetResetOTP(ctx, account.ID, "111111", time.Now().Add(10*time.Minute)))
	ok, err := store.ConsumeResetOTP(ctx, account.ID, "111111", "token-a", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.True(t, ok)

	// Restarting the flow invalidates the outstanding token.
	require.NoError(t, store.SetResetOTP(ctx, account.ID, "222222", time.Now().Add(10*time.Minute)))

	updated, err := store.FindByID(ctx, account.ID)
	require.NoError(t, err)
	require.Nil(t, updated.ResetToken)
	require.Nil(t, updated.ResetTokenExpiresAt)
	require.NotNil(t, updated.ResetOTP)
	require.Equal(t, "222222", *updated.ResetOTP)

	ok, err = store.CompletePasswordReset(ctx, "token-a", "new-hash", time.Now())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestConsumeResetOTPIsOneShot(t *testing.T) {
	store, account := newStoreWithAccount(t)
	ctx := context.Background()

	require.NoError(t, store.SetResetOTP(ctx, account.ID, "333333", time.Now().Add(10*time.Minute)))

	ok, err := store.ConsumeResetOTP(ctx, account.ID, "333333", "token-b", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.True(t, ok)

	// Second attempt loses: the OTP was cleared by the first.
	ok, err = store.ConsumeResetOTP(ctx, account.ID, "333333", "token-c", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.False(t, ok)

	updated, err := store.FindByID(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.ResetToken)
	require.Equal(t, "token-b", *updated.ResetToken)
}

func TestCompletePasswordReset(t *testing.T) {
	store, account := newStoreWithAccount(t)
	ctx := context.Background()

	require.NoError(t, store.SetResetOTP(ctx, account.ID, "444444", time.Now().Add(10*time.Minute)))
	ok, err := store.ConsumeResetOTP(ctx, account.ID, "444444", "token-d", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.CompletePasswordReset(ctx, "token-d", "new-hash", time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	updated, err := store.FindByID(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", updated.Password)
	require.Nil(t, updated.ResetToken)
	require.Nil(t, updated.ResetTokenExpiresAt)

	// Token was consumed by the first reset.
	ok, err = store.CompletePasswordReset(ctx, "token-d", "another-hash", time.Now())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCompletePasswordResetExpiredToken(t *testing.T) {
	store, account := newStoreWithAccount(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, store.SetResetOTP(ctx, account.ID, "555555", now.Add(10*time.Minute)))
	ok, err := store.ConsumeResetOTP(ctx, account.ID, "555555", "token-e", now.Add(time.Hour))
	require.NoError(t, err)
	require.True(t, ok)

	// At or past the expiry instant the token no longer matches.
	ok, err = store.CompletePasswordReset(ctx, "token-e", "new-hash", now.Add(time.Hour))
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = store.CompletePasswordReset(ctx, "token-e", "new-hash", now.Add(2*time.Hour))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSetVerificationCodeSkipsVerifiedAccount(t *testing.T) {
	store, account := newStoreWithAccount(t)
	ctx := context.Background()

	ok, err := store.SetVerificationCode(ctx, account.ID, "123456", time.Now().Add(10*time.Minute))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.MarkVerified(ctx, account.ID, "123456")
	require.NoError(t, err)
	require.True(t, ok)

	// A resend landing after verification must not re-attach a code.
	ok, err = store.SetVerificationCode(ctx, account.ID, "654321", time.Now().Add(10*time.Minute))
	require.NoError(t, err)
	require.False(t, ok)

	after, err := store.FindByID(ctx, account.ID)
	require.NoError(t, err)
	require.True(t, after.IsVerified)
	require.Nil(t, after.VerificationCode)
	require.Nil(t, after.VerificationCodeExpiresAt)
}

func TestUpdateUnknownAccount(t *testing.T) {
	store, _ := newStoreWithAccount(t)
	ctx := context.Background()

	ok, err := store.SetVerificationCode(ctx, "missing-id", "123456", time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.False(t, ok)

	err = store.SetResetOTP(ctx, "missing-id", "123456", time.Now().Add(time.Minute))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPurgeExpiredSecrets(t *testing.T) {
	store, err := NewStore(openStoreTestDB(t))
	require.NoError(t, err)
	ctx := context.Background()

	now := time.Now()

	stale := &models.Account{Username: "stale", Email: "stale@example.com", Password: "x"}
	require.NoError(t, store.Insert(ctx, stale))
	ok, err := store.SetVerificationCode(ctx, stale.ID, "123456", now.Add(-time.Minute))
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, store.SetResetOTP(ctx, stale.ID, "654321", now.Add(-time.Minute)))

	fresh := &models.Account{Username: "fresh", Email: "fresh@example.com", Password: "x"}
	require.NoError(t, store.Insert(ctx, fresh))
	ok, err = store.SetVerificationCode(ctx, fresh.ID, "111111", now.Add(time.Hour))
	require.NoError(t, err)
	require.True(t, ok)

	purged, err := store.PurgeExpiredSecrets(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(2), purged)

	staleAfter, err := store.FindByID(ctx, stale.ID)
	require.NoError(t, err)
	require.Nil(t, staleAfter.VerificationCode)
	require.Nil(t, staleAfter.ResetOTP)

	freshAfter, err := store.FindByID(ctx, fresh.ID)
	require.NoError(t, err)
	require.NotNil(t, freshAfter.VerificationCode)
}
