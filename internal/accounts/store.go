package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Maryann878/LinguAfrika-sub000/internal/models"
)

var (
	// ErrNotFound indicates no account matches the lookup.
	ErrNotFound = errors.New("accounts: not found")
	// ErrDuplicate indicates a unique constraint violation on email or username.
	ErrDuplicate = errors.New("accounts: duplicate email or username")
)

// Store persists Account records. Every secret mutation is a single
// conditional UPDATE keyed by account id so concurrent requests against the
// same account cannot produce torn secret/expiry pairs.
type Store struct {
	db *gorm.DB
}

// NewStore constructs an account store over the provided database handle.
func NewStore(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("accounts: db is required")
	}
	return &Store{db: db}, nil
}

// NormalizeEmail lowercases and trims an email address. All reads and writes
// go through this, which is what makes email lookups case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByEmail fetches an account by its (case-insensitive) email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.findOne(ctx, "email = ?", NormalizeEmail(email))
}

// FindByEmailOrUsername resolves a login identifier against either column.
// Both comparisons are case-insensitive; usernames keep their display casing
// in storage, so the username side folds in the query.
func (s *Store) FindByEmailOrUsername(ctx context.Context, identifier string) (*models.Account, error) {
	identifier = strings.TrimSpace(identifier)
	return s.findOne(ctx, "email = ? OR LOWER(username) = LOWER(?)", NormalizeEmail(identifier), identifier)
}

// FindByID fetches an account by primary key.
func (s *Store) FindByID(ctx context.Context, id string) (*models.Account, error) {
	return s.findOne(ctx, "id = ?", id)
}

func (s *Store) findOne(ctx context.Context, query string, args ...any) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).Where(query, args...).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("accounts: find: %w", err)
	}
	return &account, nil
}

// Insert persists a new account, surfacing unique violations as ErrDuplicate.
func (s *Store) Insert(ctx context.Context, account *models.Account) error {
	account.Email = NormalizeEmail(account.Email)
	account.Username = strings.TrimSpace(account.Username)

	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("accounts: insert: %w", err)
	}
	return nil
}

// SetVerificationCode replaces the email verification secret and its expiry,
// conditional on the account still being unverified. Returns false when the
// account is missing or a concurrent request verified it first, so a racing
// resend can never re-attach a code to a verified account.
func (s *Store) SetVerificationCode(ctx context.Context, id, code string, expiresAt time.Time) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ? AND is_verified = ?", id, false).
		Updates(map[string]any{
			"verification_code":            code,
			"verification_code_expires_at": expiresAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("accounts: set verification code: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// MarkVerified flips the account to verified and clears the verification
// secret, conditional on the code still matching. Returns false when another
// request consumed or replaced the code first.
func (s *Store) MarkVerified(ctx context.Context, id, code string) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ? AND verification_code = ?", id, code).
		Updates(map[string]any{
			"is_verified":                  true,
			"verification_code":            nil,
			"verification_code_expires_at": nil,
		})
	if result.Error != nil {
		return false, fmt.Errorf("accounts: mark verified: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// SetResetOTP replaces the password-reset OTP and its expiry, restarting the
// reset lifecycle regardless of its previous state.
func (s *Store) SetResetOTP(ctx context.Context, id, code string, expiresAt time.Time) error {
	return s.updateByID(ctx, id, map[string]any{
		"reset_otp":              code,
		"reset_otp_expires_at":   expiresAt,
		"reset_token":            nil,
		"reset_token_expires_at": nil,
	})
}

// ConsumeResetOTP promotes a presented OTP into a reset token. The update is
// conditional on the stored OTP still matching, so the OTP is consumed
// exactly once even under concurrent verification attempts.
func (s *Store) ConsumeResetOTP(ctx context.Context, id, otp, token string, expiresAt time.Time) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ? AND reset_otp = ?", id, otp).
		Updates(map[string]any{
			"reset_otp":              nil,
			"reset_otp_expires_at":   nil,
			"reset_token":            token,
			"reset_token_expires_at": expiresAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("accounts: consume reset otp: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CompletePasswordReset sets a new password hash for the account holding the
// given live reset token and clears the token in the same statement. Returns
// false when the token is unknown, expired, or already consumed.
func (s *Store) CompletePasswordReset(ctx context.Context, token, passwordHash string, now time.Time) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("reset_token = ? AND reset_token_expires_at > ?", token, now).
		Updates(map[string]any{
			"password":               passwordHash,
			"reset_token":            nil,
			"reset_token_expires_at": nil,
		})
	if result.Error != nil {
		return false, fmt.Errorf("accounts: complete password reset: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// PurgeExpiredSecrets nulls out secret columns whose expiry has passed.
// Expired secrets are already treated as absent at read time; this keeps the
// table tidy and is never load-bearing.
func (s *Store) PurgeExpiredSecrets(ctx context.Context, now time.Time) (int64, error) {
	var total int64

	purges := []struct {
		where   string
		updates map[string]any
	}{
		{
			where: "verification_code IS NOT NULL AND verification_code_expires_at <= ?",
			updates: map[string]any{
				"verification_code":            nil,
				"verification_code_expires_at": nil,
			},
		},
		{
			where: "reset_otp IS NOT NULL AND reset_otp_expires_at <= ?",
			updates: map[string]any{
				"reset_otp":            nil,
				"reset_otp_expires_at": nil,
			},
		},
		{
			where: "reset_token IS NOT NULL AND reset_token_expires_at <= ?",
			updates: map[string]any{
				"reset_token":            nil,
				"reset_token_expires_at": nil,
			},
		},
	}

	for _, purge := range purges {
		result := s.db.WithContext(ctx).
			Model(&models.Account{}).
			Where(purge.where, now).
			Updates(purge.updates)
		if result.Error != nil {
			return total, fmt.Errorf("accounts: purge expired secrets: %w", result.Error)
		}
		total += result.RowsAffected
	}

	return total, nil
}

func (s *Store) updateByID(ctx context.Context, id string, updates map[string]any) error {
	result := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("accounts: update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
