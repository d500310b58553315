package services

import (
	"net/http"

	apperrors "github.com/Maryann878/LinguAfrika-sub000/pkg/errors"
)

// Domain errors raised by the auth service. Each operation returns at most
// one of these per call; the HTTP boundary maps them to status codes through
// response.Error and nowhere else.
var (
	// ErrDuplicateAccount indicates the email or username is already taken.
	ErrDuplicateAccount = apperrors.New("ACCOUNT_EXISTS", "An account with this email or username already exists", http.StatusConflict)
	// ErrAccountNotFound indicates the requested account does not exist.
	ErrAccountNotFound = apperrors.New("ACCOUNT_NOT_FOUND", "Account not found", http.StatusNotFound)
	// ErrAlreadyVerified signals a verification attempt against a verified account.
	ErrAlreadyVerified = apperrors.New("ALREADY_VERIFIED", "Account is already verified", http.StatusBadRequest)
	// ErrCodeInvalid indicates the presented code does not match the stored secret.
	ErrCodeInvalid = apperrors.New("CODE_INVALID", "Invalid code", http.StatusBadRequest)
	// ErrCodeExpired indicates the stored secret's expiry has passed.
	ErrCodeExpired = apperrors.New("CODE_EXPIRED", "Code has expired", http.StatusBadRequest)
	// ErrPasswordMismatch indicates the password confirmation does not match.
	ErrPasswordMismatch = apperrors.New("PASSWORD_MISMATCH", "Passwords do not match", http.StatusBadRequest)
	// ErrResetTokenInvalid covers unknown, expired, and already-consumed reset tokens.
	ErrResetTokenInvalid = apperrors.New("RESET_TOKEN_INVALID", "Password reset token is invalid or has expired", http.StatusBadRequest)
)
