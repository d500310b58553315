package models

import "time"

// Role enumerates the account roles recognised by the platform.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// Valid reports whether the role is one of the recognised values.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// Account is the platform account record. Emails are stored lowercased so
// unique-index lookups are case-insensitive by construction.
//
// The verification and reset lifecycles are independent; each keeps at most
// one active secret as a nullable value+expiry column pair on this row.
type Account struct {
	BaseModel

	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Mobile   string `json:"mobile"`
	Password string `gorm:"not null" json:"-"`

	IsVerified                bool       `gorm:"default:false" json:"is_verified"`
	VerificationCode          *string    `json:"-"`
	VerificationCodeExpiresAt *time.Time `json:"-"`

	ResetOTP          *string    `json:"-"`
	ResetOTPExpiresAt *time.Time `json:"-"`

	ResetToken          *string    `gorm:"index" json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	Role            Role `gorm:"type:varchar(16);default:student" json:"role"`
	ProfileComplete bool `gorm:"default:false" json:"profile_complete"`
}

// AccountProfile is the sanitized account view returned across the service
// boundary. It structurally cannot carry the password hash or any secret.
type AccountProfile struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Mobile          string    `json:"mobile"`
	Role            Role      `json:"role"`
	IsVerified      bool      `json:"is_verified"`
	ProfileComplete bool      `json:"profile_complete"`
	CreatedAt       time.Time `json:"created_at"`
}

// Profile builds the sanitized view of the account.
func (a *Account) Profile() AccountProfile {
	return AccountProfile{
		ID:              a.ID,
		Username:        a.Username,
		Email:           a.Email,
		Mobile:          a.Mobile,
		Role:            a.Role,
		IsVerified:      a.IsVerified,
		ProfileComplete: a.ProfileComplete,
		CreatedAt:       a.CreatedAt,
	}
}
