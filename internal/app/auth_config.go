package app

import (
	"github.com/Maryann878/LinguAfrika-sub000/internal/auth"
	"github.com/Maryann878/LinguAfrika-sub000/internal/services"
)

// JWTServiceConfig converts AuthConfig into the parameters expected by the JWT service.
func (c AuthConfig) JWTServiceConfig() auth.JWTConfig {
	ttl := c.JWT.TTL
	if ttl <= 0 {
		ttl = auth.DefaultSessionTokenTTL
	}

	return auth.JWTConfig{
		Secret:          c.JWT.Secret,
		Issuer:          c.JWT.Issuer,
		SessionTokenTTL: ttl,
	}
}

// AuthServiceOptions converts AuthConfig into auth service options.
func (c AuthConfig) AuthServiceOptions() []services.AuthOption {
	var opts []services.AuthOption
	if c.OTPTTL > 0 {
		opts = append(opts, services.WithOTPExpiry(c.OTPTTL))
	}
	if c.ResetTokenTTL > 0 {
		opts = append(opts, services.WithResetTokenExpiry(c.ResetTokenTTL))
	}
	return opts
}
