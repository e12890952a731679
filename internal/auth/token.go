// Package auth issues and validates the bearer tokens used by the API.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"instaclone/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultExpiry is used when no expiry is configured.
const DefaultExpiry = 60 * time.Minute

// ErrInvalidToken is returned for any token that fails validation.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the identity carried by a valid token.
type Claims struct {
	UserID   uint
	Username string
	ID       string
}

// Issuer signs and verifies HS256 bearer tokens.
type Issuer struct {
	key      []byte
	issuer   string
	audience string
	expiry   time.Duration
	now      func() time.Time
}

// NewIssuer builds an Issuer. A zero expiry falls back to DefaultExpiry.
func NewIssuer(key, issuer, audience string, expiry time.Duration) (*Issuer, error) {
	if key == "" {
		return nil, errors.New("signing key is required")
	}
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Issuer{
		key:      []byte(key),
		issuer:   issuer,
		audience: audience,
		expiry:   expiry,
		now:      time.Now,
	}, nil
}

// NewIssuerFromConfig builds an Issuer from the JWT_* settings.
func NewIssuerFromConfig(cfg *config.Config) (*Issuer, error) {
	return NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience,
		time.Duration(cfg.JWTExpiryMinutes)*time.Minute)
}

// WithClock returns a copy of the issuer that reads time from now.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	cp := *i
	cp.now = now
	return &cp
}

// Expiry is the lifetime of issued tokens.
func (i *Issuer) Expiry() time.Duration {
	return i.expiry
}

// Issue signs a token for the given identity.
func (i *Issuer) Issue(userID uint, username string) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(userID), 10),
		"name": username,
		"iss":  i.issuer,
		"aud":  i.audience,
		"exp":  now.Add(i.expiry).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"jti":  uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate checks signature, issuer, audience and expiry and returns the identity.
func (i *Issuer) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return i.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(i.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, err := mapClaims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return nil, fmt.Errorf("%w: invalid subject", ErrInvalidToken)
	}

	name, _ := mapClaims["name"].(string)
	jti, _ := mapClaims["jti"].(string)

	claims := &Claims{
		UserID:   uint(userID),
		Username: name,
		ID:       jti,
	}
	return claims, nil
}
