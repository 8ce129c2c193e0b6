package customer

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"github.com/wichananm65/pet-shop-orders/internal/auth"
)

// Session is an authenticated shopper. A nil *Session means a guest.
type Session struct {
	UserID int
	Token  string
}

// TokenValidator checks a bearer token and returns the user it was issued to.
// Identify is the weaker check: the signature must be valid but an expired
// token still names its user, so a shopper keeps their cart across a lapsed
// session.
type TokenValidator interface {
	Validate(token string) (int, error)
	Identify(token string) (int, error)
}

// JWTValidator validates HS256 tokens carrying a user_id claim.
type JWTValidator struct {
	secret []byte
}

func NewJWTValidator(secret string) *JWTValidator {
	return &JWTValidator{secret: []byte(secret)}
}

func (v *JWTValidator) Validate(token string) (int, error) {
	if token == "" {
		return 0, ErrSessionExpired
	}
	tok, err := jwt.Parse(token, v.key)
	if err != nil || !tok.Valid {
		return 0, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrSessionExpired
	}
	id, err := auth.ClaimsUserID(claims)
	if err != nil {
		return 0, ErrSessionExpired
	}
	return id, nil
}

// Identify returns the user of a token whose signature is valid. Expiry is
// the only validation failure it tolerates.
func (v *JWTValidator) Identify(token string) (int, error) {
	if token == "" {
		return 0, ErrSessionExpired
	}
	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, v.key); err != nil {
		var ve *jwt.ValidationError
		if !errors.As(err, &ve) || ve.Errors != jwt.ValidationErrorExpired {
			return 0, fmt.Errorf("%w: %v", ErrSessionExpired, err)
		}
	}
	id, err := auth.ClaimsUserID(claims)
	if err != nil || id <= 0 {
		return 0, ErrSessionExpired
	}
	return id, nil
}

func (v *JWTValidator) key(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
	return v.secret, nil
}
