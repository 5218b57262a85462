package app

import (
	. "building-access-control/internal/config"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrNonValidToken    = errors.New("token did not pass validation")
	ErrInvalidClaimType = errors.New("invalid claim type")
)

var tokenSignatureAlg = jwt.SigningMethodHS256

// Claim for an operator session on the management API.
type OperatorClaim struct {
	Email string   `json:"email"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

func NewOperatorClaim(email string, roles []string) OperatorClaim {
	return OperatorClaim{
		Email:            email,
		Roles:            roles,
		RegisteredClaims: newRegisteredClaim(Cfg.TokenTTL * 60),
	}
}

func DecodeOperatorJWT(tokenString string) (*OperatorClaim, error) {
	return decodeJWT(tokenString, &OperatorClaim{})
}

// Claim for a reader provisioning handshake. ClientIP binds the token to the
// address that requested it.
type ReaderProvisionClaim struct {
	ReaderID string `json:"reader_id"`
	ClientIP string `json:"client_ip"`
	jwt.RegisteredClaims
}

func NewReaderProvisionClaim(readerID string, clientIP string) ReaderProvisionClaim {
	// Provision tokens are short lived, the reader must complete the
	// handshake within five minutes.
	var ttl uint = 5 * 60
	return ReaderProvisionClaim{
		ReaderID:         readerID,
		ClientIP:         clientIP,
		RegisteredClaims: newRegisteredClaim(ttl),
	}
}

func DecodeReaderProvisionJWT(tokenString string) (*ReaderProvisionClaim, error) {
	return decodeJWT(tokenString, &ReaderProvisionClaim{})
}

func newRegisteredClaim(ttl uint) jwt.RegisteredClaims {
	now := time.Now().UTC()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttl) * time.Second)),
	}
}

func GenerateJWT(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(tokenSignatureAlg, claims)
	return token.SignedString([]byte(Cfg.Secret))
}

func decodeJWT[T jwt.Claims](tokenString string, claimsType T) (T, error) {
	var zero T

	parsedToken, err := jwt.ParseWithClaims(tokenString, claimsType, func(token *jwt.Token) (interface{}, error) {
		return []byte(Cfg.Secret), nil
	}, jwt.WithValidMethods([]string{tokenSignatureAlg.Alg()}))

	if err != nil {
		return zero, err
	} else if parsedToken == nil || !parsedToken.Valid {
		return zero, ErrNonValidToken
	} else if claims, ok := parsedToken.Claims.(T); ok {
		return claims, nil
	}

	return zero, ErrInvalidClaimType
}
