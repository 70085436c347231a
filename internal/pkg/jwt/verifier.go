// internal/pkg/jwt/verifier.go
package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken wraps every rejection reason returned by Verify.
var ErrInvalidToken = errors.New("invalid access token")

type Verifier struct {
	pub    *rsa.PublicKey
	parser *jwt.Parser
}

func NewVerifier(pub *rsa.PublicKey, issuer, audience string) *Verifier {
	return &Verifier{
		pub: pub,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithAudience(audience),
			jwt.WithExpirationRequired(),
		),
	}
}

// Verify checks signature, issuer, audience and expiry, and returns the
// claims of a token that names an account.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	if v.pub == nil {
		return nil, fmt.Errorf("%w: verifier has no public key", ErrInvalidToken)
	}

	claims := &Claims{}
	if _, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.pub, nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: no email claim", ErrInvalidToken)
	}
	return claims, nil
}
