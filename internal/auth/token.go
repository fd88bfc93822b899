package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pinglayer/pinglayer-api/internal/core/domain"
)

// Claims is the fixed-field payload carried by every access token. The
// tenant binding (CompanyID) is set at mint time and trusted as-is until
// the token expires; only privilege checks re-read the store.
type Claims struct {
	CompanyID string `json:"company_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// Codec mints and verifies HS256-signed access tokens. Verification is
// stateless: the cost is that tokens cannot be revoked before expiry, which
// is acceptable only because the TTL is bounded and there is no refresh
// chaining. A Codec is safe for concurrent use; the secret is never mutated.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec returns a Codec signing with secret and expiring tokens after ttl.
// Secret length is validated at startup by the configuration layer.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Mint creates a signed token binding the user to their company. The claim
// set is {sub, company_id, email, iat, exp}.
func (c *Codec) Mint(userID, companyID, email string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		CompanyID: companyID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify checks signature, algorithm, and expiry, then requires every claim
// the resolver will trust to be present. It returns domain.ErrTokenExpired
// when the token is past its expiry and domain.ErrTokenInvalid for every
// other failure (bad signature, unexpected algorithm, malformed payload,
// missing claims). Signature mismatch is reported before expiry, so a token
// signed with the wrong secret is always "invalid", never "expired".
func (c *Codec) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		// Pin the algorithm to prevent substitution attacks.
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}

	// Reject tokens missing required fields before trusting any value.
	if claims.Subject == "" || claims.CompanyID == "" || claims.Email == "" || claims.ExpiresAt == nil {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
