package security

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "hotel-booking-account/backend/internal/platform/errors"
)

const (
	algRS256 = "RS256"
	// tokenPrecision is the granularity of iat and exp.
	tokenPrecision = time.Millisecond
)

// NumericDate values are encoded with microsecond digits. Decoding goes
// through float64, which can land up to a microsecond low, so dates are
// issued at tokenPrecision and rounded back to it after parsing.
func init() {
	jwt.TimePrecision = time.Microsecond
}

// AccessClaims holds JWT claims for the access token.
type AccessClaims struct {
	jwt.RegisteredClaims
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// TokenProvider issues and validates RS256 access tokens. It keeps no record
// of issued tokens and is safe for concurrent use.
type TokenProvider struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	ttl        time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

// Option configures a TokenProvider.
type Option func(*TokenProvider)

// WithIssuer sets the iss claim on issued tokens and requires it on validation.
func WithIssuer(issuer string) Option {
	return func(p *TokenProvider) { p.issuer = issuer }
}

// WithClock replaces the wall clock used for iat, exp and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(p *TokenProvider) { p.now = now }
}

// NewTokenProvider returns a TokenProvider that signs with privateKey and
// verifies with publicKey. The keys must form a pair and ttl must be a whole
// number of milliseconds of at least one second; otherwise a configuration
// error is returned.
func NewTokenProvider(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, ttl time.Duration, opts ...Option) (*TokenProvider, error) {
	if privateKey == nil || publicKey == nil {
		return nil, apperrors.Configuration("signing key pair is required", ErrInvalidKey)
	}
	if !privateKey.PublicKey.Equal(publicKey) {
		return nil, apperrors.Configuration("public key does not match private key", ErrInvalidKey)
	}
	if ttl < time.Second || ttl%tokenPrecision != 0 {
		return nil, apperrors.Configuration("access token ttl must be whole milliseconds and at least 1s", nil)
	}
	p := &TokenProvider{
		privateKey: privateKey,
		publicKey:  publicKey,
		ttl:        ttl,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{algRS256}),
		jwt.WithTimeFunc(func() time.Time { return p.now() }),
		jwt.WithExpirationRequired(),
	}
	if p.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(p.issuer))
	}
	p.parser = jwt.NewParser(parserOpts...)
	return p, nil
}

// TTL returns the configured access token lifetime.
func (p *TokenProvider) TTL() time.Duration {
	return p.ttl
}

// Issue signs an access token for subject with the configured ttl.
func (p *TokenProvider) Issue(subject, role string, permissions []string) (string, *AccessClaims, error) {
	return p.IssueWithTTL(subject, role, permissions, p.ttl)
}

// IssueWithTTL signs an access token valid for ttl, which must be a positive
// whole number of milliseconds. iat is the current millisecond and exp is
// exactly iat + ttl.
func (p *TokenProvider) IssueWithTTL(subject, role string, permissions []string, ttl time.Duration) (string, *AccessClaims, error) {
	if ttl <= 0 || ttl%tokenPrecision != 0 {
		return "", nil, apperrors.New(apperrors.CodeInvalidInput, "token ttl must be a positive number of milliseconds")
	}
	if subject == "" {
		return "", nil, apperrors.New(apperrors.CodeInvalidInput, "token subject is required")
	}
	if role == "" {
		return "", nil, apperrors.New(apperrors.CodeInvalidInput, "token role is required")
	}
	jti, err := generateJTI()
	if err != nil {
		return "", nil, err
	}
	if permissions == nil {
		permissions = []string{}
	}
	issuedAt := p.now().UTC().Truncate(tokenPrecision)
	claims := &AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   subject,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		Role:        role,
		Permissions: permissions,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(p.privateKey)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// Validate verifies the signature and expiry of tokenString and returns its
// claims. Failures are TokenMalformed, TokenSignature or TokenExpired errors.
func (p *TokenProvider) Validate(tokenString string) (*AccessClaims, error) {
	if err := p.verifySignature(tokenString); err != nil {
		return nil, err
	}
	claims := &AccessClaims{}
	token, err := p.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return p.publicKey, nil
	})
	if err != nil {
		return nil, mapJWTError(err)
	}
	if !token.Valid {
		return nil, apperrors.TokenMalformed(nil)
	}
	if claims.Subject == "" {
		return nil, apperrors.TokenMalformed(errors.New("missing sub claim"))
	}
	claims.IssuedAt = roundDate(claims.IssuedAt)
	claims.ExpiresAt = roundDate(claims.ExpiresAt)
	claims.NotBefore = roundDate(claims.NotBefore)
	return claims, nil
}

func roundDate(d *jwt.NumericDate) *jwt.NumericDate {
	if d == nil {
		return nil
	}
	return jwt.NewNumericDate(d.Round(tokenPrecision).UTC())
}

// verifySignature checks the header algorithm and the signature over the raw
// signing input before any claim is decoded, so tampering with the payload
// is always reported as a signature failure.
func (p *TokenProvider) verifySignature(tokenString string) error {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return apperrors.TokenMalformed(errors.New("token must have three segments"))
	}
	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return apperrors.TokenMalformed(err)
	}
	var header struct {
		Alg string `json:"alg"`
	}
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return apperrors.TokenMalformed(err)
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return apperrors.TokenMalformed(err)
	}
	if header.Alg != algRS256 {
		return apperrors.TokenSignature(errors.New("unexpected signing algorithm " + header.Alg))
	}
	if err := jwt.SigningMethodRS256.Verify(parts[0]+"."+parts[1], sig, p.publicKey); err != nil {
		return apperrors.TokenSignature(err)
	}
	return nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.TokenExpired()
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return apperrors.TokenSignature(err)
	default:
		return apperrors.TokenMalformed(err)
	}
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
