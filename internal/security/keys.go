package security

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"

	apperrors "hotel-booking-account/backend/internal/platform/errors"
)

// ErrInvalidKey is returned when PEM or key type is invalid.
var ErrInvalidKey = errors.New("invalid key")

// LoadPEM reads content from path if s does not look like inline PEM; otherwise returns s as bytes.
// Literal "\n" sequences in inline PEM, as found in single-line env values, become newlines.
func LoadPEM(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidKey
	}
	if strings.HasPrefix(s, "-----BEGIN") {
		return []byte(strings.ReplaceAll(s, `\n`, "\n")), nil
	}
	return os.ReadFile(s)
}

// ParsePrivateKey parses a PEM-encoded RSA private key (PKCS8 "PRIVATE KEY" or
// PKCS1 "RSA PRIVATE KEY"). s may be inline PEM or a file path. Every failure
// is a configuration error.
func ParsePrivateKey(s string) (*rsa.PrivateKey, error) {
	pemBytes, err := LoadPEM(s)
	if err != nil {
		return nil, apperrors.Configuration("load private key", err)
	}
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, apperrors.Configuration("decode private key", ErrInvalidKey)
	}
	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, apperrors.Configuration("parse private key", err)
		}
		return key, nil
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, apperrors.Configuration("parse private key", err)
		}
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, apperrors.Configuration(fmt.Sprintf("private key is %T, want RSA", key), ErrInvalidKey)
		}
		return rsaKey, nil
	default:
		return nil, apperrors.Configuration("unsupported private key block "+block.Type, ErrInvalidKey)
	}
}

// ParsePublicKey parses a PEM-encoded RSA public key (X.509 "PUBLIC KEY" or
// PKCS1 "RSA PUBLIC KEY"). s may be inline PEM or a file path.
func ParsePublicKey(s string) (*rsa.PublicKey, error) {
	pemBytes, err := LoadPEM(s)
	if err != nil {
		return nil, apperrors.Configuration("load public key", err)
	}
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, apperrors.Configuration("decode public key", ErrInvalidKey)
	}
	switch block.Type {
	case "RSA PUBLIC KEY":
		key, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, apperrors.Configuration("parse public key", err)
		}
		return key, nil
	case "PUBLIC KEY":
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, apperrors.Configuration("parse public key", err)
		}
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, apperrors.Configuration(fmt.Sprintf("public key is %T, want RSA", key), ErrInvalidKey)
		}
		return rsaKey, nil
	default:
		return nil, apperrors.Configuration("unsupported public key block "+block.Type, ErrInvalidKey)
	}
}

// GenerateKeyPair returns a new RSA key pair as PKCS8 private and PKIX public PEM.
func GenerateKeyPair(bits int) (privatePEM, publicPEM []byte, err error) {
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, nil, err
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, nil, err
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, nil, err
	}
	privatePEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	publicPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return privatePEM, publicPEM, nil
}
