package config

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenLifetime = time.Hour * 24 * 30

type JWT struct {
	publicKey     *rsa.PublicKey
	privateKey    *rsa.PrivateKey
	signingMethod jwt.SigningMethod
}

func loadPEMKey[T any](envKey string, parse func([]byte) (T, error)) (T, error) {
	var zero T
	if pem, ok := os.LookupEnv(envKey); ok {
		return parse([]byte(pem))
	}
	fileKey := envKey + "_FILE"
	path, ok := os.LookupEnv(fileKey)
	if !ok {
		return zero, fmt.Errorf("no %s or %s env variable set", envKey, fileKey)
	}
	pem, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("unable to read %s: %w", fileKey, err)
	}
	return parse(pem)
}

func NewJWT() (*JWT, error) {
	privateKey, err := loadPEMKey(
		"JWT_PRIVATE_KEY", jwt.ParseRSAPrivateKeyFromPEM,
	)
	if err != nil {
		return nil, err
	}

	publicKey, err := loadPEMKey(
		"JWT_PUBLIC_KEY", jwt.ParseRSAPublicKeyFromPEM,
	)
	if err != nil {
		return nil, err
	}

	return &JWT{
		privateKey:    privateKey,
		publicKey:     publicKey,
		signingMethod: jwt.GetSigningMethod("RS256"),
	}, nil
}

func (j *JWT) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.privateKey)
}

func (j *JWT) ParseWithClaims(tokenString string, claims jwt.Claims) (*jwt.Token, error) {
	return jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) {
			return j.publicKey, nil
		},
	)
}
