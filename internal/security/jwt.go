package security

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"github.com/golang-jwt/jwt"
)

// JWTSigner выпускает и проверяет access-токены. Поддерживает HS256 (общий секрет) и RS256.
type JWTSigner struct {
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
	issuer    string
	audience  string
	ttl       time.Duration
	clockSkew time.Duration
}

func NewHS256Signer(secret []byte, issuer, audience string, ttl, clockSkew time.Duration) *JWTSigner {
	return &JWTSigner{
		method:    jwt.SigningMethodHS256,
		signKey:   secret,
		verifyKey: secret,
		issuer:    issuer,
		audience:  audience,
		ttl:       ttl,
		clockSkew: clockSkew,
	}
}

func NewRS256Signer(private *rsa.PrivateKey, public *rsa.PublicKey, issuer, audience string, ttl, clockSkew time.Duration) *JWTSigner {
	return &JWTSigner{
		method:    jwt.SigningMethodRS256,
		signKey:   private,
		verifyKey: public,
		issuer:    issuer,
		audience:  audience,
		ttl:       ttl,
		clockSkew: clockSkew,
	}
}

func (s *JWTSigner) TTL() time.Duration {
	return s.ttl
}

type AccessClaims struct {
	jwt.StandardClaims
	Username string `json:"username"`
}

// SignAccessToken выпускает JWT с sub=userID, username и exp=now+ttl.
func (s *JWTSigner) SignAccessToken(id domain.Identity, now time.Time) (string, error) {
	claims := AccessClaims{
		StandardClaims: jwt.StandardClaims{
			Subject:   strconv.FormatInt(int64(id.UserID), 10),
			Issuer:    s.issuer,
			Audience:  s.audience,
			IssuedAt:  now.Unix(),
			NotBefore: now.Add(-s.clockSkew).Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
		Username: id.Username,
	}
	token := jwt.NewWithClaims(s.method, claims)

	return token.SignedString(s.signKey)
}

func (s *JWTSigner) ParseAndValidate(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != s.method.Alg() {
			return nil, ErrInvalidToken
		}
		return s.verifyKey, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if !claims.VerifyIssuer(s.issuer, true) {
		return nil, ErrInvalidIssuer
	}
	// пустая audience в конфиге = не проверяем
	if s.audience != "" && !claims.VerifyAudience(s.audience, true) {
		return nil, ErrInvalidAudience
	}

	now := time.Now()
	nbf := time.Unix(claims.NotBefore, 0).Add(-s.clockSkew)
	exp := time.Unix(claims.ExpiresAt, 0).Add(s.clockSkew)
	if now.Before(nbf) || now.After(exp) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}

// Identity проверяет токен и достаёт из него пользователя.
func (s *JWTSigner) Identity(tokenStr string) (domain.Identity, error) {
	claims, err := s.ParseAndValidate(tokenStr)
	if err != nil {
		return domain.Identity{}, err
	}
	id, err := SubjectAsUserID(claims)
	if err != nil {
		return domain.Identity{}, err
	}
	if strings.TrimSpace(claims.Username) == "" {
		return domain.Identity{}, ErrInvalidSubject
	}
	return domain.Identity{UserID: id, Username: claims.Username}, nil
}

// SubjectAsUserID парсит sub в domain.UserID.
func SubjectAsUserID(claims *AccessClaims) (domain.UserID, error) {
	if claims == nil || claims.Subject == "" {
		return 0, ErrInvalidSubject
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidSubject
	}

	return domain.UserID(id), nil
}

func LoadRSAPrivateKeyFromPEM(path string) (*rsa.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, fmt.Errorf("no PEM block in %s", path)
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	k, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	pk, ok := k.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("not RSA private key")
	}

	return pk, nil
}

func LoadRSAPublicKeyFromPEM(path string) (*rsa.PublicKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPublicKeyFromPEM(b)
}
