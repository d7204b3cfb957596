package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "botilleria/pkg/domain"
	dErrors "botilleria/pkg/domain-errors"
)

// Claims are the JWT claims for an age-verification token: signed proof the
// holder's browsing session passed the gate, usable by storefront surfaces
// that cannot reach the session store directly.
type Claims struct {
	SessionID string `json:"session_id"`
	Method    string `json:"method"`
	jwt.RegisteredClaims
}

// JWTService handles verification-token creation and validation.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewJWTService(signingKey string, issuer string, audience string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

// GenerateVerificationToken mints a token for a session that just passed the
// age gate. expiresIn should match the verification record's validity window
// so the token never outlives the underlying proof.
func (s *JWTService) GenerateVerificationToken(
	sessionID id.SessionID,
	method string,
	expiresIn time.Duration) (string, error) {
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SessionID: sessionID.String(),
		Method:    method,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	return claims, nil
}

// ExtractSessionID validates the token and parses its session claim.
func (s *JWTService) ExtractSessionID(tokenString string) (id.SessionID, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return id.SessionID{}, err
	}
	return id.ParseSessionID(claims.SessionID)
}
