// Package jwt реализует выпуск и разбор подписанных токенов сессии.
//
// Токен несёт идентификатор сессии (jti), имя пользователя и отображаемое имя;
// срок действия сессии задаётся claim'ом exp.
package jwt

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/focus-tracker/internal/models"
)

// ErrInvalidToken возвращается для повреждённых, чужих и просроченных токенов.
var ErrInvalidToken = errors.New("invalid session token")

// Maker описывает интерфейс для выпуска и разбора токенов сессии.
type Maker interface {
	GenerateToken(session models.Session) (string, error)
	ParseToken(tokenStr string) (*models.Session, error)
}

// CustomClaims описывает данные сессии, хранящиеся в JWT.
type CustomClaims struct {
	Username             string `json:"username"`
	DisplayName          string `json:"display_name"`
	jwt.RegisteredClaims        // ID (jti), IssuedAt, ExpiresAt
}

// MakerImpl реализует Maker с подписью HMAC-SHA256.
type MakerImpl struct {
	secretKey []byte
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа.
func NewJWTMaker(secretKey string) *MakerImpl {
	return &MakerImpl{secretKey: []byte(secretKey)}
}

// GenerateToken подписывает сессию и возвращает токен.
func (j *MakerImpl) GenerateToken(session models.Session) (string, error) {
	const op = "jwt.GenerateToken"
	claims := CustomClaims{
		Username:    session.Username,
		DisplayName: session.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   session.Username,
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// ParseToken проверяет подпись и срок действия токена и восстанавливает сессию.
func (j *MakerImpl) ParseToken(tokenStr string) (*models.Session, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return j.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.ID == "" || claims.Username == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	session := &models.Session{
		ID:          claims.ID,
		Username:    claims.Username,
		DisplayName: claims.DisplayName,
		ExpiresAt:   claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	return session, nil
}
