// Package password реализует хеширование и проверку паролей на основе bcrypt.
//
// Hasher создаёт bcrypt-хеш с солью для каждого пароля и сравнивает хеш с введённым паролем.
// Для неизвестных пользователей проверка выполняется против фиктивного хеша той же стоимости,
// чтобы время ответа не выдавало существование учётной записи.
package password

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost — стоимость bcrypt по умолчанию для новых хешей.
const DefaultCost = 12

// ErrMismatch возвращается, если пароль не соответствует хешу.
var ErrMismatch = errors.New("password does not match hash")

// Hasher хеширует и проверяет пароли с фиксированной стоимостью bcrypt.
type Hasher struct {
	cost      int
	dummyHash []byte
}

// NewHasher создаёт Hasher. Стоимость ниже bcrypt.DefaultCost повышается до неё,
// выше bcrypt.MaxCost — понижается.
func NewHasher(cost int) (*Hasher, error) {
	const op = "password.NewHasher"
	if cost < bcrypt.DefaultCost {
		cost = bcrypt.DefaultCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	dummy, err := bcrypt.GenerateFromPassword(secret, cost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Hasher{cost: cost, dummyHash: dummy}, nil
}

// Cost возвращает используемую стоимость bcrypt.
func (h *Hasher) Cost() int {
	return h.cost
}

// GetHash принимает пароль пользователя и возвращает его bcrypt‑хэш.
func (h *Hasher) GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// CompareHash сравнивает bcrypt‑хэш с введённым паролем.
//
// Возвращает nil при совпадении и ErrMismatch при несовпадении.
func (h *Hasher) CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return fmt.Errorf("%s: %w", op, ErrMismatch)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// CompareDummy выполняет проверку против фиктивного хеша и всегда возвращает ErrMismatch.
func (h *Hasher) CompareDummy(externalPassword string) error {
	const op = "password.CompareDummy"
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(externalPassword))
	return fmt.Errorf("%s: %w", op, ErrMismatch)
}
