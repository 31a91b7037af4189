package password

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var (
	testHasherOnce sync.Once
	testHasher     *Hasher
)

// newTestHasher возвращает Hasher с минимально допустимой стоимостью, общий для тестов пакета
func newTestHasher(t *testing.T) *Hasher {
	t.Helper()
	testHasherOnce.Do(func() {
		h, err := NewHasher(bcrypt.DefaultCost)
		if err != nil {
			t.Fatalf("NewHasher: %v", err)
		}
		testHasher = h
	})
	return testHasher
}

func TestNewHasher_ClampsCost(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{name: "below minimum", cost: 4, want: bcrypt.DefaultCost},
		{name: "zero", cost: 0, want: bcrypt.DefaultCost},
		{name: "exact minimum", cost: bcrypt.DefaultCost, want: bcrypt.DefaultCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHasher(tt.cost)
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.Cost())
		})
	}
}

func TestGetHash(t *testing.T) {
	h := newTestHasher(t)

	tests := []struct {
		name     string
		password string
	}{
		{name: "regular password", password: "Secret123"},
		{name: "password with special chars", password: "p@ssw0rd!@#$%^&*()"},
		{name: "unicode password", password: "пароль-🔒"},
		{name: "short password", password: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHash, err := h.GetHash(tt.password)
			require.NoError(t, err)

			assert.NotEmpty(t, gotHash)
			assert.NotEqual(t, tt.password, gotHash)

			cost, err := bcrypt.Cost([]byte(gotHash))
			require.NoError(t, err)
			assert.Equal(t, h.Cost(), cost)

			assert.NoError(t, h.CompareHash(gotHash, tt.password))
		})
	}
}

func TestGetHash_SaltedPerCall(t *testing.T) {
	h := newTestHasher(t)

	hash1, err := h.GetHash("same-password")
	require.NoError(t, err)
	hash2, err := h.GetHash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
}

func TestCompareHash(t *testing.T) {
	h := newTestHasher(t)

	correctHash, err := h.GetHash("correct_password")
	require.NoError(t, err)

	tests := []struct {
		name     string
		hash     string
		password string
		wantErr  bool
		mismatch bool
	}{
		{name: "matching password", hash: correctHash, password: "correct_password"},
		{name: "wrong password", hash: correctHash, password: "wrong_password", wantErr: true, mismatch: true},
		{name: "empty password", hash: correctHash, password: "", wantErr: true, mismatch: true},
		{name: "case differs", hash: correctHash, password: "Correct_password", wantErr: true, mismatch: true},
		{name: "malformed hash", hash: "not-a-bcrypt-hash", password: "correct_password", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.CompareHash(tt.hash, tt.password)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.mismatch, errors.Is(err, ErrMismatch))
		})
	}
}

func TestCompareDummy_AlwaysMismatch(t *testing.T) {
	h := newTestHasher(t)

	for _, pwd := range []string{"", "Secret123", "anything"} {
		err := h.CompareDummy(pwd)
		assert.ErrorIs(t, err, ErrMismatch)
	}
}
