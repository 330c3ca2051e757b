package auth

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash сравнивается при неизвестном email, чтобы время ответа не выдавало существование аккаунта.
var dummyHash, _ = bcrypt.GenerateFromPassword(prehash("dummy-password-for-timing"), bcrypt.DefaultCost)

// prehash сводит пароль любой длины к 44 байтам base64(SHA-256):
// bcrypt не принимает больше 72 байт, а нулевых байтов в base64 нет.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// HashPassword создает bcrypt хеш пароля
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(prehash(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash проверяет пароль против хеша
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), prehash(password))
	return err == nil
}

// CompareDummy тратит столько же времени, сколько настоящая проверка.
func CompareDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, prehash(password))
}
