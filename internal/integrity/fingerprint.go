package integrity

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ChunkSize - размер блока чтения при хешировании файлов.
const ChunkSize = 8192

var ErrNotFound = errors.New("file not found")

// Digest возвращает SHA-256 в виде 64 hex-символов в нижнем регистре.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DigestReader хеширует поток блоками по ChunkSize байт.
func DigestReader(r io.Reader) (string, error) {
	h := sha256.New()
	buf := make([]byte, ChunkSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", fmt.Errorf("failed to hash stream: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DigestFile хеширует файл на диске; потребление памяти не зависит от размера файла.
func DigestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return DigestReader(f)
}

// Match сравнивает два отпечатка без учета регистра за постоянное время.
func Match(expected, computed string) bool {
	a := strings.ToLower(strings.TrimSpace(expected))
	b := strings.ToLower(strings.TrimSpace(computed))
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
