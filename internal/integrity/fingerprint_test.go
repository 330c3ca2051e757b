package integrity

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const abcDigest = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"

func TestDigest_KnownVectors(t *testing.T) {
	assert.Equal(t, abcDigest, Digest([]byte("abc")))
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Digest(nil))
	assert.Len(t, Digest([]byte("anything")), 64)
}

func TestDigestReader_MatchesDigest(t *testing.T) {
	// больше одного блока, чтобы проверить чтение по частям
	data := bytes.Repeat([]byte("0123456789"), ChunkSize)

	got, err := DigestReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Digest(data), got)
}

func TestDigestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abc.txt")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	got, err := DigestFile(path)
	require.NoError(t, err)
	assert.Equal(t, abcDigest, got)

	// изменение одного байта меняет отпечаток
	require.NoError(t, os.WriteFile(path, []byte("abd"), 0o644))
	changed, err := DigestFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, abcDigest, changed)
}

func TestDigestFile_Missing(t *testing.T) {
	_, err := DigestFile(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMatch(t *testing.T) {
	assert.True(t, Match(abcDigest, abcDigest))
	assert.True(t, Match(strings.ToUpper(abcDigest), abcDigest))
	assert.False(t, Match(abcDigest, Digest([]byte("abd"))))
	assert.False(t, Match(abcDigest, abcDigest[:63]))
}
