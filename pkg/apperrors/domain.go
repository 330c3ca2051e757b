package apperrors

import (
	"fmt"
	"net/http"
)

// ErrFileTooLarge - файл превышает максимальный размер.
func ErrFileTooLarge(maxSize int64) *AppError {
	return New(
		CodeLimitExceeded,
		"validation",
		fmt.Sprintf("File size exceeds maximum allowed size of %d bytes", maxSize),
		http.StatusBadRequest,
	)
}

// --- Auth ---

var ErrEmailAlreadyExists = New(
	CodeEmailTaken,
	"auth",
	"Email already registered",
	http.StatusBadRequest,
)

var ErrUsernameAlreadyExists = New(
	CodeUsernameTaken,
	"auth",
	"Username already taken",
	http.StatusBadRequest,
)

// ErrInvalidCredentials - неверный email или пароль. Одинаковый ответ для обоих случаев.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Incorrect email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Could not validate credentials",
	http.StatusUnauthorized,
)

var ErrUserDisabled = New(
	CodeAccountDisabled,
	"auth",
	"User account is disabled",
	http.StatusForbidden,
)

// --- Files ---

// ErrFileNotFound - метаданных нет или файл принадлежит другому пользователю.
var ErrFileNotFound = New(
	CodeFileNotFound,
	"file",
	"File not found",
	http.StatusNotFound,
)

// ErrBlobNotFound - метаданные есть, но содержимое в хранилище отсутствует.
var ErrBlobNotFound = New(
	CodeBlobNotFound,
	"storage",
	"File not found on storage",
	http.StatusNotFound,
)

var ErrNoFileProvided = New(
	CodeNoFileProvided,
	"validation",
	"No file provided",
	http.StatusBadRequest,
)

var ErrIntegrityCheckFailed = New(
	CodeIntegrityCheckFailed,
	"integrity",
	"File integrity check failed. The file may have been corrupted or tampered with.",
	http.StatusConflict,
)
