package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

const (
	// Системные ошибки
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeStorageError  ErrorCode = "STORAGE_ERROR"

	// Общие ошибки бизнес-логики
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeLimitExceeded    ErrorCode = "LIMIT_EXCEEDED"

	// Аутентификация и авторизация
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeAccountDisabled    ErrorCode = "ACCOUNT_DISABLED"
	CodeEmailTaken         ErrorCode = "EMAIL_TAKEN"
	CodeUsernameTaken      ErrorCode = "USERNAME_TAKEN"

	// Файлы и целостность
	CodeFileNotFound         ErrorCode = "FILE_NOT_FOUND"
	CodeBlobNotFound         ErrorCode = "BLOB_NOT_FOUND"
	CodeNoFileProvided       ErrorCode = "NO_FILE_PROVIDED"
	CodeIntegrityCheckFailed ErrorCode = "INTEGRITY_CHECK_FAILED"
)
