package email

import "time"

// IntegrityAlert - уведомление владельцу о проваленной проверке
type IntegrityAlert struct {
	To               string
	Username         string
	FileID           uint
	OriginalFilename string
	CheckType        string
	OriginalHash     string
	ComputedHash     string
	CheckedAt        time.Time
}
