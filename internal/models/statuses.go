package models

// CheckType - источник проверки целостности
type CheckType string

const (
	CheckTypeUpload   CheckType = "upload"
	CheckTypeDownload CheckType = "download"
	CheckTypeManual   CheckType = "manual"
)

func (c CheckType) IsValid() bool {
	switch c {
	case CheckTypeUpload, CheckTypeDownload, CheckTypeManual:
		return true
	}
	return false
}

// AllModels - модели для AutoMigrate, в порядке зависимостей.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&File{},
		&IntegrityLog{},
	}
}
