package repositories

import (
	"file_integrity_backend/internal/models"

	"gorm.io/gorm"
)

// IntegrityLogRepository - журнал проверок, только добавление и чтение.
type IntegrityLogRepository interface {
	Create(db *gorm.DB, log *models.IntegrityLog) error
	ListByFile(db *gorm.DB, fileID uint, checkType models.CheckType, limit int) ([]models.IntegrityLog, error)
	RecentByOwner(db *gorm.DB, ownerID uint, limit int) ([]models.IntegrityLog, error)
}

type IntegrityLogRepositoryImpl struct{}

func NewIntegrityLogRepository() IntegrityLogRepository {
	return &IntegrityLogRepositoryImpl{}
}

func (r *IntegrityLogRepositoryImpl) Create(db *gorm.DB, log *models.IntegrityLog) error {
	return db.Create(log).Error
}

// ListByFile возвращает последние записи по файлу; пустой checkType - все типы.
func (r *IntegrityLogRepositoryImpl) ListByFile(db *gorm.DB, fileID uint, checkType models.CheckType, limit int) ([]models.IntegrityLog, error) {
	logs := make([]models.IntegrityLog, 0)
	query := db.Where("file_id = ?", fileID)
	if checkType != "" {
		query = query.Where("check_type = ?", checkType)
	}
	err := query.
		Order("checked_at DESC").Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

func (r *IntegrityLogRepositoryImpl) RecentByOwner(db *gorm.DB, ownerID uint, limit int) ([]models.IntegrityLog, error) {
	logs := make([]models.IntegrityLog, 0)
	ownerFiles := db.Model(&models.File{}).Select("id").Where("owner_id = ?", ownerID)
	err := db.Where("file_id IN (?)", ownerFiles).
		Order("checked_at DESC").Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
