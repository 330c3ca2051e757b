package repositories

import (
	"errors"
	"time"

	"file_integrity_backend/internal/models"

	"gorm.io/gorm"
)

var ErrFileNotFound = errors.New("file not found")

// FileStats - агрегаты по файлам одного владельца
type FileStats struct {
	TotalFiles     int64 `json:"total_files"`
	TotalSize      int64 `json:"total_size"`
	VerifiedFiles  int64 `json:"verified_files"`
	CorruptedFiles int64 `json:"corrupted_files"`
	TotalDownloads int64 `json:"total_downloads"`
}

// Все методы, кроме Create, ограничены владельцем: чужой файл неотличим от несуществующего.
type FileRepository interface {
	Create(db *gorm.DB, file *models.File) error
	FindByOwner(db *gorm.DB, id, ownerID uint) (*models.File, error)
	ListByOwner(db *gorm.DB, ownerID uint, offset, limit int) ([]models.File, int64, error)
	MarkChecked(db *gorm.DB, id uint, isValid bool, checkedAt time.Time, countDownload bool) error
	DeleteByOwner(db *gorm.DB, id, ownerID uint) error
	StatsByOwner(db *gorm.DB, ownerID uint) (*FileStats, error)
}

type FileRepositoryImpl struct{}

func NewFileRepository() FileRepository {
	return &FileRepositoryImpl{}
}

func (r *FileRepositoryImpl) Create(db *gorm.DB, file *models.File) error {
	return db.Create(file).Error
}

func (r *FileRepositoryImpl) FindByOwner(db *gorm.DB, id, ownerID uint) (*models.File, error) {
	var file models.File
	err := db.Where("id = ? AND owner_id = ?", id, ownerID).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return &file, nil
}

func (r *FileRepositoryImpl) ListByOwner(db *gorm.DB, ownerID uint, offset, limit int) ([]models.File, int64, error) {
	var total int64
	if err := db.Model(&models.File{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	files := make([]models.File, 0)
	err := db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&files).Error
	if err != nil {
		return nil, 0, err
	}
	return files, total, nil
}

// MarkChecked фиксирует результат последней проверки; счетчик скачиваний растет в SQL,
// чтобы параллельные скачивания не теряли инкременты.
func (r *FileRepositoryImpl) MarkChecked(db *gorm.DB, id uint, isValid bool, checkedAt time.Time, countDownload bool) error {
	updates := map[string]interface{}{
		"is_verified":      isValid,
		"last_verified_at": checkedAt,
		"updated_at":       checkedAt,
	}
	if countDownload {
		updates["download_count"] = gorm.Expr("download_count + ?", 1)
	}

	result := db.Model(&models.File{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// MySQL без clientFoundRows считает только реально измененные строки,
	// поэтому ноль еще не значит, что файла нет.
	var count int64
	if err := db.Model(&models.File{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrFileNotFound
	}
	return nil
}

// DeleteByOwner удаляет файл и его журнал проверок. Вызывать внутри транзакции.
func (r *FileRepositoryImpl) DeleteByOwner(db *gorm.DB, id, ownerID uint) error {
	if err := db.Where("file_id = ?", id).Delete(&models.IntegrityLog{}).Error; err != nil {
		return err
	}
	result := db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.File{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFileNotFound
	}
	return nil
}

func (r *FileRepositoryImpl) StatsByOwner(db *gorm.DB, ownerID uint) (*FileStats, error) {
	var stats FileStats
	err := db.Model(&models.File{}).
		Select(`COUNT(*) AS total_files,
			COALESCE(SUM(file_size), 0) AS total_size,
			COALESCE(SUM(CASE WHEN is_verified THEN 1 ELSE 0 END), 0) AS verified_files,
			COALESCE(SUM(CASE WHEN is_verified THEN 0 ELSE 1 END), 0) AS corrupted_files,
			COALESCE(SUM(download_count), 0) AS total_downloads`).
		Where("owner_id = ?", ownerID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
