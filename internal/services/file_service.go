package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"file_integrity_backend/internal/email"
	"file_integrity_backend/internal/integrity"
	"file_integrity_backend/internal/logger"
	"file_integrity_backend/internal/models"
	"file_integrity_backend/internal/repositories"
	"file_integrity_backend/internal/services/dto"
	"file_integrity_backend/internal/storage"
	"file_integrity_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// alertTimeout ограничивает, сколько запрос ждет отправки письма о нарушении.
const alertTimeout = 5 * time.Second

const (
	MessageVerified = "File integrity verified successfully."
	MessageTampered = "File integrity check failed! The file may have been corrupted or tampered with."
)

type FileService interface {
	Upload(ctx context.Context, db *gorm.DB, ownerID uint, req *dto.UploadRequest) (*dto.FileUploadResponse, error)
	List(ctx context.Context, db *gorm.DB, ownerID uint, query *dto.ListFilesQuery) (*dto.FileListResponse, error)
	Get(ctx context.Context, db *gorm.DB, ownerID, fileID uint) (*dto.FileResponse, error)
	// Download отдает байты только если их отпечаток совпал с исходным.
	Download(ctx context.Context, db *gorm.DB, ownerID, fileID uint, meta dto.CheckMeta) (*dto.DownloadResult, error)
	Verify(ctx context.Context, db *gorm.DB, ownerID, fileID uint, meta dto.CheckMeta) (*dto.IntegrityCheckResponse, error)
	History(ctx context.Context, db *gorm.DB, ownerID, fileID uint, query *dto.HistoryQuery) (*dto.FileIntegrityHistory, error)
	Delete(ctx context.Context, db *gorm.DB, ownerID, fileID uint) error
	DashboardStats(ctx context.Context, db *gorm.DB, ownerID uint) (*dto.DashboardStats, error)
}

type fileService struct {
	fileRepo     repositories.FileRepository
	logRepo      repositories.IntegrityLogRepository
	userRepo     repositories.UserRepository
	storage      storage.Storage
	alerts       email.Provider
	maxFileSize  int64
	alertTimeout time.Duration
	now          func() time.Time
}

func NewFileService(
	fileRepo repositories.FileRepository,
	logRepo repositories.IntegrityLogRepository,
	userRepo repositories.UserRepository,
	store storage.Storage,
	alerts email.Provider,
	maxFileSize int64,
) FileService {
	if alerts == nil {
		alerts = email.NoopProvider{}
	}
	return &fileService{
		fileRepo:     fileRepo,
		logRepo:      logRepo,
		userRepo:     userRepo,
		storage:      store,
		alerts:       alerts,
		maxFileSize:  maxFileSize,
		alertTimeout: alertTimeout,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// ============================================
// Upload
// ============================================

func (s *fileService) Upload(ctx context.Context, db *gorm.DB, ownerID uint, req *dto.UploadRequest) (*dto.FileUploadResponse, error) {
	if strings.TrimSpace(req.OriginalFilename) == "" {
		return nil, apperrors.ErrNoFileProvided
	}
	if s.maxFileSize > 0 && int64(len(req.Content)) > s.maxFileSize {
		return nil, apperrors.ErrFileTooLarge(s.maxFileSize)
	}

	hash := integrity.Digest(req.Content)

	path, size, err := s.storage.Save(ctx, req.OriginalFilename, req.Content)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			return nil, apperrors.ErrFileTooLarge(s.maxFileSize)
		}
		return nil, apperrors.StorageError(err)
	}

	file, err := s.createFileRecord(ctx, db, ownerID, req, path, size, hash)
	if err != nil {
		// Без записи в БД блоб никому не нужен
		if _, delErr := s.storage.Delete(ctx, path); delErr != nil {
			logger.CtxWithError(ctx, "Failed to remove orphaned blob", delErr, "path", path)
		}
		return nil, apperrors.InternalError(err)
	}

	uploadedBytesTotal.Add(float64(size))
	integrityChecksTotal.WithLabelValues(string(models.CheckTypeUpload), checkResult(true)).Inc()
	logger.CtxInfo(ctx, "File uploaded",
		"file_id", file.ID,
		"size", size,
		"sha256", hash,
	)

	return dto.NewFileUploadResponse(file), nil
}

func (s *fileService) createFileRecord(ctx context.Context, db *gorm.DB, ownerID uint, req *dto.UploadRequest, path string, size int64, hash string) (*models.File, error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	now := s.now()
	file := &models.File{
		Filename:         s.storage.Name(path),
		OriginalFilename: req.OriginalFilename,
		FileSize:         size,
		ContentType:      req.ContentType,
		SHA256Hash:       hash,
		StoragePath:      path,
		IsVerified:       true,
		UploadCount:      1,
		LastVerifiedAt:   &now,
		OwnerID:          ownerID,
	}
	if err := s.fileRepo.Create(tx, file); err != nil {
		return nil, err
	}

	entry := &models.IntegrityLog{
		FileID:       file.ID,
		CheckType:    models.CheckTypeUpload,
		OriginalHash: hash,
		ComputedHash: hash,
		IsValid:      true,
		CheckedAt:    now,
		IPAddress:    truncate(req.IPAddress, 45),
		UserAgent:    truncate(req.UserAgent, 500),
	}
	if err := s.logRepo.Create(tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return file, nil
}

// ============================================
// Read
// ============================================

func (s *fileService) List(ctx context.Context, db *gorm.DB, ownerID uint, query *dto.ListFilesQuery) (*dto.FileListResponse, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = dto.DefaultListLimit
	}
	if limit > dto.MaxListLimit {
		limit = dto.MaxListLimit
	}

	files, total, err := s.fileRepo.ListByOwner(db.WithContext(ctx), ownerID, query.Skip, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.FileListResponse{
		Files: make([]dto.FileResponse, 0, len(files)),
		Total: total,
	}
	for i := range files {
		resp.Files = append(resp.Files, dto.NewFileResponse(&files[i]))
	}
	return resp, nil
}

func (s *fileService) Get(ctx context.Context, db *gorm.DB, ownerID, fileID uint) (*dto.FileResponse, error) {
	file, err := s.findOwned(db.WithContext(ctx), ownerID, fileID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewFileResponse(file)
	return &resp, nil
}

func (s *fileService) History(ctx context.Context, db *gorm.DB, ownerID, fileID uint, query *dto.HistoryQuery) (*dto.FileIntegrityHistory, error) {
	db = db.WithContext(ctx)

	file, err := s.findOwned(db, ownerID, fileID)
	if err != nil {
		return nil, err
	}

	logs, err := s.logRepo.ListByFile(db, file.ID, models.CheckType(query.CheckType), dto.HistoryLimit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.FileIntegrityHistory{
		File:          dto.NewFileResponse(file),
		IntegrityLogs: dto.NewIntegrityLogList(logs),
	}, nil
}

func (s *fileService) DashboardStats(ctx context.Context, db *gorm.DB, ownerID uint) (*dto.DashboardStats, error) {
	db = db.WithContext(ctx)

	stats, err := s.fileRepo.StatsByOwner(db, ownerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	recent, err := s.logRepo.RecentByOwner(db, ownerID, dto.RecentChecks)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.DashboardStats{
		TotalFiles:     stats.TotalFiles,
		TotalSize:      stats.TotalSize,
		VerifiedFiles:  stats.VerifiedFiles,
		CorruptedFiles: stats.CorruptedFiles,
		TotalDownloads: stats.TotalDownloads,
		RecentChecks:   dto.NewIntegrityLogList(recent),
	}, nil
}

// ============================================
// Integrity checks
// ============================================

func (s *fileService) Download(ctx context.Context, db *gorm.DB, ownerID, fileID uint, meta dto.CheckMeta) (*dto.DownloadResult, error) {
	file, err := s.findOwned(db.WithContext(ctx), ownerID, fileID)
	if err != nil {
		return nil, err
	}

	content, err := s.readBlob(ctx, file)
	if err != nil {
		return nil, err
	}

	// Хэшируем ровно тот буфер, который отдадим клиенту
	computed := integrity.Digest(content)
	valid, _, err := s.recordCheck(ctx, db, file, models.CheckTypeDownload, computed, meta)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, apperrors.ErrIntegrityCheckFailed
	}

	downloadedBytesTotal.Add(float64(len(content)))
	return &dto.DownloadResult{
		Filename:    file.OriginalFilename,
		ContentType: file.ContentType,
		Content:     content,
	}, nil
}

func (s *fileService) Verify(ctx context.Context, db *gorm.DB, ownerID, fileID uint, meta dto.CheckMeta) (*dto.IntegrityCheckResponse, error) {
	file, err := s.findOwned(db.WithContext(ctx), ownerID, fileID)
	if err != nil {
		return nil, err
	}

	computed, err := s.digestBlob(ctx, file)
	if err != nil {
		return nil, err
	}

	valid, checkedAt, err := s.recordCheck(ctx, db, file, models.CheckTypeManual, computed, meta)
	if err != nil {
		return nil, err
	}

	message := MessageVerified
	if !valid {
		message = MessageTampered
	}

	return &dto.IntegrityCheckResponse{
		FileID:       file.ID,
		Filename:     file.OriginalFilename,
		OriginalHash: file.SHA256Hash,
		ComputedHash: computed,
		IsValid:      valid,
		CheckedAt:    checkedAt,
		Message:      message,
	}, nil
}

// recordCheck пишет запись в журнал и обновляет статус файла в одной транзакции.
func (s *fileService) recordCheck(ctx context.Context, db *gorm.DB, file *models.File, checkType models.CheckType, computed string, meta dto.CheckMeta) (bool, time.Time, error) {
	valid := integrity.Match(file.SHA256Hash, computed)
	checkedAt := s.now()

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return false, checkedAt, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	countDownload := checkType == models.CheckTypeDownload
	if err := s.fileRepo.MarkChecked(tx, file.ID, valid, checkedAt, countDownload); err != nil {
		if errors.Is(err, repositories.ErrFileNotFound) {
			// Файл удалили между чтением и проверкой
			return false, checkedAt, apperrors.ErrFileNotFound
		}
		return false, checkedAt, apperrors.InternalError(err)
	}

	entry := &models.IntegrityLog{
		FileID:       file.ID,
		CheckType:    checkType,
		OriginalHash: file.SHA256Hash,
		ComputedHash: computed,
		IsValid:      valid,
		CheckedAt:    checkedAt,
		IPAddress:    truncate(meta.IPAddress, 45),
		UserAgent:    truncate(meta.UserAgent, 500),
	}
	if err := s.logRepo.Create(tx, entry); err != nil {
		return false, checkedAt, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return false, checkedAt, apperrors.InternalError(err)
	}

	integrityChecksTotal.WithLabelValues(string(checkType), checkResult(valid)).Inc()

	if !valid {
		logger.CtxWarn(ctx, "Integrity check failed",
			"file_id", file.ID,
			"check_type", string(checkType),
			"expected", file.SHA256Hash,
			"computed", computed,
		)
		s.sendAlert(ctx, db, file, checkType, computed, checkedAt)
	}
	return valid, checkedAt, nil
}

func (s *fileService) sendAlert(ctx context.Context, db *gorm.DB, file *models.File, checkType models.CheckType, computed string, checkedAt time.Time) {
	owner, err := s.userRepo.FindByID(db.WithContext(ctx), file.OwnerID)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to load owner for integrity alert", err, "file_id", file.ID)
		return
	}

	alert := &email.IntegrityAlert{
		To:               owner.Email,
		Username:         owner.Username,
		FileID:           file.ID,
		OriginalFilename: file.OriginalFilename,
		CheckType:        string(checkType),
		OriginalHash:     file.SHA256Hash,
		ComputedHash:     computed,
		CheckedAt:        checkedAt,
	}
	// Клиент мог уже отключиться, письмо все равно нужно попытаться отправить
	alertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.alertTimeout)
	defer cancel()

	if err := s.alerts.SendIntegrityAlert(alertCtx, alert); err != nil {
		alertFailuresTotal.Inc()
		logger.CtxWithError(ctx, "Failed to send integrity alert", err, "file_id", file.ID)
	}
}

func (s *fileService) readBlob(ctx context.Context, file *models.File) ([]byte, error) {
	rc, err := s.openBlob(ctx, file)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}
	return content, nil
}

func (s *fileService) digestBlob(ctx context.Context, file *models.File) (string, error) {
	if d, ok := s.storage.(storage.Digester); ok {
		computed, err := d.Digest(ctx, file.StoragePath)
		if err != nil {
			return "", s.blobError(ctx, file, err)
		}
		return computed, nil
	}

	rc, err := s.openBlob(ctx, file)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	computed, err := integrity.DigestReader(rc)
	if err != nil {
		return "", apperrors.StorageError(err)
	}
	return computed, nil
}

func (s *fileService) openBlob(ctx context.Context, file *models.File) (io.ReadCloser, error) {
	rc, err := s.storage.Open(ctx, file.StoragePath)
	if err != nil {
		return nil, s.blobError(ctx, file, err)
	}
	return rc, nil
}

func (s *fileService) blobError(ctx context.Context, file *models.File, err error) error {
	if errors.Is(err, storage.ErrObjectNotFound) {
		logger.CtxWarn(ctx, "Blob missing on storage", "file_id", file.ID)
		return apperrors.ErrBlobNotFound
	}
	return apperrors.StorageError(err)
}

// ============================================
// Delete
// ============================================

func (s *fileService) Delete(ctx context.Context, db *gorm.DB, ownerID, fileID uint) error {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	file, err := s.findOwned(tx, ownerID, fileID)
	if err != nil {
		return err
	}

	if err := s.fileRepo.DeleteByOwner(tx, file.ID, ownerID); err != nil {
		if errors.Is(err, repositories.ErrFileNotFound) {
			return apperrors.ErrFileNotFound
		}
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	// Блоб удаляем после коммита: отсутствующий блоб не ошибка
	removed, err := s.storage.Delete(ctx, file.StoragePath)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to delete blob", err, "file_id", file.ID)
	}

	logger.CtxInfo(ctx, "File deleted", "file_id", file.ID, "blob_removed", removed)
	return nil
}

func (s *fileService) findOwned(db *gorm.DB, ownerID, fileID uint) (*models.File, error) {
	file, err := s.fileRepo.FindByOwner(db, fileID, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrFileNotFound) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return file, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.ToValidUTF8(s[:max], "")
}
