package dto

import (
	"time"

	"file_integrity_backend/internal/models"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
	HistoryLimit     = 50
	RecentChecks     = 10
)

// ListFilesQuery - пагинация списка файлов
type ListFilesQuery struct {
	Skip  int `form:"skip,default=0" validate:"gte=0"`
	Limit int `form:"limit,default=50" validate:"gte=1,lte=500"`
}

// HistoryQuery - необязательный фильтр журнала по типу проверки
type HistoryQuery struct {
	CheckType string `form:"check_type" validate:"omitempty,check-type"`
}

// UploadRequest - загруженный файл, уже прочитанный в память
type UploadRequest struct {
	OriginalFilename string
	ContentType      string
	Content          []byte
	IPAddress        string
	UserAgent        string
}

// CheckMeta - откуда пришла проверка, попадает в журнал
type CheckMeta struct {
	IPAddress string
	UserAgent string
}

type FileUploadResponse struct {
	ID               uint      `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	FileSize         int64     `json:"file_size"`
	ContentType      string    `json:"content_type,omitempty"`
	SHA256Hash       string    `json:"sha256_hash"`
	IsVerified       bool      `json:"is_verified"`
	CreatedAt        time.Time `json:"created_at"`
}

type FileResponse struct {
	ID               uint       `json:"id"`
	Filename         string     `json:"filename"`
	OriginalFilename string     `json:"original_filename"`
	FileSize         int64      `json:"file_size"`
	ContentType      string     `json:"content_type,omitempty"`
	SHA256Hash       string     `json:"sha256_hash"`
	IsVerified       bool       `json:"is_verified"`
	UploadCount      int        `json:"upload_count"`
	DownloadCount    int        `json:"download_count"`
	LastVerifiedAt   *time.Time `json:"last_verified_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type FileListResponse struct {
	Files []FileResponse `json:"files"`
	Total int64          `json:"total"`
}

type IntegrityCheckResponse struct {
	FileID       uint      `json:"file_id"`
	Filename     string    `json:"filename"`
	OriginalHash string    `json:"original_hash"`
	ComputedHash string    `json:"computed_hash"`
	IsValid      bool      `json:"is_valid"`
	CheckedAt    time.Time `json:"checked_at"`
	Message      string    `json:"message"`
}

type IntegrityLogResponse struct {
	ID           uint             `json:"id"`
	FileID       uint             `json:"file_id"`
	CheckType    models.CheckType `json:"check_type"`
	OriginalHash string           `json:"original_hash"`
	ComputedHash string           `json:"computed_hash"`
	IsValid      bool             `json:"is_valid"`
	CheckedAt    time.Time        `json:"checked_at"`
}

type FileIntegrityHistory struct {
	File          FileResponse           `json:"file"`
	IntegrityLogs []IntegrityLogResponse `json:"integrity_logs"`
}

type DashboardStats struct {
	TotalFiles     int64                  `json:"total_files"`
	TotalSize      int64                  `json:"total_size"`
	VerifiedFiles  int64                  `json:"verified_files"`
	CorruptedFiles int64                  `json:"corrupted_files"`
	TotalDownloads int64                  `json:"total_downloads"`
	RecentChecks   []IntegrityLogResponse `json:"recent_checks"`
}

// DownloadResult - проверенные байты и заголовки для отдачи
type DownloadResult struct {
	Filename    string
	ContentType string
	Content     []byte
}

func NewFileUploadResponse(f *models.File) *FileUploadResponse {
	return &FileUploadResponse{
		ID:               f.ID,
		Filename:         f.Filename,
		OriginalFilename: f.OriginalFilename,
		FileSize:         f.FileSize,
		ContentType:      f.ContentType,
		SHA256Hash:       f.SHA256Hash,
		IsVerified:       f.IsVerified,
		CreatedAt:        f.CreatedAt,
	}
}

func NewFileResponse(f *models.File) FileResponse {
	return FileResponse{
		ID:               f.ID,
		Filename:         f.Filename,
		OriginalFilename: f.OriginalFilename,
		FileSize:         f.FileSize,
		ContentType:      f.ContentType,
		SHA256Hash:       f.SHA256Hash,
		IsVerified:       f.IsVerified,
		UploadCount:      f.UploadCount,
		DownloadCount:    f.DownloadCount,
		LastVerifiedAt:   f.LastVerifiedAt,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}
}

func NewIntegrityLogResponse(l *models.IntegrityLog) IntegrityLogResponse {
	return IntegrityLogResponse{
		ID:           l.ID,
		FileID:       l.FileID,
		CheckType:    l.CheckType,
		OriginalHash: l.OriginalHash,
		ComputedHash: l.ComputedHash,
		IsValid:      l.IsValid,
		CheckedAt:    l.CheckedAt,
	}
}

func NewIntegrityLogList(logs []models.IntegrityLog) []IntegrityLogResponse {
	out := make([]IntegrityLogResponse, 0, len(logs))
	for i := range logs {
		out = append(out, NewIntegrityLogResponse(&logs[i]))
	}
	return out
}
