package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"file_integrity_backend/internal/services"
	"file_integrity_backend/internal/services/dto"
	"file_integrity_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// multipartOverhead - запас на заголовки и границы multipart поверх лимита файла
const multipartOverhead = 1 << 20

type FileHandler struct {
	*BaseHandler
	fileService services.FileService
	maxFileSize int64
}

func NewFileHandler(base *BaseHandler, fileService services.FileService, maxFileSize int64) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		fileService: fileService,
		maxFileSize: maxFileSize,
	}
}

// RegisterRoutes регистрирует маршруты /files, все под аутентификацией
func (h *FileHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	files := rg.Group("/files")
	files.Use(authMW)
	{
		files.POST("/upload", h.Upload)
		files.GET("/", h.List)
		files.GET("/dashboard/stats", h.DashboardStats)
		files.GET("/:id", h.Get)
		files.GET("/:id/download", h.Download)
		files.POST("/:id/verify", h.Verify)
		files.GET("/:id/history", h.History)
		files.DELETE("/:id", h.Delete)
	}
}

func checkMeta(c *gin.Context) dto.CheckMeta {
	return dto.CheckMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// Upload godoc
// @Summary Загрузка файла
// @Description Сохраняет файл и фиксирует его SHA-256 отпечаток
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Файл"
// @Success 201 {object} dto.FileUploadResponse
// @Failure 400 {object} apperrors.ErrorResponse "Файл не передан или слишком большой"
// @Failure 500 {object} apperrors.ErrorResponse
// @Router /api/files/upload [post]
func (h *FileHandler) Upload(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if h.maxFileSize > 0 {
		// Отсекаем тело до разбора multipart, иначе оно целиком уйдет во временные файлы
		bodyLimit := h.maxFileSize + multipartOverhead
		if c.Request.ContentLength > bodyLimit {
			h.HandleServiceError(c, apperrors.ErrFileTooLarge(h.maxFileSize))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, bodyLimit)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.HandleServiceError(c, apperrors.ErrFileTooLarge(h.maxFileSize))
			return
		}
		h.HandleServiceError(c, apperrors.ErrNoFileProvided)
		return
	}
	if fh.Filename == "" {
		h.HandleServiceError(c, apperrors.ErrNoFileProvided)
		return
	}
	if h.maxFileSize > 0 && fh.Size > h.maxFileSize {
		h.HandleServiceError(c, apperrors.ErrFileTooLarge(h.maxFileSize))
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	defer f.Close()

	var reader io.Reader = f
	if h.maxFileSize > 0 {
		// На байт больше лимита, чтобы сервис увидел превышение
		reader = io.LimitReader(f, h.maxFileSize+1)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}

	resp, err := h.fileService.Upload(c.Request.Context(), h.GetDB(c), userID, &dto.UploadRequest{
		OriginalFilename: fh.Filename,
		ContentType:      fh.Header.Get("Content-Type"),
		Content:          content,
		IPAddress:        c.ClientIP(),
		UserAgent:        c.Request.UserAgent(),
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary Список файлов
// @Tags files
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Сколько пропустить" default(0)
// @Param limit query int false "Сколько вернуть" default(50)
// @Success 200 {object} dto.FileListResponse
// @Router /api/files/ [get]
func (h *FileHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.ListFilesQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.fileService.List(c.Request.Context(), h.GetDB(c), userID, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Метаданные файла
// @Tags files
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID файла"
// @Success 200 {object} dto.FileResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/files/{id} [get]
func (h *FileHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	fileID, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	resp, err := h.fileService.Get(c.Request.Context(), h.GetDB(c), userID, fileID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Download godoc
// @Summary Скачивание с проверкой целостности
// @Description Байты отдаются только если отпечаток совпал с исходным
// @Tags files
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "ID файла"
// @Success 200 {file} file
// @Failure 404 {object} apperrors.ErrorResponse "Файл не найден"
// @Failure 409 {object} apperrors.ErrorResponse "Нарушена целостность"
// @Router /api/files/{id}/download [get]
func (h *FileHandler) Download(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	fileID, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	result, err := h.fileService.Download(c.Request.Context(), h.GetDB(c), userID, fileID, checkMeta(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	contentType := result.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.Filename}))
	c.Data(http.StatusOK, contentType, result.Content)
}

// Verify godoc
// @Summary Ручная проверка целостности
// @Tags files
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID файла"
// @Success 200 {object} dto.IntegrityCheckResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/files/{id}/verify [post]
func (h *FileHandler) Verify(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	fileID, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	resp, err := h.fileService.Verify(c.Request.Context(), h.GetDB(c), userID, fileID, checkMeta(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// History godoc
// @Summary История проверок файла
// @Tags files
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID файла"
// @Param check_type query string false "upload, download или manual"
// @Success 200 {object} dto.FileIntegrityHistory
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/files/{id}/history [get]
func (h *FileHandler) History(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	fileID, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	var query dto.HistoryQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.fileService.History(c.Request.Context(), h.GetDB(c), userID, fileID, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary Удаление файла
// @Tags files
// @Security BearerAuth
// @Param id path int true "ID файла"
// @Success 204
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/files/{id} [delete]
func (h *FileHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	fileID, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	if err := h.fileService.Delete(c.Request.Context(), h.GetDB(c), userID, fileID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DashboardStats godoc
// @Summary Статистика для дашборда
// @Tags files
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardStats
// @Router /api/files/dashboard/stats [get]
func (h *FileHandler) DashboardStats(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.fileService.DashboardStats(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
