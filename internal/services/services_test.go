package services

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"file_integrity_backend/database"
	"file_integrity_backend/internal/auth"
	"file_integrity_backend/internal/email"
	"file_integrity_backend/internal/models"
	"file_integrity_backend/internal/repositories"
	"file_integrity_backend/internal/services/dto"
	"file_integrity_backend/internal/storage"
	"file_integrity_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type recordingAlerts struct {
	mu     sync.Mutex
	alerts []*email.IntegrityAlert
}

func (r *recordingAlerts) SendIntegrityAlert(_ context.Context, alert *email.IntegrityAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, alert)
	return nil
}

type testEnv struct {
	db     *gorm.DB
	auth   AuthService
	files  FileService
	store  storage.Storage
	alerts *recordingAlerts
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(database.Options{Driver: "sqlite", DSN: "file::memory:", LogLevel: gormlogger.Silent})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	store, err := storage.NewStorage(context.Background(), storage.Config{Type: "local", BasePath: t.TempDir(), MaxSize: 1024})
	require.NoError(t, err)

	jwtManager, err := auth.NewJWTManager("test-secret", "HS256", 30*time.Minute)
	require.NoError(t, err)

	userRepo := repositories.NewUserRepository()
	alerts := &recordingAlerts{}

	return &testEnv{
		db:     db,
		auth:   NewAuthService(userRepo, jwtManager),
		files:  NewFileService(repositories.NewFileRepository(), repositories.NewIntegrityLogRepository(), userRepo, store, alerts, 1024),
		store:  store,
		alerts: alerts,
	}
}

func (e *testEnv) register(t *testing.T, name string) uint {
	t.Helper()
	user, err := e.auth.Register(context.Background(), e.db, &dto.RegisterRequest{
		Email:    name + "@example.com",
		Username: name,
		Password: "password123",
	})
	require.NoError(t, err)
	return user.ID
}

func (e *testEnv) upload(t *testing.T, ownerID uint, name string, content []byte) *dto.FileUploadResponse {
	t.Helper()
	resp, err := e.files.Upload(context.Background(), e.db, ownerID, &dto.UploadRequest{
		OriginalFilename: name,
		ContentType:      "text/plain",
		Content:          content,
	})
	require.NoError(t, err)
	return resp
}

func (e *testEnv) storagePath(t *testing.T, fileID uint) string {
	t.Helper()
	var file models.File
	require.NoError(t, e.db.First(&file, fileID).Error)
	return file.StoragePath
}

// ============================================
// Auth
// ============================================

func TestAuthService_RegisterAndLogin(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	userID := env.register(t, "alice")

	token, err := env.auth.Login(ctx, env.db, &dto.LoginRequest{Username: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)

	user, err := env.auth.Authenticate(ctx, env.db, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)

	me, err := env.auth.GetUser(ctx, env.db, userID)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)
	assert.True(t, me.IsActive)
}

func TestAuthService_DuplicateRegistration(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.register(t, "bob")

	_, err := env.auth.Register(ctx, env.db, &dto.RegisterRequest{Email: "bob@example.com", Username: "bob2", Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	_, err = env.auth.Register(ctx, env.db, &dto.RegisterRequest{Email: "bob2@example.com", Username: "bob", Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrUsernameAlreadyExists)
}

func TestAuthService_LongPassword(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	password := strings.Repeat("p", 80)

	_, err := env.auth.Register(ctx, env.db, &dto.RegisterRequest{Email: "long@example.com", Username: "long", Password: password})
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, env.db, &dto.LoginRequest{Username: "long@example.com", Password: password})
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, env.db, &dto.LoginRequest{Username: "long@example.com", Password: strings.Repeat("p", 79) + "q"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_UsernameTooShortAfterTrim(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, env.db, &dto.RegisterRequest{Email: "a@example.com", Username: " a ", Password: "password123"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
	assert.Equal(t, map[string]string{"username": "Must be at least 3 characters long"}, appErr.Details)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)

	user, err := env.auth.Register(ctx, env.db, &dto.RegisterRequest{Email: "abc@example.com", Username: "  abc  ", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "abc", user.Username)
}

func TestAuthService_LoginFailuresAreIdentical(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.register(t, "carol")

	_, errUnknown := env.auth.Login(ctx, env.db, &dto.LoginRequest{Username: "nobody@example.com", Password: "password123"})
	_, errWrong := env.auth.Login(ctx, env.db, &dto.LoginRequest{Username: "carol@example.com", Password: "wrong-password"})

	require.Error(t, errUnknown)
	require.Error(t, errWrong)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
	assert.ErrorIs(t, errUnknown, apperrors.ErrInvalidCredentials)
}

func TestAuthService_InactiveUser(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	userID := env.register(t, "dave")

	token, err := env.auth.Login(ctx, env.db, &dto.LoginRequest{Username: "dave@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", userID).Update("is_active", false).Error)

	_, err = env.auth.Authenticate(ctx, env.db, token.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrUserDisabled)

	_, err = env.auth.Login(ctx, env.db, &dto.LoginRequest{Username: "dave@example.com", Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrUserDisabled)
}

func TestAuthService_InvalidToken(t *testing.T) {
	env := setupEnv(t)
	_, err := env.auth.Authenticate(context.Background(), env.db, "not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

// ============================================
// Files
// ============================================

func TestFileService_UploadRecordsFingerprint(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")

	resp := env.upload(t, owner, "abc.txt", []byte("abc"))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", resp.SHA256Hash)
	assert.Equal(t, int64(3), resp.FileSize)
	assert.True(t, resp.IsVerified)
	assert.NotEqual(t, "abc.txt", resp.Filename)

	history, err := env.files.History(ctx, env.db, owner, resp.ID, &dto.HistoryQuery{})
	require.NoError(t, err)
	require.Len(t, history.IntegrityLogs, 1)
	assert.Equal(t, models.CheckTypeUpload, history.IntegrityLogs[0].CheckType)
	assert.Equal(t, resp.SHA256Hash, history.IntegrityLogs[0].ComputedHash)
	assert.Equal(t, 1, history.File.UploadCount)
}

func TestFileService_UploadRejections(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")

	_, err := env.files.Upload(ctx, env.db, owner, &dto.UploadRequest{OriginalFilename: "", Content: []byte("x")})
	assert.ErrorIs(t, err, apperrors.ErrNoFileProvided)

	_, err = env.files.Upload(ctx, env.db, owner, &dto.UploadRequest{OriginalFilename: "big.bin", Content: make([]byte, 2048)})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeLimitExceeded, appErr.Code)
	assert.Equal(t, 400, appErr.HTTPCode)

	list, err := env.files.List(ctx, env.db, owner, &dto.ListFilesQuery{Limit: 50})
	require.NoError(t, err)
	assert.Zero(t, list.Total)
}

func TestFileService_DownloadAndVerify(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	uploaded := env.upload(t, owner, "doc.txt", []byte("original content"))

	result, err := env.files.Download(ctx, env.db, owner, uploaded.ID, dto.CheckMeta{IPAddress: "10.0.0.1", UserAgent: "test"})
	require.NoError(t, err)
	assert.Equal(t, []byte("original content"), result.Content)
	assert.Equal(t, "doc.txt", result.Filename)

	check, err := env.files.Verify(ctx, env.db, owner, uploaded.ID, dto.CheckMeta{})
	require.NoError(t, err)
	assert.True(t, check.IsValid)
	assert.Equal(t, MessageVerified, check.Message)
	assert.Equal(t, "doc.txt", check.Filename)

	file, err := env.files.Get(ctx, env.db, owner, uploaded.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, file.DownloadCount)
	assert.True(t, file.IsVerified)
	assert.NotNil(t, file.LastVerifiedAt)

	history, err := env.files.History(ctx, env.db, owner, uploaded.ID, &dto.HistoryQuery{})
	require.NoError(t, err)
	require.Len(t, history.IntegrityLogs, 3)
	assert.Equal(t, models.CheckTypeManual, history.IntegrityLogs[0].CheckType)
	assert.Empty(t, env.alerts.alerts)

	downloads, err := env.files.History(ctx, env.db, owner, uploaded.ID, &dto.HistoryQuery{CheckType: string(models.CheckTypeDownload)})
	require.NoError(t, err)
	require.Len(t, downloads.IntegrityLogs, 1)
	assert.Equal(t, models.CheckTypeDownload, downloads.IntegrityLogs[0].CheckType)
}

func TestFileService_TamperDetection(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	uploaded := env.upload(t, owner, "doc.txt", []byte("original content"))

	require.NoError(t, os.WriteFile(env.storagePath(t, uploaded.ID), []byte("tampered content"), 0o644))

	check, err := env.files.Verify(ctx, env.db, owner, uploaded.ID, dto.CheckMeta{})
	require.NoError(t, err)
	assert.False(t, check.IsValid)
	assert.Equal(t, MessageTampered, check.Message)
	assert.NotEqual(t, check.OriginalHash, check.ComputedHash)

	_, err = env.files.Download(ctx, env.db, owner, uploaded.ID, dto.CheckMeta{})
	assert.ErrorIs(t, err, apperrors.ErrIntegrityCheckFailed)

	file, err := env.files.Get(ctx, env.db, owner, uploaded.ID)
	require.NoError(t, err)
	assert.False(t, file.IsVerified)
	assert.Equal(t, 1, file.DownloadCount)

	history, err := env.files.History(ctx, env.db, owner, uploaded.ID, &dto.HistoryQuery{})
	require.NoError(t, err)
	require.Len(t, history.IntegrityLogs, 3)
	assert.Equal(t, models.CheckTypeDownload, history.IntegrityLogs[0].CheckType)
	assert.False(t, history.IntegrityLogs[0].IsValid)

	require.Len(t, env.alerts.alerts, 2)
	assert.Equal(t, "owner@example.com", env.alerts.alerts[0].To)

	// Восстановление содержимого снова дает валидный результат
	require.NoError(t, os.WriteFile(env.storagePath(t, uploaded.ID), []byte("original content"), 0o644))
	check, err = env.files.Verify(ctx, env.db, owner, uploaded.ID, dto.CheckMeta{})
	require.NoError(t, err)
	assert.True(t, check.IsValid)
}

// slowAlerts ждет, пока не истечет контекст отправки
type slowAlerts struct {
	err error
}

func (s *slowAlerts) SendIntegrityAlert(ctx context.Context, _ *email.IntegrityAlert) error {
	<-ctx.Done()
	s.err = ctx.Err()
	return s.err
}

func TestFileService_SlowAlertIsBounded(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	uploaded := env.upload(t, owner, "doc.txt", []byte("original content"))

	alerts := &slowAlerts{}
	svc := env.files.(*fileService)
	svc.alerts = alerts
	svc.alertTimeout = 50 * time.Millisecond

	require.NoError(t, os.WriteFile(env.storagePath(t, uploaded.ID), []byte("tampered content"), 0o644))

	start := time.Now()
	check, err := env.files.Verify(ctx, env.db, owner, uploaded.ID, dto.CheckMeta{})
	require.NoError(t, err)
	assert.False(t, check.IsValid)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.ErrorIs(t, alerts.err, context.DeadlineExceeded)
}

func TestFileService_HistoryAndRecentChecksAreCapped(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")

	// Монотонные часы: у каждой проверки свое время
	svc := env.files.(*fileService)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	uploaded := env.upload(t, owner, "doc.txt", []byte("content"))
	for i := 0; i < 60; i++ {
		_, err := env.files.Verify(ctx, env.db, owner, uploaded.ID, dto.CheckMeta{})
		require.NoError(t, err)
	}

	history, err := env.files.History(ctx, env.db, owner, uploaded.ID, &dto.HistoryQuery{})
	require.NoError(t, err)
	require.Len(t, history.IntegrityLogs, dto.HistoryLimit)
	assert.True(t, clock.Equal(history.IntegrityLogs[0].CheckedAt), "первой идет последняя проверка")
	for i := 1; i < len(history.IntegrityLogs); i++ {
		prev, cur := history.IntegrityLogs[i-1], history.IntegrityLogs[i]
		assert.True(t, prev.CheckedAt.After(cur.CheckedAt), "записи должны идти от новых к старым")
		assert.Equal(t, models.CheckTypeManual, cur.CheckType)
	}

	stats, err := env.files.DashboardStats(ctx, env.db, owner)
	require.NoError(t, err)
	require.Len(t, stats.RecentChecks, dto.RecentChecks)
	assert.Equal(t, history.IntegrityLogs[0].ID, stats.RecentChecks[0].ID)
}

func TestFileService_MissingBlob(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	uploaded := env.upload(t, owner, "doc.txt", []byte("content"))

	require.NoError(t, os.Remove(env.storagePath(t, uploaded.ID)))

	_, err := env.files.Verify(ctx, env.db, owner, uploaded.ID, dto.CheckMeta{})
	assert.ErrorIs(t, err, apperrors.ErrBlobNotFound)
	_, err = env.files.Download(ctx, env.db, owner, uploaded.ID, dto.CheckMeta{})
	assert.ErrorIs(t, err, apperrors.ErrBlobNotFound)

	history, err := env.files.History(ctx, env.db, owner, uploaded.ID, &dto.HistoryQuery{})
	require.NoError(t, err)
	assert.Len(t, history.IntegrityLogs, 1, "проверка без блоба не попадает в журнал")

	// Удаление работает и без блоба
	require.NoError(t, env.files.Delete(ctx, env.db, owner, uploaded.ID))
}

func TestFileService_OwnershipIsolation(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	uploaded := env.upload(t, alice, "secret.txt", []byte("alice data"))

	_, err := env.files.Get(ctx, env.db, bob, uploaded.ID)
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
	_, err = env.files.Download(ctx, env.db, bob, uploaded.ID, dto.CheckMeta{})
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
	_, err = env.files.Verify(ctx, env.db, bob, uploaded.ID, dto.CheckMeta{})
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
	_, err = env.files.History(ctx, env.db, bob, uploaded.ID, &dto.HistoryQuery{})
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
	assert.ErrorIs(t, env.files.Delete(ctx, env.db, bob, uploaded.ID), apperrors.ErrFileNotFound)

	list, err := env.files.List(ctx, env.db, bob, &dto.ListFilesQuery{Limit: 50})
	require.NoError(t, err)
	assert.Zero(t, list.Total)

	stats, err := env.files.DashboardStats(ctx, env.db, bob)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalFiles)
	assert.Empty(t, stats.RecentChecks)

	// Файл Алисы не тронут
	_, err = env.files.Get(ctx, env.db, alice, uploaded.ID)
	assert.NoError(t, err)
}

func TestFileService_ListPagination(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		env.upload(t, owner, name, []byte(name))
	}

	list, err := env.files.List(ctx, env.db, owner, &dto.ListFilesQuery{Skip: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), list.Total)
	require.Len(t, list.Files, 1)
	assert.Equal(t, "b.txt", list.Files[0].OriginalFilename)

	list, err = env.files.List(ctx, env.db, owner, &dto.ListFilesQuery{Skip: 10, Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, list.Files)
}

func TestFileService_DashboardStats(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	good := env.upload(t, owner, "good.txt", []byte("12345"))
	bad := env.upload(t, owner, "bad.txt", []byte("abc"))

	_, err := env.files.Download(ctx, env.db, owner, good.ID, dto.CheckMeta{})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(env.storagePath(t, bad.ID), []byte("xyz"), 0o644))
	_, err = env.files.Verify(ctx, env.db, owner, bad.ID, dto.CheckMeta{})
	require.NoError(t, err)

	stats, err := env.files.DashboardStats(ctx, env.db, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalFiles)
	assert.Equal(t, int64(8), stats.TotalSize)
	assert.Equal(t, int64(1), stats.VerifiedFiles)
	assert.Equal(t, int64(1), stats.CorruptedFiles)
	assert.Equal(t, int64(1), stats.TotalDownloads)
	require.Len(t, stats.RecentChecks, 4)
	assert.Equal(t, models.CheckTypeManual, stats.RecentChecks[0].CheckType)
}

func TestFileService_Delete(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	uploaded := env.upload(t, owner, "doc.txt", []byte("content"))
	path := env.storagePath(t, uploaded.ID)

	require.NoError(t, env.files.Delete(ctx, env.db, owner, uploaded.ID))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	var logCount int64
	require.NoError(t, env.db.Model(&models.IntegrityLog{}).Where("file_id = ?", uploaded.ID).Count(&logCount).Error)
	assert.Zero(t, logCount)

	_, err = env.files.Get(ctx, env.db, owner, uploaded.ID)
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
}
