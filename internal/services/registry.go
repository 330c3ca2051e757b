package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService AuthService
	FileService FileService
}
