// @title           File Integrity System API
// @version         1.0.0
// @description     Загрузка файлов с SHA-256 отпечатком и проверкой целостности при скачивании.
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "file_integrity_backend/internal/app"

func main() {
	app.Run()
}
