package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	integrityChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fis_integrity_checks_total",
		Help: "Количество проверок целостности по типу и результату.",
	}, []string{"check_type", "result"})

	uploadedBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fis_uploaded_bytes_total",
		Help: "Суммарный объем загруженных файлов в байтах.",
	})

	downloadedBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fis_downloaded_bytes_total",
		Help: "Суммарный объем отданных (проверенных) файлов в байтах.",
	})

	alertFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fis_integrity_alert_failures_total",
		Help: "Количество неотправленных писем о нарушении целостности.",
	})
)

func checkResult(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}
