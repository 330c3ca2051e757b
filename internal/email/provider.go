package email

import "context"

// Provider отправляет уведомления о нарушении целостности
type Provider interface {
	SendIntegrityAlert(ctx context.Context, alert *IntegrityAlert) error
}

// NoopProvider используется, когда почта отключена.
type NoopProvider struct{}

func (NoopProvider) SendIntegrityAlert(context.Context, *IntegrityAlert) error { return nil }
