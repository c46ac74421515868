// Package notify entrega mensagens de WhatsApp fora do caminho da reserva.
// Falhas aqui são logadas e contadas, nunca devolvidas ao cliente.
package notify

import (
	"context"
	"time"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
)

var ErrGatewayFailure = httperr.ErrBusiness(httperr.CodeGatewayFailure)

// Credentials são as chaves do tenant no gateway.
type Credentials struct {
	AppKey  string
	AuthKey string
}

func (c Credentials) Valid() bool {
	return c.AppKey != "" && c.AuthKey != ""
}

// Gateway é o contrato mínimo do provedor de mensagens.
type Gateway interface {
	Send(ctx context.Context, cred Credentials, phone, text string) error
	ScheduleSend(ctx context.Context, cred Credentials, phone, text string, whenUTC time.Time) error
}

// DevicePairing é o retorno do pareamento por QR code.
type DevicePairing struct {
	QRCode   string `json:"qr_code"`
	DeviceID string `json:"device_id"`
}

// DeviceManager cobre o pareamento de aparelhos com a conta da plataforma.
type DeviceManager interface {
	PairDevice(ctx context.Context, deviceName, webhookURL string) (DevicePairing, error)
	DeviceConnected(ctx context.Context, deviceName string) (bool, error)
}

// CredentialSource resolve as chaves no momento do envio, para que
// segredos não trafeguem pela fila.
type CredentialSource interface {
	GatewayCredentials(ctx context.Context, tenantID uint) (Credentials, error)
}
