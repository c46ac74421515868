package httperr

import "errors"

// Códigos de negócio. Cada um corresponde a um status HTTP em Respond.
const (
	CodeInvalidInput      = "invalid_input"
	CodeNotFound          = "not_found"
	CodeTenantInactive    = "tenant_inactive"
	CodeInvalidService    = "invalid_service"
	CodeInvalidStaff      = "invalid_staff"
	CodeSlotConflict      = "slot_conflict"
	CodeAlreadyResolved   = "already_resolved"
	CodeGatewayFailure    = "gateway_failure"
	CodeUnauthorized      = "unauthorized"
	CodeInsufficientStock = "insufficient_stock"
	CodeInternal          = "internal"
)

type BusinessError struct {
	Code   string
	Detail string
}

func (e BusinessError) Error() string {
	if e.Detail != "" {
		return e.Code + ": " + e.Detail
	}
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// Detailed carrega um motivo legível junto do código.
func Detailed(code, detail string) error {
	return BusinessError{Code: code, Detail: detail}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// CodeOf devolve o código de negócio do erro, ou CodeInternal.
func CodeOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return CodeInternal
}
