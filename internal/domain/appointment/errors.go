package appointment

import (
	"errors"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
)

var (
	ErrInvalidStart = httperr.Detailed(httperr.CodeInvalidInput, "start must be a concrete date and time")
	ErrMissingRefs  = httperr.Detailed(httperr.CodeInvalidInput, "tenant, client, service and staff are required")

	ErrTenantNotFound      = httperr.Detailed(httperr.CodeNotFound, "tenant not found")
	ErrStaffNotFound       = httperr.Detailed(httperr.CodeNotFound, "staff member not found")
	ErrServiceNotFound     = httperr.Detailed(httperr.CodeNotFound, "service not found")
	ErrClientNotFound      = httperr.Detailed(httperr.CodeNotFound, "client not found")
	ErrAppointmentNotFound = httperr.Detailed(httperr.CodeNotFound, "appointment not found")
	ErrRequestNotFound     = httperr.Detailed(httperr.CodeNotFound, "deletion request not found")

	ErrTenantInactive = httperr.ErrBusiness(httperr.CodeTenantInactive)

	ErrServiceForeign  = httperr.Detailed(httperr.CodeInvalidService, "service belongs to another tenant")
	ErrServiceDuration = httperr.Detailed(httperr.CodeInvalidService, "service duration must be positive")
	ErrServiceInactive = httperr.Detailed(httperr.CodeInvalidService, "service is inactive")
	ErrStaffForeign    = httperr.Detailed(httperr.CodeInvalidStaff, "staff member belongs to another tenant")
	ErrStaffInactive   = httperr.Detailed(httperr.CodeInvalidStaff, "staff member is inactive")

	ErrServiceNotOffered = httperr.Detailed(httperr.CodeInvalidService, "staff member does not offer this service")

	// Na listagem de horários, referência desconhecida é entrada inválida.
	ErrServiceUnknown = httperr.Detailed(httperr.CodeInvalidService, "service not found")
	ErrStaffUnknown   = httperr.Detailed(httperr.CodeInvalidStaff, "staff member not found")

	ErrSlotConflict    = httperr.ErrBusiness(httperr.CodeSlotConflict)
	ErrAlreadyResolved = httperr.ErrBusiness(httperr.CodeAlreadyResolved)

	// ErrRetryable sinaliza falha transitória de serialização na escrita.
	// Não faz parte da taxonomia pública; o orquestrador tenta de novo uma vez.
	ErrRetryable = errors.New("appointment: transient write conflict")
)
