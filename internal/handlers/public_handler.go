package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	slots "github.com/BruksfildServices01/agenda-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/agenda-scheduler/internal/usecase/appointment"
	ucAvailability "github.com/BruksfildServices01/agenda-scheduler/internal/usecase/availability"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler atende a página de agendamento e o link de exclusão,
// sem autenticação.
type PublicHandler struct {
	catalog *repository.CatalogGormRepository
	region  string

	slots          *ucAvailability.GenerateSlots
	create         *ucAppointment.CreateBooking
	resolve        *ucAppointment.ResolveDeletion
	deletionStatus *ucAppointment.GetDeletionStatus
}

func NewPublicHandler(
	catalog *repository.CatalogGormRepository,
	region string,
	slots *ucAvailability.GenerateSlots,
	create *ucAppointment.CreateBooking,
	resolve *ucAppointment.ResolveDeletion,
	deletionStatus *ucAppointment.GetDeletionStatus,
) *PublicHandler {
	return &PublicHandler{
		catalog:        catalog,
		region:         region,
		slots:          slots,
		create:         create,
		resolve:        resolve,
		deletionStatus: deletionStatus,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	StaffID     uint   `json:"staff_id" binding:"required"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	ClientName  string `json:"client_name" binding:"required,max=100"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email" binding:"omitempty,email"`
	Date        string `json:"date" binding:"required,ymd"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required,hhmm"` // HH:mm
	Observation string `json:"observation" binding:"max=255"`
}

////////////////////////////////////////////////////////
// PROFILE
////////////////////////////////////////////////////////

// publicStaff leva junto os serviços que o profissional atende.
type publicStaff struct {
	models.StaffMember
	ServiceIDs []uint `json:"service_ids"`
}

func (h *PublicHandler) Profile(c *gin.Context) {
	tenant, ok := h.activeTenant(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	services, err := h.catalog.ListServices(ctx, tenant.ID, true)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	staff, err := h.catalog.ListStaff(ctx, tenant.ID, true)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	links, err := h.catalog.StaffServiceIDs(ctx, tenant.ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	theme, err := h.catalog.GetTheme(ctx, tenant.ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	active := make(map[uint]bool, len(services))
	all := make([]uint, 0, len(services))
	for _, s := range services {
		active[s.ID] = true
		all = append(all, s.ID)
	}

	out := make([]publicStaff, 0, len(staff))
	for _, s := range staff {
		ids, linked := links[s.ID]
		if !linked {
			out = append(out, publicStaff{StaffMember: s, ServiceIDs: all})
			continue
		}
		offered := make([]uint, 0, len(ids))
		for _, id := range ids {
			if active[id] {
				offered = append(offered, id)
			}
		}
		out = append(out, publicStaff{StaffMember: s, ServiceIDs: offered})
	}

	c.JSON(http.StatusOK, gin.H{
		"tenant": gin.H{
			"name":     tenant.Name,
			"slug":     tenant.Slug,
			"phone":    tenant.Phone,
			"timezone": tenant.Timezone,
		},
		"theme":    theme,
		"services": services,
		"staff":    out,
	})
}

////////////////////////////////////////////////////////
// SLOTS (mesmo use case da área logada)
////////////////////////////////////////////////////////

func (h *PublicHandler) Slots(c *gin.Context) {
	tenant, ok := h.activeTenant(c)
	if !ok {
		return
	}
	listSlots(c, h.slots, tenant.ID, func() time.Time {
		return slots.Day(timezone.NowIn(tenant.Timezone))
	})
}

////////////////////////////////////////////////////////
// BOOKING
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	tenant, ok := h.activeTenant(c)
	if !ok {
		return
	}

	var req PublicCreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	start, err := parseDateTime(req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Data ou hora inválida.")
		return
	}

	clientID, ok := resolveClient(c, h.catalog, h.region, tenant.ID, req.ClientName, req.ClientPhone, req.ClientEmail)
	if !ok {
		return
	}

	res, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateBookingInput{
		TenantID:    tenant.ID,
		StaffID:     req.StaffID,
		ServiceID:   req.ServiceID,
		ClientID:    clientID,
		Start:       start,
		Observation: req.Observation,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ap := res.Appointment
	c.JSON(http.StatusCreated, gin.H{
		"id":         ap.ID,
		"staff_id":   ap.StaffID,
		"service_id": ap.ServiceID,
		"start_time": ap.StartTime,
		"end_time":   ap.EndTime,
	})
}

////////////////////////////////////////////////////////
// DELETION REQUEST (link enviado ao cliente)
////////////////////////////////////////////////////////

func (h *PublicHandler) DeletionStatus(c *gin.Context) {
	code, ok := deletionCode(c)
	if !ok {
		return
	}

	view, err := h.deletionStatus.Execute(c.Request.Context(), code)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *PublicHandler) ConfirmDeletion(c *gin.Context) { h.resolveDeletion(c, true) }
func (h *PublicHandler) DenyDeletion(c *gin.Context)    { h.resolveDeletion(c, false) }

func (h *PublicHandler) resolveDeletion(c *gin.Context, approve bool) {
	code, ok := deletionCode(c)
	if !ok {
		return
	}

	dr, err := h.resolve.Execute(c.Request.Context(), code, approve)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": dr.Status})
}

func deletionCode(c *gin.Context) (uuid.UUID, bool) {
	code, err := uuid.Parse(c.Param("code"))
	if err != nil {
		httperr.Respond(c, domain.ErrRequestNotFound)
		return uuid.Nil, false
	}
	return code, true
}

// activeTenant resolve o slug; tenant inativo responde tenant_inactive.
func (h *PublicHandler) activeTenant(c *gin.Context) (*models.Tenant, bool) {
	tenant, err := h.catalog.GetTenantBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httperr.Respond(c, err)
		return nil, false
	}
	if !tenant.Active {
		httperr.Respond(c, domain.ErrTenantInactive)
		return nil, false
	}
	return tenant, true
}
