package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	ucAppointment "github.com/BruksfildServices01/agenda-scheduler/internal/usecase/appointment"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates carrega as páginas servidas pelo PublicWebHandler.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templatesFS, "templates/*.html"))
}

// PublicWebHandler serve a página aberta pelo link de cancelamento
// que o cliente recebe no WhatsApp.
type PublicWebHandler struct {
	resolve *ucAppointment.ResolveDeletion
	status  *ucAppointment.GetDeletionStatus
}

func NewPublicWebHandler(
	resolve *ucAppointment.ResolveDeletion,
	status *ucAppointment.GetDeletionStatus,
) *PublicWebHandler {
	return &PublicWebHandler{resolve: resolve, status: status}
}

type deletionPage struct {
	Code   string
	Status string
	Slug   string
	Error  string
}

func (h *PublicWebHandler) ShowDeletionPage(c *gin.Context) {
	h.render(c, c.Query("codigo"), "")
}

// SubmitDeletion recebe o formulário da própria página.
func (h *PublicWebHandler) SubmitDeletion(c *gin.Context) {
	raw := c.PostForm("codigo")
	code, err := uuid.Parse(raw)
	if err != nil {
		h.render(c, raw, "")
		return
	}

	approve := c.PostForm("acao") == "confirmar"

	msg := ""
	if _, err := h.resolve.Execute(c.Request.Context(), code, approve); err != nil {
		switch httperr.CodeOf(err) {
		case httperr.CodeAlreadyResolved:
			msg = "Esta solicitação já foi respondida."
		case httperr.CodeNotFound:
		default:
			msg = "Não foi possível registrar sua resposta. Tente novamente."
		}
	}

	h.render(c, raw, msg)
}

func (h *PublicWebHandler) render(c *gin.Context, raw, msg string) {
	page := deletionPage{Code: raw, Error: msg}
	status := http.StatusOK

	code, err := uuid.Parse(raw)
	if err == nil {
		if view, err := h.status.Execute(c.Request.Context(), code); err == nil {
			page.Status = view.Status
			page.Slug = view.Slug
		}
	}
	if page.Status == "" {
		status = http.StatusNotFound
	}

	c.HTML(status, "confirm_deletion.html", page)
}
