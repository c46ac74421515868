package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type ThemeHandler struct {
	catalog *repository.CatalogGormRepository
}

func NewThemeHandler(catalog *repository.CatalogGormRepository) *ThemeHandler {
	return &ThemeHandler{catalog: catalog}
}

type ThemeRequest struct {
	PrimaryColor        string `json:"primary_color" binding:"required,hexcolor,max=7"`
	SecondaryColor      string `json:"secondary_color" binding:"required,hexcolor,max=7"`
	TextColor           string `json:"text_color" binding:"required,hexcolor,max=7"`
	TextColorLight      string `json:"text_color_light" binding:"required,hexcolor,max=7"`
	ButtonColor         string `json:"button_color" binding:"required,hexcolor,max=7"`
	ButtonTextColor     string `json:"button_text_color" binding:"required,hexcolor,max=7"`
	CardBackgroundColor string `json:"card_background_color" binding:"required,hexcolor,max=7"`
	CardTextColor       string `json:"card_text_color" binding:"required,hexcolor,max=7"`
	BackgroundColor     string `json:"background_color" binding:"required,hexcolor,max=7"`
}

func (h *ThemeHandler) Get(c *gin.Context) {
	theme, err := h.catalog.GetTheme(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, theme)
}

func (h *ThemeHandler) Update(c *gin.Context) {
	var req ThemeRequest
	if !bindJSON(c, &req) {
		return
	}

	theme := models.TenantTheme{
		TenantID:            middleware.TenantID(c),
		PrimaryColor:        strings.ToLower(req.PrimaryColor),
		SecondaryColor:      strings.ToLower(req.SecondaryColor),
		TextColor:           strings.ToLower(req.TextColor),
		TextColorLight:      strings.ToLower(req.TextColorLight),
		ButtonColor:         strings.ToLower(req.ButtonColor),
		ButtonTextColor:     strings.ToLower(req.ButtonTextColor),
		CardBackgroundColor: strings.ToLower(req.CardBackgroundColor),
		CardTextColor:       strings.ToLower(req.CardTextColor),
		BackgroundColor:     strings.ToLower(req.BackgroundColor),
	}

	if err := h.catalog.SaveTheme(c.Request.Context(), &theme); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, theme)
}
