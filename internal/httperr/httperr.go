package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

var statusByCode = map[string]int{
	CodeInvalidInput:      http.StatusBadRequest,
	CodeNotFound:          http.StatusNotFound,
	CodeTenantInactive:    http.StatusForbidden,
	CodeInvalidService:    http.StatusUnprocessableEntity,
	CodeInvalidStaff:      http.StatusUnprocessableEntity,
	CodeSlotConflict:      http.StatusConflict,
	CodeAlreadyResolved:   http.StatusConflict,
	CodeGatewayFailure:    http.StatusBadGateway,
	CodeUnauthorized:      http.StatusUnauthorized,
	CodeInsufficientStock: http.StatusConflict,
}

var messageByCode = map[string]string{
	CodeInvalidInput:      "Dados inválidos.",
	CodeNotFound:          "Registro não encontrado.",
	CodeTenantInactive:    "Estabelecimento inativo.",
	CodeInvalidService:    "Serviço inválido.",
	CodeInvalidStaff:      "Profissional inválido.",
	CodeSlotConflict:      "Horário indisponível. Consulte os horários novamente.",
	CodeAlreadyResolved:   "Solicitação já resolvida.",
	CodeGatewayFailure:    "Falha ao comunicar com o serviço de mensagens.",
	CodeUnauthorized:      "Não autorizado.",
	CodeInsufficientStock: "Estoque insuficiente.",
}

// Respond traduz um erro de use case para a resposta HTTP.
// Erros fora da taxonomia são logados e viram 500 genérico.
func Respond(c *gin.Context, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		log.Error().Err(err).
			Str("path", c.FullPath()).
			Msg("internal error")
		Internal(c, CodeInternal, "Erro interno.")
		return
	}

	status, ok := statusByCode[be.Code]
	if !ok {
		status = http.StatusBadRequest
	}

	msg := messageByCode[be.Code]
	if be.Detail != "" {
		msg = be.Detail
	}

	Write(c, status, be.Code, msg)
}
