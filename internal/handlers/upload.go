package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/media"
)

const uploadField = "image"

// uploadImage lê o arquivo do multipart, converte e grava no bucket.
// Escreve a resposta de erro e devolve "" quando falha.
func uploadImage(c *gin.Context, uploader *media.Uploader, tenantID uint, kind string) string {
	if !uploader.Enabled() {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Armazenamento de imagens não configurado.")
		return ""
	}

	fh, err := c.FormFile(uploadField)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Arquivo de imagem obrigatório.")
		return ""
	}
	if fh.Size > media.MaxUploadBytes {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Imagem muito grande.")
		return ""
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Arquivo de imagem ilegível.")
		return ""
	}
	defer f.Close()

	url, err := uploader.Upload(c.Request.Context(), tenantID, kind, f)
	switch {
	case err == nil:
		return url
	case errors.Is(err, media.ErrUnsupported), errors.Is(err, media.ErrTooLarge):
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Formato de imagem não suportado.")
	default:
		log.Error().Err(err).Uint("tenant_id", tenantID).Str("kind", kind).Msg("image upload failed")
		httperr.Internal(c, httperr.CodeInternal, "Erro ao salvar imagem.")
	}
	return ""
}
