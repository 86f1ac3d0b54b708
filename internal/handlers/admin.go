// internal/handlers/admin.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luxeshop/luxe-backend/internal/i18n"
	"github.com/luxeshop/luxe-backend/internal/services"
	"github.com/luxeshop/luxe-backend/internal/utils"
)

type AdminHandler struct {
	uploadService *services.UploadService
}

func NewAdminHandler(uploadService *services.UploadService) *AdminHandler {
	return &AdminHandler{
		uploadService: uploadService,
	}
}

// POST /admin/uploads/images
//
// Rejected files are reported per file inside a 200 response; only a
// malformed request fails as a whole.
func (h *AdminHandler) UploadProductImages(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadNoFiles), nil)
			return
		}
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadRejected), err.Error())
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadNoFiles), nil)
		return
	}

	batch, err := h.uploadService.UploadImages(c.Request.Context(), form.Value["images"], files)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadRejected), err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"files":  batch.Files,
		"images": batch.Images,
		"errors": uploadErrorMessages(lang, batch.Files),
	})
}

// uploadErrorMessages translates each rejected file's reason for display.
func uploadErrorMessages(lang string, files []services.FileResult) []string {
	messages := []string{}
	for _, f := range files {
		var key string
		switch err := f.Err(); {
		case err == nil:
			continue
		case errors.Is(err, services.ErrImageCountCap):
			messages = append(messages, f.Filename+": "+i18n.T(lang, i18n.KeyUploadCountCap, services.MaxProductImages))
			continue
		case errors.Is(err, services.ErrImageTooLarge):
			key = i18n.KeyUploadTooLarge
		case errors.Is(err, services.ErrImageUnsupported):
			key = i18n.KeyUploadUnsupported
		default:
			key = i18n.KeyUploadRejected
		}
		messages = append(messages, f.Filename+": "+i18n.T(lang, key))
	}
	return messages
}
