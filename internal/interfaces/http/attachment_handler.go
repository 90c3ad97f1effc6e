package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-api/internal/application/attachment"
	"github.com/jhoicas/wms-api/internal/domain"
)

// AttachmentHandler adjuntos y nota de despacho de una salida.
type AttachmentHandler struct {
	uc *attachment.UseCase
}

// NewAttachmentHandler construye el handler.
func NewAttachmentHandler(uc *attachment.UseCase) *AttachmentHandler {
	return &AttachmentHandler{uc: uc}
}

// Upload godoc
// @Summary      Adjuntar soporte a una salida
// @Description  PDF, JPEG o PNG de hasta 5 MB. La salida debe existir.
// @Tags         outbound
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "ID de la salida"
// @Param        file  formData  file    true  "Archivo"
// @Success      201   {object}  dto.AttachmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/outbound/{id}/attachments [post]
func (h *AttachmentHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, domain.Invalid("file", "es requerido"))
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()

	out, err := h.uc.Attach(c.UserContext(), actor(c), c.Params("id"), attachment.Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Adjuntos de una salida
// @Tags         outbound
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la salida"
// @Success      200  {array}  dto.AttachmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/outbound/{id}/attachments [get]
func (h *AttachmentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DispatchNote godoc
// @Summary      Nota de despacho en PDF
// @Tags         outbound
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la salida"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/outbound/{id}/dispatch-note [get]
func (h *AttachmentHandler) DispatchNote(c *fiber.Ctx) error {
	pdf, err := h.uc.DispatchNote(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, "despacho-"+c.Params("id")+".pdf", pdf)
}
