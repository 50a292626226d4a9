package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/luestilo/gestao-api/internal/application/dto"
	"github.com/luestilo/gestao-api/internal/application/notification"
)

// WhatsAppHandler endpoints administrativos de mensajería.
type WhatsAppHandler struct {
	svc      *notification.Service
	validate *Validator
}

// NewWhatsAppHandler construye el handler de WhatsApp.
func NewWhatsAppHandler(svc *notification.Service, validate *Validator) *WhatsAppHandler {
	return &WhatsAppHandler{svc: svc, validate: validate}
}

// SendMessage godoc
// @Summary      Enviar mensaje a un cliente
// @Tags         whatsapp
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.SendMessageRequest  true  "cliente y mensaje"
// @Success      200   {object}  dto.SendMessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse  "fallo del proveedor"
// @Failure      503   {object}  dto.ErrorResponse  "WhatsApp no configurado"
// @Router       /whatsapp/send-message [post]
func (h *WhatsAppHandler) SendMessage(c *fiber.Ctx) error {
	var in dto.SendMessageRequest
	if ok, err := bindJSON(c, h.validate, &in); !ok {
		return err
	}
	out, err := h.svc.SendToClient(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SendPromotional godoc
// @Summary      Difusión promocional
// @Description  Envía a todos los clientes activos, o a los que compraron en section. message y section en el cuerpo JSON o en la query.
// @Tags         whatsapp
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        message  query  string                  false  "mensaje"
// @Param        section  query  string                  false  "sección"
// @Param        body     body   dto.PromotionalRequest  false  "mensaje y sección"
// @Success      200      {object}  dto.PromotionalResponse
// @Failure      404      {object}  dto.ErrorResponse  "sin destinatarios"
// @Router       /whatsapp/send-promotional-message [post]
func (h *WhatsAppHandler) SendPromotional(c *fiber.Ctx) error {
	var in dto.PromotionalRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	if in.Message == "" {
		in.Message = c.Query("message")
	}
	if in.Section == "" {
		in.Section = c.Query("section")
	}
	if details := h.validate.Validate(&in); len(details) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos de entrada inválidos", Details: details})
	}
	out, err := h.svc.Broadcast(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
