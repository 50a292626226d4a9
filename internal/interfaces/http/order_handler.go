package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/luestilo/gestao-api/internal/application/dto"
	"github.com/luestilo/gestao-api/internal/application/orders"
)

// OrderHandler maneja pedidos y su comprobante.
type OrderHandler struct {
	engine   *orders.Engine
	validate *Validator
}

// NewOrderHandler construye el handler de pedidos.
func NewOrderHandler(engine *orders.Engine, validate *Validator) *OrderHandler {
	return &OrderHandler{engine: engine, validate: validate}
}

// Create godoc
// @Summary      Crear pedido
// @Description  Comprueba y descuenta stock en una transacción; el cliente recibe un aviso por WhatsApp.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateOrderRequest  true  "cliente y líneas"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse  "validación o stock insuficiente"
// @Failure      404   {object}  dto.ErrorResponse  "cliente o producto inexistente"
// @Router       /orders/ [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if ok, err := bindJSON(c, h.validate, &in); !ok {
		return err
	}
	out, err := h.engine.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD, día incluido"
// @Param        order_id    query  string  false  "ID del pedido"
// @Param        status      query  string  false  "estado"
// @Param        client_id   query  string  false  "ID del cliente"
// @Param        section     query  string  false  "sección de algún producto del pedido"
// @Param        skip        query  int     false  "desplazamiento"
// @Param        limit       query  int     false  "máximo"
// @Success      200         {object}  dto.OrderListResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /orders/ [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	in := dto.OrderFilterRequest{
		OrderID:  c.Query("order_id"),
		Status:   c.Query("status"),
		ClientID: c.Query("client_id"),
		Section:  c.Query("section"),
		Page:     pageFromQuery(c),
	}
	var err error
	if in.StartDate, err = dateQuery(c, "start_date"); err != nil {
		return respondError(c, err)
	}
	if in.EndDate, err = dateQuery(c, "end_date"); err != nil {
		return respondError(c, err)
	}
	out, err := h.engine.List(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	out, err := h.engine.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar pedido
// @Description  Solo status y notes. Un cambio de estado avisa al cliente.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                  true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderRequest  true  "status y/o notes"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse  "validación o transición no permitida"
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /orders/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrderRequest
	if ok, err := bindJSON(c, h.validate, &in); !ok {
		return err
	}
	out, err := h.engine.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar pedido
// @Description  Restituye el stock de todas las líneas.
// @Tags         orders
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del pedido"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.engine.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Receipt godoc
// @Summary      Comprobante PDF del pedido
// @Tags         orders
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	pdf, filename, err := h.engine.Receipt(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, filename))
	return c.Send(pdf)
}
