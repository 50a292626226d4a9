package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/luestilo/gestao-api/internal/application/auth"
	"github.com/luestilo/gestao-api/internal/application/dto"
	"github.com/luestilo/gestao-api/internal/application/usecase"
)

// UserHandler maneja el perfil propio y el listado de usuarios.
type UserHandler struct {
	uc       *usecase.UserUseCase
	validate *Validator
}

// NewUserHandler construye el handler de usuarios.
func NewUserHandler(uc *usecase.UserUseCase, validate *Validator) *UserHandler {
	return &UserHandler{uc: uc, validate: validate}
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserResponse
// @Router       /users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	return c.JSON(auth.ToUserResponse(CurrentUser(c)))
}

// UpdateMe godoc
// @Summary      Actualizar usuario autenticado
// @Description  Actualización parcial. is_admin e is_active solo para administradores.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.UpdateUserRequest  true  "campos a modificar"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /users/me [put]
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if ok, err := bindJSON(c, h.validate, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateMe(c.UserContext(), CurrentUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteMe godoc
// @Summary      Eliminar usuario autenticado
// @Tags         users
// @Security     BearerAuth
// @Success      204
// @Router       /users/me [delete]
func (h *UserHandler) DeleteMe(c *fiber.Ctx) error {
	if err := h.uc.DeleteMe(c.UserContext(), CurrentUser(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query  int  false  "desplazamiento"
// @Param        limit  query  int  false  "máximo (100 por defecto, 500 como tope)"
// @Success      200    {object}  dto.UserListResponse
// @Failure      403    {object}  dto.ErrorResponse
// @Router       /users/ [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
