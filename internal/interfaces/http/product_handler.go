package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/usa-store/internal/application/dto"
	"github.com/jhoicas/usa-store/internal/application/inventory"
)

// ProductHandler maneja las peticiones HTTP para Product (protegido).
type ProductHandler struct {
	uc *inventory.LedgerUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *inventory.LedgerUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        q       query  string  false  "Subcadena en código o nombre"
// @Param        limit   query  int     false  "Límite (default 100)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200     {object}  dto.DataResponse[[]dto.ProductResponse]
// @Router       /api/inventory/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var in dto.ListProductsRequest
	if err := c.QueryParser(&in); err != nil {
		return writeError(c, invalidBody())
	}
	list, err := h.uc.ListProducts(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewData(list))
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.DataResponse[dto.ProductResponse]
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, invalidBody())
	}
	out, err := h.uc.CreateProduct(c.UserContext(), in, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewData(out))
}

// Update godoc
// @Summary      Actualizar producto (parcial)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                       true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.DataResponse[dto.ProductResponse]
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, invalidBody())
	}
	out, err := h.uc.UpdateProduct(c.UserContext(), id, in, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewData(out))
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.DataResponse[dto.DeleteProductResponse]
// @Router       /api/inventory/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.DeleteProduct(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewData(out))
}
