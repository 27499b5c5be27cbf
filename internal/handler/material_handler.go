package handler

import (
	"go-orders-ws/internal/model"
	"go-orders-ws/internal/repository"
	"go-orders-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type MaterialHandler struct {
	catalogService service.CatalogService
	movementRepo   repository.MovementRepository
}

func NewMaterialHandler(catalogService service.CatalogService, movementRepo repository.MovementRepository) *MaterialHandler {
	return &MaterialHandler{catalogService: catalogService, movementRepo: movementRepo}
}

// CreateMaterial handles material creation
// POST /api/v1/materials
func (h *MaterialHandler) CreateMaterial(c *fiber.Ctx) error {
	var material model.Material
	if err := c.BodyParser(&material); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.catalogService.CreateMaterial(&material, getUserID(c)); err != nil {
		return domainError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Material created", "data": material})
}

// GetMaterials returns all materials
// GET /api/v1/materials
func (h *MaterialHandler) GetMaterials(c *fiber.Ctx) error {
	materials, err := h.catalogService.GetAllMaterials()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(materials)
}

// GetMaterial returns one material
// GET /api/v1/materials/:id
func (h *MaterialHandler) GetMaterial(c *fiber.Ctx) error {
	materialID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid material ID"})
	}

	material, err := h.catalogService.GetMaterialByID(materialID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(material)
}

// UpdateMaterial updates name, unit, and safety stock
// PUT /api/v1/materials/:id
func (h *MaterialHandler) UpdateMaterial(c *fiber.Ctx) error {
	materialID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid material ID"})
	}

	var material model.Material
	if err := c.BodyParser(&material); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.catalogService.UpdateMaterial(materialID, &material, getUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Material updated", "data": updated})
}

// DeleteMaterial soft-deletes a material
// DELETE /api/v1/materials/:id
func (h *MaterialHandler) DeleteMaterial(c *fiber.Ctx) error {
	materialID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid material ID"})
	}

	if err := h.catalogService.DeleteMaterial(materialID); err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Material deleted"})
}

// AdjustStock records a manual IN/OUT movement
// POST /api/v1/materials/:id/adjust
func (h *MaterialHandler) AdjustStock(c *fiber.Ctx) error {
	materialID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid material ID"})
	}

	var req service.AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.catalogService.AdjustStock(materialID, &req, getUserID(c)); err != nil {
		return domainError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Stock adjusted"})
}

// GetMovements lists the movement audit trail for a material
// GET /api/v1/materials/:id/movements
func (h *MaterialHandler) GetMovements(c *fiber.Ctx) error {
	materialID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid material ID"})
	}

	movements, err := h.movementRepo.FindByMaterial(materialID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch movements"})
	}
	return c.JSON(movements)
}
