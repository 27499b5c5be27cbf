package handler

import (
	"go-orders-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// PublicHandler serves the unauthenticated order-link routes. The token
// is the only credential; it scopes the caller to one order.
type PublicHandler struct {
	fulfillmentService service.FulfillmentService
}

func NewPublicHandler(fulfillmentService service.FulfillmentService) *PublicHandler {
	return &PublicHandler{fulfillmentService: fulfillmentService}
}

// ResolveLink checks a token and returns the order it grants access to
// GET /api/v1/public/order-links/:token
func (h *PublicHandler) ResolveLink(c *fiber.Ctx) error {
	link, err := h.fulfillmentService.ResolveOrderLink(c.Params("token"))
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"order_id":  link.OrderID,
		"order":     link.Order,
		"expire_at": link.ExpireAt,
	})
}

// PublicProgressRequest is the anonymous progress submission body
type PublicProgressRequest struct {
	ProductID   *uuid.UUID `json:"product_id"`
	PcsFinished int        `json:"pcs_finished"`
	TailorName  string     `json:"tailor_name"`
	PhotoURL    string     `json:"photo_url"`
	Note        string     `json:"note"`
}

// SubmitProgress records a progress report through a public link.
// The link is re-resolved here so an expired or revoked token is
// rejected before any write.
// POST /api/v1/public/order-links/:token/progress
func (h *PublicHandler) SubmitProgress(c *fiber.Ctx) error {
	link, err := h.fulfillmentService.ResolveOrderLink(c.Params("token"))
	if err != nil {
		return domainError(c, err)
	}

	var req PublicProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	report, err := h.fulfillmentService.RecordProgress(service.RecordProgressInput{
		OrderID:     link.OrderID,
		ProductID:   req.ProductID,
		PcsFinished: req.PcsFinished,
		Reporter: service.Reporter{
			UserID:     link.UserID, // nil for fully public links
			TailorName: req.TailorName,
		},
		PhotoURL: req.PhotoURL,
		Note:     req.Note,
		ViaLink:  true,
	})
	if err != nil {
		return domainError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Progress recorded", "data": report})
}
