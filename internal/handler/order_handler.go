package handler

import (
	"time"

	"go-orders-ws/internal/model"
	"go-orders-ws/internal/repository"
	"go-orders-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderService       service.OrderService
	fulfillmentService service.FulfillmentService
	movementRepo       repository.MovementRepository
	reportRepo         repository.ReportRepository
	linkRepo           repository.OrderLinkRepository
}

func NewOrderHandler(
	orderService service.OrderService,
	fulfillmentService service.FulfillmentService,
	movementRepo repository.MovementRepository,
	reportRepo repository.ReportRepository,
	linkRepo repository.OrderLinkRepository,
) *OrderHandler {
	return &OrderHandler{
		orderService:       orderService,
		fulfillmentService: fulfillmentService,
		movementRepo:       movementRepo,
		reportRepo:         reportRepo,
		linkRepo:           linkRepo,
	}
}

// CreateOrder handles order creation
// POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req service.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.orderService.CreateOrder(&req, getUserID(c))
	if err != nil {
		return domainError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Order created", "data": order})
}

// GetOrders returns all orders, optionally filtered
// GET /api/v1/orders?status=processing&tailor_id=...
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	filter := repository.OrderFilter{
		Status: model.OrderStatus(c.Query("status")),
	}
	if tailorParam := c.Query("tailor_id"); tailorParam != "" {
		tailorID, err := parseUUID(tailorParam)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid tailor ID"})
		}
		filter.TailorID = &tailorID
	}

	orders, err := h.orderService.GetAllOrders(filter)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(orders)
}

// GetOrder returns one order with lines and recent reports
// GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.orderService.GetOrderByID(orderID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(order)
}

// UpdateOrder updates order metadata
// PUT /api/v1/orders/:id
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req service.UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.orderService.UpdateOrder(orderID, &req, getUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order updated", "data": order})
}

// DeleteOrder soft-deletes an order
// DELETE /api/v1/orders/:id
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	if err := h.orderService.DeleteOrder(orderID, getUserID(c)); err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order deleted"})
}

// RecordProgressRequest is the authenticated progress submission body
type RecordProgressRequest struct {
	ProductID   *uuid.UUID `json:"product_id"`
	PcsFinished int        `json:"pcs_finished"`
	PhotoURL    string     `json:"photo_url"`
	Note        string     `json:"note"`
}

// RecordProgress submits a progress report for an order
// POST /api/v1/orders/:id/progress
func (h *OrderHandler) RecordProgress(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req RecordProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	report, err := h.fulfillmentService.RecordProgress(service.RecordProgressInput{
		OrderID:     orderID,
		ProductID:   req.ProductID,
		PcsFinished: req.PcsFinished,
		Reporter: service.Reporter{
			UserID:     getUserUUID(c),
			TailorName: getUserName(c),
		},
		PhotoURL: req.PhotoURL,
		Note:     req.Note,
	})
	if err != nil {
		return domainError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Progress recorded", "data": report})
}

// ChangeStatusRequest is the status change body
type ChangeStatusRequest struct {
	Status model.OrderStatus `json:"status"`
	Note   string            `json:"note"`
}

// ChangeStatus moves an order to a new status
// PUT /api/v1/orders/:id/status
func (h *OrderHandler) ChangeStatus(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.fulfillmentService.ChangeOrderStatus(orderID, req.Status, getUserUUID(c), req.Note)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Status updated", "data": order})
}

// GetStatusHistory lists the status audit trail
// GET /api/v1/orders/:id/status-history
func (h *OrderHandler) GetStatusHistory(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	history, err := h.orderService.GetStatusHistory(orderID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch status history"})
	}
	return c.JSON(history)
}

// GetReports lists the progress reports for an order
// GET /api/v1/orders/:id/reports
func (h *OrderHandler) GetReports(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	reports, err := h.reportRepo.FindByOrder(orderID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch reports"})
	}
	return c.JSON(reports)
}

// GetMovements lists material movements tied to an order
// GET /api/v1/orders/:id/movements
func (h *OrderHandler) GetMovements(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	movements, err := h.movementRepo.FindByOrder(orderID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch movements"})
	}
	return c.JSON(movements)
}

// CreateLinkRequest is the public link creation body
type CreateLinkRequest struct {
	UserID   *uuid.UUID `json:"user_id"` // optional owner
	TTLHours int        `json:"ttl_hours"`
}

// CreateLink issues a tokenized public submission link for an order
// POST /api/v1/orders/:id/links
func (h *OrderHandler) CreateLink(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req CreateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	link, err := h.fulfillmentService.CreateOrderLink(orderID, req.UserID,
		time.Duration(req.TTLHours)*time.Hour, getUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Link created", "data": link})
}

// GetLinks lists an order's links
// GET /api/v1/orders/:id/links
func (h *OrderHandler) GetLinks(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	links, err := h.linkRepo.FindByOrder(orderID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch links"})
	}
	return c.JSON(links)
}

// RevokeLink deactivates a public link
// DELETE /api/v1/order-links/:id
func (h *OrderHandler) RevokeLink(c *fiber.Ctx) error {
	linkID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid link ID"})
	}

	if err := h.fulfillmentService.RevokeOrderLink(linkID, getUserID(c)); err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Link revoked"})
}
