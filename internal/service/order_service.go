package service

import (
	"errors"
	"fmt"
	"time"

	"go-orders-ws/internal/model"
	"go-orders-ws/internal/repository"
	"go-orders-ws/internal/ws"
	"go-orders-ws/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderService interface {
	CreateOrder(req *CreateOrderRequest, creatorID string) (*model.Order, error)
	UpdateOrder(id uuid.UUID, req *UpdateOrderRequest, updaterID string) (*model.Order, error)
	DeleteOrder(id uuid.UUID, deleterID string) error
	GetAllOrders(filter repository.OrderFilter) ([]model.Order, error)
	GetOrderByID(id uuid.UUID) (*model.Order, error)
	GetStatusHistory(orderID uuid.UUID) ([]model.StatusChange, error)
}

// CreateOrderLine is one requested line item
type CreateOrderLine struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Qty       int       `json:"qty" validate:"required,gt=0"`
}

type CreateOrderRequest struct {
	OrderNumber     string            `json:"order_number" validate:"required"`
	Priority        int               `json:"priority"`
	DueDate         *string           `json:"due_date"` // Format: YYYY-MM-DD
	Note            string            `json:"note"`
	TailorID        *uuid.UUID        `json:"tailor_id"`
	TailorContactID *uuid.UUID        `json:"tailor_contact_id"`
	Lines           []CreateOrderLine `json:"lines" validate:"required,min=1,dive"`
}

type UpdateOrderRequest struct {
	Priority        *int       `json:"priority"`
	DueDate         *string    `json:"due_date"` // Format: YYYY-MM-DD
	Note            *string    `json:"note"`
	TailorID        *uuid.UUID `json:"tailor_id"`
	TailorContactID *uuid.UUID `json:"tailor_contact_id"`
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, db *gorm.DB, hub *ws.Hub) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		db:          db,
		wsHub:       hub,
	}
}

func (s *orderService) CreateOrder(req *CreateOrderRequest, creatorID string) (*model.Order, error) {
	// 1. Validasi Struct Dasar
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, firstErr.FailedField, firstErr.Tag)
	}

	// 2. Check for duplicate order number
	existing, _ := s.orderRepo.FindByNumber(req.OrderNumber)
	if existing != nil && existing.ID != uuid.Nil {
		return nil, fmt.Errorf("%w: order number already exists", ErrValidation)
	}

	// 3. Parse due date if provided
	var dueDate *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid due_date format, use YYYY-MM-DD", ErrValidation)
		}
		dueDate = &parsed
	}

	// 4. Validate products and build lines; target is the sum of line qty
	targetPcs := 0
	lines := make([]model.OrderProduct, 0, len(req.Lines))
	for _, reqLine := range req.Lines {
		if _, err := s.productRepo.FindByID(reqLine.ProductID); err != nil {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, reqLine.ProductID)
		}
		line := model.OrderProduct{
			ProductID: reqLine.ProductID,
			Qty:       reqLine.Qty,
		}
		line.CreatedBy = creatorID
		line.UpdatedBy = creatorID
		lines = append(lines, line)
		targetPcs += reqLine.Qty
	}

	order := &model.Order{
		OrderNumber:     req.OrderNumber,
		Status:          model.StatusCreated,
		TargetPcs:       targetPcs,
		Priority:        req.Priority,
		DueDate:         dueDate,
		Note:            req.Note,
		TailorID:        req.TailorID,
		TailorContactID: req.TailorContactID,
		Products:        lines,
	}
	order.CreatedBy = creatorID
	order.UpdatedBy = creatorID

	// 5. Save order + lines + initial status row in one transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		change := &model.StatusChange{
			OrderID:   order.ID,
			OldStatus: "",
			NewStatus: model.StatusCreated,
			Note:      "order created",
		}
		change.CreatedBy = creatorID
		change.UpdatedBy = creatorID
		return tx.Create(change).Error
	})
	if err != nil {
		return nil, err
	}

	// 6. Broadcast ke WebSocket
	go func() {
		payload := map[string]interface{}{
			"type":         "order_created",
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"target_pcs":   order.TargetPcs,
			"message":      fmt.Sprintf("Order %s created (%d pcs)", order.OrderNumber, order.TargetPcs),
		}
		s.wsHub.BroadcastJSON(payload)
	}()

	return order, nil
}

func (s *orderService) UpdateOrder(id uuid.UUID, req *UpdateOrderRequest, updaterID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order", ErrNotFound)
		}
		return nil, err
	}

	// Only metadata is updatable here. Counters move through progress
	// reports and status through ChangeOrderStatus.
	if req.Priority != nil {
		order.Priority = *req.Priority
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			order.DueDate = nil
		} else {
			parsed, err := time.Parse("2006-01-02", *req.DueDate)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid due_date format, use YYYY-MM-DD", ErrValidation)
			}
			order.DueDate = &parsed
		}
	}
	if req.Note != nil {
		order.Note = *req.Note
	}
	if req.TailorID != nil {
		order.TailorID = req.TailorID
	}
	if req.TailorContactID != nil {
		order.TailorContactID = req.TailorContactID
	}
	order.UpdatedBy = updaterID

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) DeleteOrder(id uuid.UUID, deleterID string) error {
	if _, err := s.orderRepo.FindByID(id); err != nil {
		return fmt.Errorf("%w: order", ErrNotFound)
	}
	return s.orderRepo.Delete(id, deleterID)
}

func (s *orderService) GetAllOrders(filter repository.OrderFilter) ([]model.Order, error) {
	return s.orderRepo.FindAll(filter)
}

func (s *orderService) GetOrderByID(id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order", ErrNotFound)
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetStatusHistory(orderID uuid.UUID) ([]model.StatusChange, error) {
	return s.orderRepo.FindStatusHistory(orderID)
}
