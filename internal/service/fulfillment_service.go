package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go-orders-ws/internal/model"
	"go-orders-ws/internal/repository"
	"go-orders-ws/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultLinkTTL = 7 * 24 * time.Hour

// Reporter identifies who submitted a progress report: an authenticated
// user, or an anonymous tailor coming through a public order link.
type Reporter struct {
	UserID     *uuid.UUID
	TailorName string
}

// AuditID returns the string written into CreatedBy/UpdatedBy columns
func (r Reporter) AuditID() string {
	if r.UserID != nil {
		return r.UserID.String()
	}
	return "public-link"
}

// RecordProgressInput carries one progress submission
type RecordProgressInput struct {
	OrderID     uuid.UUID
	ProductID   *uuid.UUID // nil = the order's single line
	PcsFinished int
	Reporter    Reporter
	PhotoURL    string
	Note        string
	ViaLink     bool
}

type FulfillmentService interface {
	RecordProgress(input RecordProgressInput) (*model.ProgressReport, error)
	ChangeOrderStatus(orderID uuid.UUID, newStatus model.OrderStatus, actorID *uuid.UUID, note string) (*model.Order, error)
	ResolveOrderLink(token string) (*model.OrderLink, error)
	CreateOrderLink(orderID uuid.UUID, userID *uuid.UUID, ttl time.Duration, createdBy string) (*model.OrderLink, error)
	RevokeOrderLink(linkID uuid.UUID, updatedBy string) error
}

type fulfillmentService struct {
	orderRepo    repository.OrderRepository
	materialRepo repository.MaterialRepository
	movementRepo repository.MovementRepository
	reportRepo   repository.ReportRepository
	linkRepo     repository.OrderLinkRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewFulfillmentService(
	orderRepo repository.OrderRepository,
	materialRepo repository.MaterialRepository,
	movementRepo repository.MovementRepository,
	reportRepo repository.ReportRepository,
	linkRepo repository.OrderLinkRepository,
	db *gorm.DB,
	hub *ws.Hub,
) FulfillmentService {
	return &fulfillmentService{
		orderRepo:    orderRepo,
		materialRepo: materialRepo,
		movementRepo: movementRepo,
		reportRepo:   reportRepo,
		linkRepo:     linkRepo,
		db:           db,
		wsHub:        hub,
	}
}

// RecordProgress applies one report atomically: audit row, line and order
// counters, material consumption per bill of materials, and the automatic
// transition to completed. Either everything commits or nothing does.
func (s *fulfillmentService) RecordProgress(input RecordProgressInput) (*model.ProgressReport, error) {
	if input.PcsFinished <= 0 {
		return nil, fmt.Errorf("%w: pcs_finished must be positive", ErrValidation)
	}

	var (
		report    *model.ProgressReport
		order     model.Order
		completed bool // order auto-completed in this call
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// A. Load order
		if err := tx.First(&order, "id = ?", input.OrderID).Error; err != nil {
			return fmt.Errorf("%w: order", ErrNotFound)
		}
		if order.Status == model.StatusCancelled || order.Status == model.StatusDelivered {
			return fmt.Errorf("%w: order is %s and no longer accepts reports", ErrValidation, order.Status)
		}

		// B. Resolve the affected line
		line, err := s.resolveLine(tx, &order, input.ProductID)
		if err != nil {
			return err
		}

		// C. Reject overrun of the line target
		if line.CompletedQty+input.PcsFinished > line.Qty {
			return fmt.Errorf("%w: report of %d pcs would exceed line target (%d of %d done)",
				ErrValidation, input.PcsFinished, line.CompletedQty, line.Qty)
		}

		// D. Append the immutable progress report. tailor_name is the
		// anonymous-reporter field: identified reporters are stored by
		// user id only, the display name stays out of the row.
		tailorName := input.Reporter.TailorName
		if input.Reporter.UserID != nil {
			tailorName = ""
		}
		now := time.Now()
		report = &model.ProgressReport{
			OrderID:        order.ID,
			OrderProductID: &line.ID,
			UserID:         input.Reporter.UserID,
			TailorName:     tailorName,
			PcsFinished:    input.PcsFinished,
			PhotoURL:       input.PhotoURL,
			Note:           input.Note,
			ViaLink:        input.ViaLink,
			ReportedAt:     now,
		}
		report.CreatedBy = input.Reporter.AuditID()
		report.UpdatedBy = report.CreatedBy
		if err := s.reportRepo.Create(tx, report); err != nil {
			return err
		}

		// E. Bump line counter. The guarded update re-checks the overrun
		// bound in SQL; losing the race surfaces as a conflict.
		ok, err := s.orderRepo.IncrementLineCompleted(tx, line.ID, input.PcsFinished, report.CreatedBy)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: line completed_qty changed concurrently", ErrConflict)
		}
		// Unconditional: the repo's guard checks the fresh counter, not
		// the value loaded before the increment
		if err := s.orderRepo.MarkLineCompleted(tx, line.ID, now); err != nil {
			return err
		}

		// F. Bump order counter
		if err := s.orderRepo.IncrementCompletedPcs(tx, order.ID, input.PcsFinished, report.CreatedBy); err != nil {
			return err
		}

		// G. Consume materials per bill of materials
		if err := s.consumeMaterials(tx, &order, line.ProductID, input.PcsFinished, report.CreatedBy); err != nil {
			return err
		}

		// H. Auto-complete when the target is reached
		if err := tx.First(&order, "id = ?", order.ID).Error; err != nil {
			return err
		}
		if order.CompletedPcs >= order.TargetPcs && order.Status != model.StatusCompleted {
			change := &model.StatusChange{
				OrderID:   order.ID,
				OldStatus: order.Status,
				NewStatus: model.StatusCompleted,
				ChangedBy: input.Reporter.UserID,
				Note:      "auto-completed",
			}
			change.CreatedBy = report.CreatedBy
			change.UpdatedBy = report.CreatedBy
			if err := tx.Create(change).Error; err != nil {
				return err
			}
			if err := tx.Model(&order).Updates(map[string]interface{}{
				"status":     model.StatusCompleted,
				"updated_by": report.CreatedBy,
			}).Error; err != nil {
				return err
			}
			order.Status = model.StatusCompleted
			completed = true
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	// Broadcast outside the transaction, after commit
	go func() {
		payload := map[string]interface{}{
			"type":         "progress_update",
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"pcs_finished": input.PcsFinished,
			"completed":    completed,
			"reporter":     input.Reporter.TailorName,
			"message":      fmt.Sprintf("%d pcs reported on order %s", input.PcsFinished, order.OrderNumber),
		}
		if input.Reporter.UserID != nil {
			payload["reporter_id"] = input.Reporter.UserID.String()
		}
		s.wsHub.BroadcastJSON(payload)
	}()

	return report, nil
}

// resolveLine picks the order line a report applies to. Without an
// explicit product the order must have exactly one line.
func (s *fulfillmentService) resolveLine(tx *gorm.DB, order *model.Order, productID *uuid.UUID) (*model.OrderProduct, error) {
	if productID != nil {
		line, err := s.orderRepo.FindLine(tx, order.ID, *productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: order line for product", ErrNotFound)
			}
			return nil, err
		}
		return line, nil
	}

	lines, err := s.orderRepo.FindLines(tx, order.ID)
	if err != nil {
		return nil, err
	}
	switch len(lines) {
	case 0:
		return nil, fmt.Errorf("%w: order has no line items", ErrValidation)
	case 1:
		return &lines[0], nil
	default:
		return nil, fmt.Errorf("%w: product_id required, order has %d lines", ErrValidation, len(lines))
	}
}

// consumeMaterials deducts stock and appends one OUT movement per BOM row
func (s *fulfillmentService) consumeMaterials(tx *gorm.DB, order *model.Order, productID uuid.UUID, pcs int, auditID string) error {
	var bom []model.ProductMaterial
	if err := tx.Where("product_id = ?", productID).Find(&bom).Error; err != nil {
		return err
	}

	for _, row := range bom {
		consumed := float64(pcs) * row.QtyNeeded
		if consumed <= 0 {
			continue
		}

		ok, err := s.materialRepo.ConsumeStock(tx, row.MaterialID, consumed, auditID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: insufficient stock for material %s (need %.2f)",
				ErrValidation, row.MaterialID, consumed)
		}

		movement := &model.MaterialMovement{
			MaterialID: row.MaterialID,
			OrderID:    &order.ID,
			Type:       model.MovementOut,
			Qty:        consumed,
			Source:     model.MovementSourceProduction,
		}
		movement.CreatedBy = auditID
		movement.UpdatedBy = auditID
		if err := s.movementRepo.Create(tx, movement); err != nil {
			return err
		}
	}

	return nil
}

// ChangeOrderStatus records the transition then updates the order. Any
// status may move to any other; there is deliberately no transition graph.
func (s *fulfillmentService) ChangeOrderStatus(orderID uuid.UUID, newStatus model.OrderStatus, actorID *uuid.UUID, note string) (*model.Order, error) {
	if !newStatus.IsValid() {
		return nil, fmt.Errorf("%w: unknown status '%s'", ErrValidation, newStatus)
	}

	auditID := "system"
	if actorID != nil {
		auditID = actorID.String()
	}

	var order model.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			return fmt.Errorf("%w: order", ErrNotFound)
		}

		change := &model.StatusChange{
			OrderID:   order.ID,
			OldStatus: order.Status,
			NewStatus: newStatus,
			ChangedBy: actorID,
			Note:      note,
		}
		change.CreatedBy = auditID
		change.UpdatedBy = auditID
		if err := tx.Create(change).Error; err != nil {
			return err
		}

		if err := tx.Model(&order).Updates(map[string]interface{}{
			"status":     newStatus,
			"updated_by": auditID,
		}).Error; err != nil {
			return err
		}
		order.Status = newStatus
		return nil
	})

	if err != nil {
		return nil, err
	}

	go func() {
		payload := map[string]interface{}{
			"type":         "status_update",
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"status":       order.Status,
			"message":      fmt.Sprintf("Order %s moved to '%s'", order.OrderNumber, order.Status),
		}
		s.wsHub.BroadcastJSON(payload)
	}()

	return &order, nil
}

// ResolveOrderLink checks a public token and returns the link it grants.
// Expiry is checked before activity so a stale-but-active link still
// reads as expired.
func (s *fulfillmentService) ResolveOrderLink(token string) (*model.OrderLink, error) {
	link, err := s.linkRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order link", ErrNotFound)
		}
		return nil, err
	}

	if !link.IsUsable(time.Now()) {
		return nil, ErrExpired
	}

	return link, nil
}

func (s *fulfillmentService) CreateOrderLink(orderID uuid.UUID, userID *uuid.UUID, ttl time.Duration, createdBy string) (*model.OrderLink, error) {
	if _, err := s.orderRepo.FindByID(orderID); err != nil {
		return nil, fmt.Errorf("%w: order", ErrNotFound)
	}

	if ttl <= 0 {
		ttl = defaultLinkTTL
	}

	token, err := generateLinkToken()
	if err != nil {
		return nil, err
	}

	link := &model.OrderLink{
		OrderID:  orderID,
		UserID:   userID,
		Token:    token,
		ExpireAt: time.Now().Add(ttl),
		IsActive: true,
	}
	link.CreatedBy = createdBy
	link.UpdatedBy = createdBy

	if err := s.linkRepo.Create(link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *fulfillmentService) RevokeOrderLink(linkID uuid.UUID, updatedBy string) error {
	return s.linkRepo.Deactivate(linkID, updatedBy)
}

// generateLinkToken returns 32 bytes of crypto randomness as hex
func generateLinkToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
