package service

import (
	"errors"
	"testing"

	"go-orders-ws/internal/model"
	"go-orders-ws/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newOrderService(t *testing.T, db *gorm.DB) OrderService {
	t.Helper()
	return NewOrderService(repository.NewOrderRepo(db), repository.NewProductRepo(db), db, newTestHub())
}

func TestCreateOrderSumsTargetAndRecordsCreation(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(t, db)

	productA := seedProduct(t, db, "SHIRT-01")
	productB := seedProduct(t, db, "PANTS-01")

	dueDate := "2026-09-15"
	order, err := svc.CreateOrder(&CreateOrderRequest{
		OrderNumber: "ORD-100",
		Priority:    2,
		DueDate:     &dueDate,
		Lines: []CreateOrderLine{
			{ProductID: productA.ID, Qty: 60},
			{ProductID: productB.ID, Qty: 40},
		},
	}, "admin")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if order.Status != model.StatusCreated {
		t.Errorf("status = %s, want created", order.Status)
	}
	if order.TargetPcs != 100 {
		t.Errorf("target_pcs = %d, want 100", order.TargetPcs)
	}
	if order.CompletedPcs != 0 {
		t.Errorf("completed_pcs = %d, want 0", order.CompletedPcs)
	}
	if order.DueDate == nil || order.DueDate.Format("2006-01-02") != dueDate {
		t.Errorf("due_date = %v, want %s", order.DueDate, dueDate)
	}

	var lines []model.OrderProduct
	db.Where("order_id = ?", order.ID).Find(&lines)
	if len(lines) != 2 {
		t.Fatalf("line count = %d, want 2", len(lines))
	}

	var changes []model.StatusChange
	db.Where("order_id = ?", order.ID).Find(&changes)
	if len(changes) != 1 {
		t.Fatalf("status change count = %d, want 1", len(changes))
	}
	if changes[0].NewStatus != model.StatusCreated {
		t.Errorf("initial status change = %s, want created", changes[0].NewStatus)
	}
}

func TestCreateOrderRejectsDuplicateNumber(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(t, db)

	product := seedProduct(t, db, "SHIRT-01")
	seedOrder(t, db, "ORD-100", product.ID, 10, 0)

	_, err := svc.CreateOrder(&CreateOrderRequest{
		OrderNumber: "ORD-100",
		Lines:       []CreateOrderLine{{ProductID: product.ID, Qty: 5}},
	}, "admin")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestCreateOrderRejectsUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(t, db)

	_, err := svc.CreateOrder(&CreateOrderRequest{
		OrderNumber: "ORD-100",
		Lines:       []CreateOrderLine{{ProductID: uuid.New(), Qty: 5}},
	}, "admin")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if n := countRows(t, db, &model.Order{}); n != 0 {
		t.Errorf("order count = %d, want 0", n)
	}
}

func TestCreateOrderRejectsBadDueDate(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(t, db)

	product := seedProduct(t, db, "SHIRT-01")
	badDate := "15/09/2026"
	_, err := svc.CreateOrder(&CreateOrderRequest{
		OrderNumber: "ORD-100",
		DueDate:     &badDate,
		Lines:       []CreateOrderLine{{ProductID: product.ID, Qty: 5}},
	}, "admin")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestUpdateOrderTouchesMetadataOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(t, db)

	product := seedProduct(t, db, "SHIRT-01")
	order := seedOrder(t, db, "ORD-100", product.ID, 100, 30)

	note := "handle with care"
	priority := 5
	updated, err := svc.UpdateOrder(order.ID, &UpdateOrderRequest{
		Priority: &priority,
		Note:     &note,
	}, "admin")
	if err != nil {
		t.Fatalf("UpdateOrder failed: %v", err)
	}
	if updated.Priority != 5 || updated.Note != "handle with care" {
		t.Errorf("metadata not applied: priority=%d note=%q", updated.Priority, updated.Note)
	}

	var reloaded model.Order
	db.First(&reloaded, "id = ?", order.ID)
	if reloaded.CompletedPcs != 30 {
		t.Errorf("completed_pcs = %d, want 30 (untouched)", reloaded.CompletedPcs)
	}
	if reloaded.Status != model.StatusProcessing {
		t.Errorf("status = %s, want processing (untouched)", reloaded.Status)
	}
}

func TestDeleteOrderSoftDeletes(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(t, db)

	product := seedProduct(t, db, "SHIRT-01")
	order := seedOrder(t, db, "ORD-100", product.ID, 10, 0)

	if err := svc.DeleteOrder(order.ID, "admin"); err != nil {
		t.Fatalf("DeleteOrder failed: %v", err)
	}

	if _, err := svc.GetOrderByID(order.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound after delete", err)
	}

	// Soft delete keeps the row
	var reloaded model.Order
	if err := db.Unscoped().First(&reloaded, "id = ?", order.ID).Error; err != nil {
		t.Fatalf("deleted order row is gone: %v", err)
	}
	if !reloaded.DeletedAt.Valid {
		t.Error("deleted_at not set")
	}
	if reloaded.DeletedBy != "admin" {
		t.Errorf("deleted_by = %q, want 'admin'", reloaded.DeletedBy)
	}
}

func TestGetAllOrdersFiltersByStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(t, db)

	product := seedProduct(t, db, "SHIRT-01")
	seedOrder(t, db, "ORD-100", product.ID, 10, 0)
	done := seedOrder(t, db, "ORD-101", product.ID, 10, 10)
	db.Model(&model.Order{}).Where("id = ?", done.ID).Update("status", model.StatusCompleted)

	orders, err := svc.GetAllOrders(repository.OrderFilter{Status: model.StatusCompleted})
	if err != nil {
		t.Fatalf("GetAllOrders failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("order count = %d, want 1", len(orders))
	}
	if orders[0].OrderNumber != "ORD-101" {
		t.Errorf("order = %s, want ORD-101", orders[0].OrderNumber)
	}
}
