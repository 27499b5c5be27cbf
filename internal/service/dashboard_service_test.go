package service

import (
	"testing"
	"time"

	"go-orders-ws/internal/model"
	"go-orders-ws/internal/repository"
)

func TestGetDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(repository.NewMovementRepo(db), repository.NewMaterialRepo(db))

	product := seedProduct(t, db, "SHIRT-01")
	seedOrder(t, db, "ORD-100", product.ID, 10, 0) // processing
	done := seedOrder(t, db, "ORD-101", product.ID, 10, 10)
	db.Model(&model.Order{}).Where("id = ?", done.ID).Update("status", model.StatusCompleted)

	overdue := seedOrder(t, db, "ORD-102", product.ID, 10, 0)
	past := time.Now().AddDate(0, 0, -3)
	db.Model(&model.Order{}).Where("id = ?", overdue.ID).Update("due_date", past)

	seedMaterial(t, db, "Cotton", 100)
	low := seedMaterial(t, db, "Thread", 2)
	db.Model(&model.Material{}).Where("id = ?", low.ID).Update("safety_stock", 10)

	stats, err := svc.GetDashboardStats()
	if err != nil {
		t.Fatalf("GetDashboardStats failed: %v", err)
	}
	if stats.TotalOrders != 3 {
		t.Errorf("total_orders = %d, want 3", stats.TotalOrders)
	}
	if stats.OrdersInProcess != 2 {
		t.Errorf("orders_in_process = %d, want 2", stats.OrdersInProcess)
	}
	if stats.OrdersOverdue != 1 {
		t.Errorf("orders_overdue = %d, want 1", stats.OrdersOverdue)
	}
	if stats.TotalMaterials != 2 {
		t.Errorf("total_materials = %d, want 2", stats.TotalMaterials)
	}
	if stats.LowStockCount != 1 {
		t.Errorf("low_stock_count = %d, want 1", stats.LowStockCount)
	}
}

func TestGetLowStockMaterials(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(repository.NewMovementRepo(db), repository.NewMaterialRepo(db))

	seedMaterial(t, db, "Cotton", 100)
	low := seedMaterial(t, db, "Thread", 2)
	db.Model(&model.Material{}).Where("id = ?", low.ID).Update("safety_stock", 10)

	materials, err := svc.GetLowStockMaterials()
	if err != nil {
		t.Fatalf("GetLowStockMaterials failed: %v", err)
	}
	if len(materials) != 1 {
		t.Fatalf("material count = %d, want 1", len(materials))
	}
	if materials[0].Name != "Thread" {
		t.Errorf("material = %s, want Thread", materials[0].Name)
	}
}

func TestGetMaterialMovementAggregatesPerDay(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(repository.NewMovementRepo(db), repository.NewMaterialRepo(db))

	material := seedMaterial(t, db, "Cotton", 100)
	for _, m := range []model.MaterialMovement{
		{MaterialID: material.ID, Type: model.MovementIn, Qty: 30, Source: model.MovementSourcePurchase},
		{MaterialID: material.ID, Type: model.MovementOut, Qty: 12, Source: model.MovementSourceProduction},
		{MaterialID: material.ID, Type: model.MovementOut, Qty: 8, Source: model.MovementSourceProduction},
	} {
		movement := m
		if err := db.Create(&movement).Error; err != nil {
			t.Fatalf("Failed to seed movement: %v", err)
		}
	}

	chart, err := svc.GetMaterialMovement(7)
	if err != nil {
		t.Fatalf("GetMaterialMovement failed: %v", err)
	}
	if len(chart) != 1 {
		t.Fatalf("chart rows = %d, want 1 (all movements today)", len(chart))
	}
	if chart[0].Inbound != 30 {
		t.Errorf("inbound = %v, want 30", chart[0].Inbound)
	}
	if chart[0].Outbound != 20 {
		t.Errorf("outbound = %v, want 20", chart[0].Outbound)
	}
}
