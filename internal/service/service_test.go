package service

import (
	"testing"

	"go-orders-ws/internal/model"
	"go-orders-ws/internal/repository"
	"go-orders-ws/internal/ws"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory database and migrates the full
// schema. A single connection keeps the memory database alive and
// serializes transactions.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&model.User{}, &model.Privilege{}, &model.Role{},
		&model.Contact{}, &model.Material{},
		&model.Product{}, &model.ProductMaterial{}, &model.ProductPhoto{},
		&model.Order{}, &model.OrderProduct{}, &model.OrderLink{},
		&model.ProgressReport{}, &model.MaterialMovement{}, &model.StatusChange{},
	); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	return db
}

func newTestHub() *ws.Hub {
	hub := ws.NewHub()
	go hub.Run()
	return hub
}

func newFulfillmentService(t *testing.T, db *gorm.DB) FulfillmentService {
	t.Helper()
	return NewFulfillmentService(
		repository.NewOrderRepo(db),
		repository.NewMaterialRepo(db),
		repository.NewMovementRepo(db),
		repository.NewReportRepo(db),
		repository.NewOrderLinkRepo(db),
		db,
		newTestHub(),
	)
}

func seedMaterial(t *testing.T, db *gorm.DB, name string, qtyOnHand float64) *model.Material {
	t.Helper()
	material := &model.Material{Name: name, Unit: "m", QtyOnHand: qtyOnHand}
	if err := db.Create(material).Error; err != nil {
		t.Fatalf("Failed to seed material: %v", err)
	}
	return material
}

func seedProduct(t *testing.T, db *gorm.DB, code string) *model.Product {
	t.Helper()
	product := &model.Product{Code: code, Name: "Product " + code, Unit: "pcs"}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}
	return product
}

func seedBOMRow(t *testing.T, db *gorm.DB, productID, materialID uuid.UUID, qtyNeeded float64) {
	t.Helper()
	row := &model.ProductMaterial{ProductID: productID, MaterialID: materialID, QtyNeeded: qtyNeeded}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("Failed to seed BOM row: %v", err)
	}
}

// seedOrder creates an order with a single line and pre-set counters
func seedOrder(t *testing.T, db *gorm.DB, orderNumber string, productID uuid.UUID, qty, completed int) *model.Order {
	t.Helper()
	order := &model.Order{
		OrderNumber:  orderNumber,
		Status:       model.StatusProcessing,
		TargetPcs:    qty,
		CompletedPcs: completed,
		Products: []model.OrderProduct{
			{ProductID: productID, Qty: qty, CompletedQty: completed},
		},
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}
	return order
}

func countRows(t *testing.T, db *gorm.DB, value interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(value).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return count
}
