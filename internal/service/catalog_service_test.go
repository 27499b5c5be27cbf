package service

import (
	"errors"
	"testing"

	"go-orders-ws/internal/model"
	"go-orders-ws/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newCatalogService(t *testing.T, db *gorm.DB) CatalogService {
	t.Helper()
	return NewCatalogService(
		repository.NewProductRepo(db),
		repository.NewMaterialRepo(db),
		repository.NewMovementRepo(db),
		db,
		newTestHub(),
	)
}

func TestCreateProductRejectsDuplicateCode(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(t, db)

	if err := svc.CreateProduct(&model.Product{Code: "SHIRT-01", Name: "Shirt"}, "admin"); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	err := svc.CreateProduct(&model.Product{Code: "SHIRT-01", Name: "Another shirt"}, "admin")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
	if n := countRows(t, db, &model.Product{}); n != 1 {
		t.Errorf("product count = %d, want 1", n)
	}
}

func TestSetBillOfMaterialsReplacesRows(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(t, db)

	cotton := seedMaterial(t, db, "Cotton", 100)
	thread := seedMaterial(t, db, "Thread", 100)
	product := seedProduct(t, db, "SHIRT-01")

	err := svc.SetBillOfMaterials(product.ID, []model.ProductMaterial{
		{ProductID: product.ID, MaterialID: cotton.ID, QtyNeeded: 2},
	}, "admin")
	if err != nil {
		t.Fatalf("SetBillOfMaterials failed: %v", err)
	}

	// Second call replaces, never appends
	err = svc.SetBillOfMaterials(product.ID, []model.ProductMaterial{
		{ProductID: product.ID, MaterialID: cotton.ID, QtyNeeded: 1.5},
		{ProductID: product.ID, MaterialID: thread.ID, QtyNeeded: 0.2},
	}, "admin")
	if err != nil {
		t.Fatalf("SetBillOfMaterials (replace) failed: %v", err)
	}

	var rows []model.ProductMaterial
	db.Where("product_id = ?", product.ID).Find(&rows)
	if len(rows) != 2 {
		t.Fatalf("BOM row count = %d, want 2", len(rows))
	}
}

func TestSetBillOfMaterialsRejectsNegativeQty(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(t, db)

	cotton := seedMaterial(t, db, "Cotton", 100)
	product := seedProduct(t, db, "SHIRT-01")

	err := svc.SetBillOfMaterials(product.ID, []model.ProductMaterial{
		{ProductID: product.ID, MaterialID: cotton.ID, QtyNeeded: -1},
	}, "admin")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestUpdateMaterialNeverMovesStock(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(t, db)

	material := seedMaterial(t, db, "Cotton", 250)

	updated, err := svc.UpdateMaterial(material.ID, &model.Material{
		Name:        "Cotton Premium",
		Unit:        "m",
		QtyOnHand:   9999, // must be ignored
		SafetyStock: 50,
	}, "admin")
	if err != nil {
		t.Fatalf("UpdateMaterial failed: %v", err)
	}
	if updated.Name != "Cotton Premium" || updated.SafetyStock != 50 {
		t.Errorf("metadata not applied: %+v", updated)
	}

	var reloaded model.Material
	db.First(&reloaded, "id = ?", material.ID)
	if reloaded.QtyOnHand != 250 {
		t.Errorf("qty_on_hand = %v, want 250 (stock only moves via movements)", reloaded.QtyOnHand)
	}
}

func TestAdjustStockInAndOut(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(t, db)

	material := seedMaterial(t, db, "Cotton", 100)

	err := svc.AdjustStock(material.ID, &AdjustStockRequest{
		Type:   model.MovementIn,
		Qty:    40,
		Source: model.MovementSourcePurchase,
		Note:   "restock",
	}, "admin")
	if err != nil {
		t.Fatalf("AdjustStock IN failed: %v", err)
	}

	err = svc.AdjustStock(material.ID, &AdjustStockRequest{
		Type: model.MovementOut,
		Qty:  15,
	}, "admin")
	if err != nil {
		t.Fatalf("AdjustStock OUT failed: %v", err)
	}

	var reloaded model.Material
	db.First(&reloaded, "id = ?", material.ID)
	if reloaded.QtyOnHand != 125 {
		t.Errorf("qty_on_hand = %v, want 125", reloaded.QtyOnHand)
	}

	var movements []model.MaterialMovement
	db.Order("created_at ASC").Find(&movements)
	if len(movements) != 2 {
		t.Fatalf("movement count = %d, want 2", len(movements))
	}
	if movements[0].Type != model.MovementIn || movements[0].Source != model.MovementSourcePurchase {
		t.Errorf("first movement = %s/%s, want IN/purchase", movements[0].Type, movements[0].Source)
	}
	if movements[1].Type != model.MovementOut || movements[1].Source != model.MovementSourceAdjustment {
		t.Errorf("second movement = %s/%s, want OUT/adjustment (default source)", movements[1].Type, movements[1].Source)
	}
	for _, m := range movements {
		if m.OrderID != nil {
			t.Error("manual adjustment must not reference an order")
		}
	}
}

func TestAdjustStockUnknownMaterial(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(t, db)

	err := svc.AdjustStock(uuid.New(), &AdjustStockRequest{
		Type: model.MovementIn,
		Qty:  5,
	}, "admin")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestAdjustStockRejectsInsufficientOut(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(t, db)

	material := seedMaterial(t, db, "Cotton", 10)

	err := svc.AdjustStock(material.ID, &AdjustStockRequest{
		Type: model.MovementOut,
		Qty:  25,
	}, "admin")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}

	var reloaded model.Material
	db.First(&reloaded, "id = ?", material.ID)
	if reloaded.QtyOnHand != 10 {
		t.Errorf("qty_on_hand = %v, want 10 (unchanged)", reloaded.QtyOnHand)
	}
	if n := countRows(t, db, &model.MaterialMovement{}); n != 0 {
		t.Errorf("movement count = %d, want 0", n)
	}
}
