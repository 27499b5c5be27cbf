package service

import (
	"errors"
	"testing"
	"time"

	"go-orders-ws/internal/model"
	"go-orders-ws/internal/repository"

	"github.com/google/uuid"
)

func TestRecordProgressUpdatesCountersAndStock(t *testing.T) {
	db := setupTestDB(t)
	svc := newFulfillmentService(t, db)

	material := seedMaterial(t, db, "Cotton", 500)
	product := seedProduct(t, db, "SHIRT-01")
	seedBOMRow(t, db, product.ID, material.ID, 2)
	order := seedOrder(t, db, "ORD-001", product.ID, 100, 40)

	report, err := svc.RecordProgress(RecordProgressInput{
		OrderID:     order.ID,
		PcsFinished: 10,
		Reporter:    Reporter{TailorName: "Siti"},
	})
	if err != nil {
		t.Fatalf("RecordProgress failed: %v", err)
	}
	if report.PcsFinished != 10 {
		t.Errorf("report pcs_finished = %d, want 10", report.PcsFinished)
	}
	if report.ReportedAt.IsZero() {
		t.Error("report reported_at not set")
	}

	var line model.OrderProduct
	if err := db.First(&line, "order_id = ?", order.ID).Error; err != nil {
		t.Fatalf("Failed to reload line: %v", err)
	}
	if line.CompletedQty != 50 {
		t.Errorf("line completed_qty = %d, want 50", line.CompletedQty)
	}
	if line.IsCompleted {
		t.Error("line should not be completed at 50 of 100")
	}

	var reloadedOrder model.Order
	if err := db.First(&reloadedOrder, "id = ?", order.ID).Error; err != nil {
		t.Fatalf("Failed to reload order: %v", err)
	}
	if reloadedOrder.CompletedPcs != 50 {
		t.Errorf("order completed_pcs = %d, want 50", reloadedOrder.CompletedPcs)
	}
	if reloadedOrder.Status != model.StatusProcessing {
		t.Errorf("order status = %s, want processing", reloadedOrder.Status)
	}

	var reloadedMaterial model.Material
	if err := db.First(&reloadedMaterial, "id = ?", material.ID).Error; err != nil {
		t.Fatalf("Failed to reload material: %v", err)
	}
	if reloadedMaterial.QtyOnHand != 480 {
		t.Errorf("material qty_on_hand = %v, want 480", reloadedMaterial.QtyOnHand)
	}

	var movements []model.MaterialMovement
	if err := db.Find(&movements).Error; err != nil {
		t.Fatalf("Failed to load movements: %v", err)
	}
	if len(movements) != 1 {
		t.Fatalf("movement count = %d, want 1", len(movements))
	}
	if movements[0].Type != model.MovementOut {
		t.Errorf("movement type = %s, want OUT", movements[0].Type)
	}
	if movements[0].Qty != 20 {
		t.Errorf("movement qty = %v, want 20", movements[0].Qty)
	}
	if movements[0].Source != model.MovementSourceProduction {
		t.Errorf("movement source = %s, want production", movements[0].Source)
	}
}

func TestRecordProgressRejectsOverrun(t *testing.T) {
	db := setupTestDB(t)
	svc := newFulfillmentService(t, db)

	material := seedMaterial(t, db, "Cotton", 500)
	product := seedProduct(t, db, "SHIRT-01")
	seedBOMRow(t, db, product.ID, material.ID, 2)
	order := seedOrder(t, db, "ORD-001", product.ID, 100, 40)

	// 40 + 61 = 101 > 100
	_, err := svc.RecordProgress(RecordProgressInput{
		OrderID:     order.ID,
		PcsFinished: 61,
		Reporter:    Reporter{TailorName: "Siti"},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}

	// No writes at all
	if n := countRows(t, db, &model.ProgressReport{}); n != 0 {
		t.Errorf("progress report count = %d, want 0", n)
	}
	if n := countRows(t, db, &model.MaterialMovement{}); n != 0 {
		t.Errorf("movement count = %d, want 0", n)
	}

	var line model.OrderProduct
	db.First(&line, "order_id = ?", order.ID)
	if line.CompletedQty != 40 {
		t.Errorf("line completed_qty = %d, want 40 (unchanged)", line.CompletedQty)
	}

	var reloadedMaterial model.Material
	db.First(&reloadedMaterial, "id = ?", material.ID)
	if reloadedMaterial.QtyOnHand != 500 {
		t.Errorf("material qty_on_hand = %v, want 500 (unchanged)", reloadedMaterial.QtyOnHand)
	}
}

func TestRecordProgressRejectsNonPositivePcs(t *testing.T) {
	db := setupTestDB(t)
	svc := newFulfillmentService(t, db)

	_, err := svc.RecordProgress(RecordProgressInput{
		OrderID:     uuid.New(),
		PcsFinished: 0,
		Reporter:    Reporter{TailorName: "Siti"},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestRecordProgressUnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := newFulfillmentService(t, db)

	_, err := svc.RecordProgress(RecordProgressInput{
		OrderID:     uuid.New(),
		PcsFinished: 5,
		Reporter:    Reporter{TailorName: "Siti"},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestRecordProgressAutoCompletesOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := newFulfillmentService(t, db)

	material := seedMaterial(t, db, "Cotton", 500)
	product := seedProduct(t, db, "SHIRT-01")
	seedBOMRow(t, db, product.ID, material.ID, 1)
	order := seedOrder(t, db, "ORD-001", product.ID, 10, 0)

	_, err := svc.RecordProgress(RecordProgressInput{
		OrderID:     order.ID,
		PcsFinished: 10,
		Reporter:    Reporter{TailorName: "Siti"},
	})
	if err != nil {
		t.Fatalf("RecordProgress failed: %v", err)
	}

	var reloadedOrder model.Order
	db.First(&reloadedOrder, "id = ?", order.ID)
	if reloadedOrder.Status != model.StatusCompleted {
		t.Errorf("order status = %s, want completed", reloadedOrder.Status)
	}

	var line model.OrderProduct
	db.First(&line, "order_id = ?", order.ID)
	if !line.IsCompleted {
		t.Error("line should be completed")
	}
	if line.CompletionDate == nil {
		t.Error("line completion_date not set")
	}

	var changes []model.StatusChange
	db.Where("order_id = ?", order.ID).Find(&changes)
	if len(changes) != 1 {
		t.Fatalf("status change count = %d, want 1", len(changes))
	}
	if changes[0].Note != "auto-completed" {
		t.Errorf("status change note = %q, want 'auto-completed'", changes[0].Note)
	}
	if changes[0].OldStatus != model.StatusProcessing || changes[0].NewStatus != model.StatusCompleted {
		t.Errorf("status change %s -> %s, want processing -> completed", changes[0].OldStatus, changes[0].NewStatus)
	}
}

func TestRecordProgressKeepsDistinctAuditRows(t *testing.T) {
	db := setupTestDB(t)
	svc := newFulfillmentService(t, db)

	material := seedMaterial(t, db, "Cotton", 500)
	product := seedProduct(t, db, "SHIRT-01")
	seedBOMRow(t, db, product.ID, material.ID, 2)
	order := seedOrder(t, db, "ORD-001", product.ID, 100, 0)

	for i := 0; i < 2; i++ {
		input := RecordProgressInput{
			OrderID:     order.ID,
			PcsFinished: 10,
			Reporter:    Reporter{TailorName: "Siti"},
		}
		if _, err := svc.RecordProgress(input); err != nil {
			t.Fatalf("RecordProgress #%d failed: %v", i+1, err)
		}
	}

	// Identical submissions are never merged
	if n := countRows(t, db, &model.ProgressReport{}); n != 2 {
		t.Errorf("progress report count = %d, want 2", n)
	}
	if n := countRows(t, db, &model.MaterialMovement{}); n != 2 {
		t.Errorf("movement count = %d, want 2", n)
	}

	var reloadedMaterial model.Material
	db.First(&reloadedMaterial, "id = ?", material.ID)
	if reloadedMaterial.QtyOnHand != 460 {
		t.Errorf("material qty_on_hand = %v, want 460", reloadedMaterial.QtyOnHand)
	}
}

func TestRecordProgressMultiLineRequiresProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := newFulfillmentService(t, db)

	productA := seedProduct(t, db, "SHIRT-01")
	productB := seedProduct(t, db, "PANTS-01")
	order := &model.Order{
		OrderNumber: "ORD-002",
		Status:      model.StatusProcessing,
		TargetPcs:   30,
		Products: []model.OrderProduct{
			{ProductID: productA.ID, Qty: 10},
			{ProductID: productB.ID, Qty: 20},
		},
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}

	// Ambiguous without a product
	_, err := svc.RecordProgress(RecordProgressInput{
		OrderID:     order.ID,
		PcsFinished: 5,
		Reporter:    Reporter{TailorName: "Siti"},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}

	// Explicit product resolves it
	_, err = svc.RecordProgress(RecordProgressInput{
		OrderID:     order.ID,
		ProductID:   &productB.ID,
		PcsFinished: 5,
		Reporter:    Reporter{TailorName: "Siti"},
	})
	if err != nil {
		t.Fatalf("RecordProgress with product failed: %v", err)
	}

	var line model.OrderProduct
	db.First(&line, "order_id = ? AND product_id = ?", order.ID, productB.ID)
	if line.CompletedQty != 5 {
		t.Errorf("line completed_qty = %d, want 5", line.CompletedQty)
	}

	// Unknown product on the order
	unknown := uuid.New()
	_, err = svc.RecordProgress(RecordProgressInput{
		OrderID:     order.ID,
		ProductID:   &unknown,
		PcsFinished: 5,
		Reporter:    Reporter{TailorName: "Siti"},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestRecordProgressInsufficientMaterialRollsBack(t *testing.T) {
	db := setupTestDB(t)
	svc := newFulfillmentService(t, db)

	material := seedMaterial(t, db, "Cotton", 5)
	product := seedProduct(t, db, "SHIRT-01")
	seedBOMRow(t, db, product.ID, material.ID, 2)
	order := seedOrder(t, db, "ORD-001", product.ID, 100, 0)

	// Needs 20, only 5 on hand
	_, err := svc.RecordProgress(RecordProgressInput{
		OrderID:     order.ID,
		PcsFinished: 10,
		Reporter:    Reporter{TailorName: "Siti"},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}

	// The transaction rolled back completely, including the report and
	// the counter bumps applied before the stock guard failed
	if n := countRows(t, db, &model.ProgressReport{}); n != 0 {
		t.Errorf("progress report count = %d, want 0", n)
	}
	var line model.OrderProduct
	db.First(&line, "order_id = ?", order.ID)
	if line.CompletedQty != 0 {
		t.Errorf("line completed_qty = %d, want 0", line.CompletedQty)
	}
	var reloadedOrder model.Order
	db.First(&reloadedOrder, "id = ?", order.ID)
	if reloadedOrder.CompletedPcs != 0 {
		t.Errorf("order completed_pcs = %d, want 0", reloadedOrder.CompletedPcs)
	}
}

func TestChangeOrderStatusRecordsAudit(t *testing.T) {
	db := setupTestDB(t)
	svc := newFulfillmentService(t, db)

	product := seedProduct(t, db, "SHIRT-01")
	order := seedOrder(t, db, "ORD-001", product.ID, 10, 0)

	actor := uuid.New()
	// Any status may move to any other; skipping intermediate states is allowed
	updated, err := svc.ChangeOrderStatus(order.ID, model.StatusShipped, &actor, "rush delivery")
	if err != nil {
		t.Fatalf("ChangeOrderStatus failed: %v", err)
	}
	if updated.Status != model.StatusShipped {
		t.Errorf("status = %s, want shipped", updated.Status)
	}

	var changes []model.StatusChange
	db.Where("order_id = ?", order.ID).Find(&changes)
	if len(changes) != 1 {
		t.Fatalf("status change count = %d, want 1", len(changes))
	}
	if changes[0].OldStatus != model.StatusProcessing || changes[0].NewStatus != model.StatusShipped {
		t.Errorf("status change %s -> %s, want processing -> shipped", changes[0].OldStatus, changes[0].NewStatus)
	}
	if changes[0].ChangedBy == nil || *changes[0].ChangedBy != actor {
		t.Error("status change changed_by not recorded")
	}
	if changes[0].Note != "rush delivery" {
		t.Errorf("status change note = %q, want 'rush delivery'", changes[0].Note)
	}
}

func TestChangeOrderStatusRejectsUnknownStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newFulfillmentService(t, db)

	product := seedProduct(t, db, "SHIRT-01")
	order := seedOrder(t, db, "ORD-001", product.ID, 10, 0)

	_, err := svc.ChangeOrderStatus(order.ID, "finished", nil, "")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
	if n := countRows(t, db, &model.StatusChange{}); n != 0 {
		t.Errorf("status change count = %d, want 0", n)
	}
}

func TestChangeOrderStatusUnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := newFulfillmentService(t, db)

	_, err := svc.ChangeOrderStatus(uuid.New(), model.StatusConfirmed, nil, "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestResolveOrderLink(t *testing.T) {
	db := setupTestDB(t)
	svc := newFulfillmentService(t, db)

	product := seedProduct(t, db, "SHIRT-01")
	order := seedOrder(t, db, "ORD-001", product.ID, 10, 0)

	link, err := svc.CreateOrderLink(order.ID, nil, 24*time.Hour, "admin")
	if err != nil {
		t.Fatalf("CreateOrderLink failed: %v", err)
	}
	if len(link.Token) != 64 {
		t.Errorf("token length = %d, want 64", len(link.Token))
	}

	resolved, err := svc.ResolveOrderLink(link.Token)
	if err != nil {
		t.Fatalf("ResolveOrderLink failed: %v", err)
	}
	if resolved.OrderID != order.ID {
		t.Errorf("resolved order = %s, want %s", resolved.OrderID, order.ID)
	}
	if resolved.UserID != nil {
		t.Error("public link should have no owning user")
	}

	// Unknown token
	if _, err := svc.ResolveOrderLink("no-such-token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestResolveOrderLinkExpired(t *testing.T) {
	db := setupTestDB(t)
	svc := newFulfillmentService(t, db)

	product := seedProduct(t, db, "SHIRT-01")
	order := seedOrder(t, db, "ORD-001", product.ID, 10, 0)

	// Still active but past its expiry
	stale := &model.OrderLink{
		OrderID:  order.ID,
		Token:    "stale-token-0000000000000000000000000000000000000000000000000000",
		ExpireAt: time.Now().Add(-time.Hour),
		IsActive: true,
	}
	if err := db.Create(stale).Error; err != nil {
		t.Fatalf("Failed to seed link: %v", err)
	}

	if _, err := svc.ResolveOrderLink(stale.Token); !errors.Is(err, ErrExpired) {
		t.Errorf("error = %v, want ErrExpired", err)
	}
}

func TestResolveOrderLinkRevoked(t *testing.T) {
	db := setupTestDB(t)
	svc := newFulfillmentService(t, db)

	product := seedProduct(t, db, "SHIRT-01")
	order := seedOrder(t, db, "ORD-001", product.ID, 10, 0)

	link, err := svc.CreateOrderLink(order.ID, nil, 24*time.Hour, "admin")
	if err != nil {
		t.Fatalf("CreateOrderLink failed: %v", err)
	}
	if err := svc.RevokeOrderLink(link.ID, "admin"); err != nil {
		t.Fatalf("RevokeOrderLink failed: %v", err)
	}

	if _, err := svc.ResolveOrderLink(link.Token); !errors.Is(err, ErrExpired) {
		t.Errorf("error = %v, want ErrExpired", err)
	}
}

func TestRecordProgressIdentifiedReporterOmitsTailorName(t *testing.T) {
	db := setupTestDB(t)
	svc := newFulfillmentService(t, db)

	product := seedProduct(t, db, "SHIRT-01")
	order := seedOrder(t, db, "ORD-001", product.ID, 100, 0)

	userID := uuid.New()
	report, err := svc.RecordProgress(RecordProgressInput{
		OrderID:     order.ID,
		PcsFinished: 7,
		Reporter:    Reporter{UserID: &userID, TailorName: "Siti"},
	})
	if err != nil {
		t.Fatalf("RecordProgress failed: %v", err)
	}
	if report.UserID == nil || *report.UserID != userID {
		t.Error("report user_id not recorded")
	}
	// tailor_name is reserved for anonymous submissions
	if report.TailorName != "" {
		t.Errorf("tailor_name = %q, want empty for identified reporter", report.TailorName)
	}
	if report.CreatedBy != userID.String() {
		t.Errorf("created_by = %q, want %s", report.CreatedBy, userID)
	}
}

func TestMarkLineCompletedChecksCounterInSQL(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewOrderRepo(db)

	product := seedProduct(t, db, "SHIRT-01")
	partial := seedOrder(t, db, "ORD-001", product.ID, 100, 40)
	// Counter already at target but flag never set, as after an
	// increment that raced another report
	full := seedOrder(t, db, "ORD-002", product.ID, 100, 100)

	now := time.Now()
	var line model.OrderProduct

	db.First(&line, "order_id = ?", partial.ID)
	if err := repo.MarkLineCompleted(db, line.ID, now); err != nil {
		t.Fatalf("MarkLineCompleted failed: %v", err)
	}
	db.First(&line, "id = ?", line.ID)
	if line.IsCompleted {
		t.Error("partial line must not be flagged completed")
	}

	line = model.OrderProduct{}
	db.First(&line, "order_id = ?", full.ID)
	if err := repo.MarkLineCompleted(db, line.ID, now); err != nil {
		t.Fatalf("MarkLineCompleted failed: %v", err)
	}
	db.First(&line, "id = ?", line.ID)
	if !line.IsCompleted {
		t.Error("full line must be flagged completed")
	}
	if line.CompletionDate == nil {
		t.Error("completion_date not set")
	}
}

func TestRecordProgressViaLinkKeepsAnonymousReporter(t *testing.T) {
	db := setupTestDB(t)
	svc := newFulfillmentService(t, db)

	product := seedProduct(t, db, "SHIRT-01")
	order := seedOrder(t, db, "ORD-001", product.ID, 100, 0)

	report, err := svc.RecordProgress(RecordProgressInput{
		OrderID:     order.ID,
		PcsFinished: 7,
		Reporter:    Reporter{TailorName: "Pak Budi"},
		ViaLink:     true,
	})
	if err != nil {
		t.Fatalf("RecordProgress failed: %v", err)
	}
	if report.UserID != nil {
		t.Error("anonymous report should have nil user_id")
	}
	if report.TailorName != "Pak Budi" {
		t.Errorf("tailor_name = %q, want 'Pak Budi'", report.TailorName)
	}
	if !report.ViaLink {
		t.Error("via_link flag not set")
	}
	if report.CreatedBy != "public-link" {
		t.Errorf("created_by = %q, want 'public-link'", report.CreatedBy)
	}
}
