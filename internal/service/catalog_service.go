package service

import (
	"errors"
	"fmt"

	"go-orders-ws/internal/model"
	"go-orders-ws/internal/repository"
	"go-orders-ws/internal/ws"
	"go-orders-ws/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdjustStockRequest is a manual material stock correction or purchase
// intake, outside of production consumption.
type AdjustStockRequest struct {
	Type   model.MovementType `json:"type" validate:"required,oneof=IN OUT"`
	Qty    float64            `json:"qty" validate:"required,gt=0"`
	Source string             `json:"movement_source"` // "purchase" or "adjustment"
	Note   string             `json:"note"`
}

type CatalogService interface {
	// Products
	CreateProduct(req *model.Product, userID string) error
	UpdateProduct(id uuid.UUID, req *model.Product, userID string) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error
	GetAllProducts() ([]model.Product, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)
	SetBillOfMaterials(productID uuid.UUID, rows []model.ProductMaterial, userID string) error
	AddProductPhoto(productID uuid.UUID, photoURL, thumbnailURL, userID string) (*model.ProductPhoto, error)

	// Materials
	CreateMaterial(req *model.Material, userID string) error
	UpdateMaterial(id uuid.UUID, req *model.Material, userID string) (*model.Material, error)
	DeleteMaterial(id uuid.UUID) error
	GetAllMaterials() ([]model.Material, error)
	GetMaterialByID(id uuid.UUID) (*model.Material, error)
	AdjustStock(materialID uuid.UUID, req *AdjustStockRequest, userID string) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	materialRepo repository.MaterialRepository
	movementRepo repository.MovementRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	materialRepo repository.MaterialRepository,
	movementRepo repository.MovementRepository,
	db *gorm.DB,
	hub *ws.Hub,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		materialRepo: materialRepo,
		movementRepo: movementRepo,
		db:           db,
		wsHub:        hub,
	}
}

func (s *catalogService) CreateProduct(req *model.Product, userID string) error {
	// 1. Validasi Struct Dasar
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, firstErr.FailedField, firstErr.Tag)
	}

	// 2. Check for duplicate code
	existing, _ := s.productRepo.FindByCode(req.Code)
	if existing != nil && existing.ID != uuid.Nil {
		return fmt.Errorf("%w: product code already exists", ErrValidation)
	}

	// 3. Base material must exist when set
	if req.MaterialID != nil {
		if _, err := s.materialRepo.FindByID(*req.MaterialID); err != nil {
			return fmt.Errorf("%w: material", ErrNotFound)
		}
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	return s.productRepo.Create(req)
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product, userID string) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: product", ErrNotFound)
	}

	if req.Code != existing.Code {
		dup, _ := s.productRepo.FindByCode(req.Code)
		if dup != nil && dup.ID != uuid.Nil {
			return nil, fmt.Errorf("%w: product code already exists", ErrValidation)
		}
	}

	existing.Code = req.Code
	existing.Name = req.Name
	existing.QtyOnHand = req.QtyOnHand
	existing.Unit = req.Unit
	existing.Price = req.Price
	existing.MaterialID = req.MaterialID
	existing.UpdatedBy = userID

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *catalogService) DeleteProduct(id uuid.UUID) error {
	return s.productRepo.Delete(id)
}

func (s *catalogService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *catalogService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogService) SetBillOfMaterials(productID uuid.UUID, rows []model.ProductMaterial, userID string) error {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		return fmt.Errorf("%w: product", ErrNotFound)
	}

	for i := range rows {
		if rows[i].QtyNeeded < 0 {
			return fmt.Errorf("%w: qty_needed must not be negative", ErrValidation)
		}
		if _, err := s.materialRepo.FindByID(rows[i].MaterialID); err != nil {
			return fmt.Errorf("%w: material %s", ErrNotFound, rows[i].MaterialID)
		}
		rows[i].CreatedBy = userID
		rows[i].UpdatedBy = userID
	}

	return s.productRepo.ReplaceBOM(productID, rows)
}

func (s *catalogService) AddProductPhoto(productID uuid.UUID, photoURL, thumbnailURL, userID string) (*model.ProductPhoto, error) {
	if photoURL == "" {
		return nil, fmt.Errorf("%w: photo_url is required", ErrValidation)
	}
	if _, err := s.productRepo.FindByID(productID); err != nil {
		return nil, fmt.Errorf("%w: product", ErrNotFound)
	}

	photo := &model.ProductPhoto{
		ProductID:    productID,
		PhotoURL:     photoURL,
		ThumbnailURL: thumbnailURL,
	}
	photo.CreatedBy = userID
	photo.UpdatedBy = userID

	if err := s.productRepo.AddPhoto(photo); err != nil {
		return nil, err
	}
	return photo, nil
}

func (s *catalogService) CreateMaterial(req *model.Material, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, firstErr.FailedField, firstErr.Tag)
	}
	if req.QtyOnHand < 0 || req.SafetyStock < 0 {
		return fmt.Errorf("%w: quantities must not be negative", ErrValidation)
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	return s.materialRepo.Create(req)
}

func (s *catalogService) UpdateMaterial(id uuid.UUID, req *model.Material, userID string) (*model.Material, error) {
	existing, err := s.materialRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: material", ErrNotFound)
	}

	// QtyOnHand is deliberately not updatable here; stock only moves
	// through AdjustStock or production consumption, so every change
	// leaves a movement row.
	existing.Name = req.Name
	existing.Unit = req.Unit
	existing.SafetyStock = req.SafetyStock
	existing.UpdatedBy = userID

	if err := s.materialRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *catalogService) DeleteMaterial(id uuid.UUID) error {
	return s.materialRepo.Delete(id)
}

func (s *catalogService) GetAllMaterials() ([]model.Material, error) {
	return s.materialRepo.FindAll()
}

func (s *catalogService) GetMaterialByID(id uuid.UUID) (*model.Material, error) {
	material, err := s.materialRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: material", ErrNotFound)
		}
		return nil, err
	}
	return material, nil
}

// AdjustStock moves material stock manually and appends the audit row,
// atomically (same guarantees as production consumption).
func (s *catalogService) AdjustStock(materialID uuid.UUID, req *AdjustStockRequest, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, firstErr.FailedField, firstErr.Tag)
	}

	source := req.Source
	if source == "" {
		source = model.MovementSourceAdjustment
	}

	var material model.Material
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Read through tx: a root-db read here would need a second pool
		// connection while the transaction holds one
		if err := tx.First(&material, "id = ?", materialID).Error; err != nil {
			return fmt.Errorf("%w: material", ErrNotFound)
		}

		if req.Type == model.MovementIn {
			if err := s.materialRepo.AddStock(tx, materialID, req.Qty, userID); err != nil {
				return err
			}
		} else {
			ok, err := s.materialRepo.ConsumeStock(tx, materialID, req.Qty, userID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: insufficient stock remaining", ErrValidation)
			}
		}

		movement := &model.MaterialMovement{
			MaterialID: materialID,
			Type:       req.Type,
			Qty:        req.Qty,
			Source:     source,
			Note:       req.Note,
		}
		movement.CreatedBy = userID
		movement.UpdatedBy = userID
		return s.movementRepo.Create(tx, movement)
	})
	if err != nil {
		return err
	}

	// Broadcast ke WebSocket
	go func() {
		payload := map[string]interface{}{
			"type":        "stock_update",
			"material_id": materialID,
			"material":    material.Name,
			"movement":    req.Type,
			"qty":         req.Qty,
			"message":     fmt.Sprintf("Stock %s of %.2f on material '%s'", req.Type, req.Qty, material.Name),
		}
		s.wsHub.BroadcastJSON(payload)
	}()

	return nil
}
