package service

import (
	"time"

	"go-orders-ws/internal/model"
	"go-orders-ws/internal/repository"
)

type DashboardService interface {
	GetMaterialMovement(days int) ([]repository.MovementChartData, error)
	GetDashboardStats() (*repository.DashboardStats, error)
	GetLowStockMaterials() ([]model.Material, error)
}

type dashboardService struct {
	movementRepo repository.MovementRepository
	materialRepo repository.MaterialRepository
}

func NewDashboardService(movementRepo repository.MovementRepository, materialRepo repository.MaterialRepository) DashboardService {
	return &dashboardService{movementRepo: movementRepo, materialRepo: materialRepo}
}

func (s *dashboardService) GetMaterialMovement(days int) ([]repository.MovementChartData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.movementRepo.GetMovementChart(startDate, endDate)
}

func (s *dashboardService) GetDashboardStats() (*repository.DashboardStats, error) {
	return s.movementRepo.GetDashboardStats()
}

func (s *dashboardService) GetLowStockMaterials() ([]model.Material, error) {
	return s.materialRepo.FindLowStock()
}
