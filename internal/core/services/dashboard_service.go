package services

import (
	"context"

	"rema-partners/internal/adapters/persistence/models"
	"rema-partners/internal/adapters/persistence/repositories"
)

// DashboardService handles dashboard operations
type DashboardService struct {
	userRepo         repositories.UserRepository
	productRepo      repositories.ProductRepository
	revokedTokenRepo repositories.RevokedTokenRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	userRepo repositories.UserRepository,
	productRepo repositories.ProductRepository,
	revokedTokenRepo repositories.RevokedTokenRepository,
) *DashboardService {
	return &DashboardService{
		userRepo:         userRepo,
		productRepo:      productRepo,
		revokedTokenRepo: revokedTokenRepo,
	}
}

// StatsData represents dashboard statistics
type StatsData struct {
	// User statistics
	TotalAdmins       int64 `json:"total_admins"`
	TotalVendedores   int64 `json:"total_vendedores"`
	TotalTrabajadores int64 `json:"total_trabajadores"`
	TotalCompradores  int64 `json:"total_compradores"`

	// Catalog statistics
	TotalProducts int64 `json:"total_products"`

	// Sessions closed before natural expiry
	RevokedSessions int64 `json:"revoked_sessions"`
}

// Stats aggregates counts for the staff dashboard
func (s *DashboardService) Stats(ctx context.Context) (*StatsData, error) {
	stats := &StatsData{}

	counts := []struct {
		role models.Role
		dst  *int64
	}{
		{models.RoleAdmin, &stats.TotalAdmins},
		{models.RoleVendedor, &stats.TotalVendedores},
		{models.RoleTrabajador, &stats.TotalTrabajadores},
		{models.RoleComprador, &stats.TotalCompradores},
	}
	for _, c := range counts {
		n, err := s.userRepo.CountByRole(ctx, c.role)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}

	products, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalProducts = products

	revoked, err := s.revokedTokenRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	stats.RevokedSessions = revoked

	return stats, nil
}
