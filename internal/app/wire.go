package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"fitout-erp/internal/config"
	"fitout-erp/internal/core"
)

// NewFromPool builds the PostgreSQL-backed services and wraps them in an ApplicationService.
// notifier may be nil, in which case no mail is sent.
func NewFromPool(pool *pgxpool.Pool, cfg *config.Config, notifier core.Notifier, log *zap.Logger) ApplicationService {
	policy := core.NewApprovalPolicy(cfg.Approval.Roles)
	return NewAppService(
		core.NewQuotationService(pool, policy, notifier, log.Named("quotation")),
		core.NewProjectService(pool),
		core.NewProcurementService(pool),
		core.NewVendorService(pool),
		core.NewUserService(pool),
		cfg.Company.Name,
	)
}
