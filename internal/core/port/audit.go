package port

import (
	"context"

	"github.com/MikeRez0/tgshop/internal/core/domain"
)

//go:generate mockgen -source=audit.go -destination=mock/audit.go -package=mock
type AuditLog interface {
	Append(ctx context.Context, entry domain.AuditEntry) error
	Entries(ctx context.Context) ([]domain.AuditEntry, error)
}
