package ports

import (
	"context"

	"github.com/sudheer2004/PollProject/internal/core/domain"
)

// ArchiveRepository receives completed poll snapshots. Writes are
// best-effort: the engine logs failures and moves on.
type ArchiveRepository interface {
	Save(ctx context.Context, snapshot *domain.PollSnapshot) error
	GetRecent(ctx context.Context, limit int) ([]*domain.PollSnapshot, error)
}
