package memory

import (
	"context"
	"sync"

	"github.com/sudheer2004/PollProject/internal/core/domain"
	"github.com/sudheer2004/PollProject/internal/core/ports"
)

// archiveRepository keeps completed polls in memory, newest first. Used
// when no database is configured; history survives only for the process
// lifetime.
type archiveRepository struct {
	mu    sync.RWMutex
	polls []*domain.PollSnapshot
}

func NewArchiveRepository() ports.ArchiveRepository {
	return &archiveRepository{}
}

func (r *archiveRepository) Save(_ context.Context, snap *domain.PollSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.polls = append([]*domain.PollSnapshot{snap}, r.polls...)
	return nil
}

func (r *archiveRepository) GetRecent(_ context.Context, limit int) ([]*domain.PollSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit > len(r.polls) {
		limit = len(r.polls)
	}
	out := make([]*domain.PollSnapshot, limit)
	copy(out, r.polls[:limit])
	return out, nil
}
