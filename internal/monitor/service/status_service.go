package service

import (
	"context"
	"encoding/json"

	"stock-signal-pipeline/internal/entity"
	"stock-signal-pipeline/internal/monitor/dto"
	"stock-signal-pipeline/internal/monitor/repository"
	"stock-signal-pipeline/pkg/logger"
)

const defaultStatusLimit = 20

// StatusService serves supervisor snapshots to the ops API.
type StatusService interface {
	Latest(ctx context.Context) (*dto.SystemStatusResponse, error)
	Recent(ctx context.Context, limit int) ([]dto.SystemStatusResponse, error)
}

// NewStatusService creates a new instance of StatusService.
func NewStatusService(statusRepo repository.SystemStatusRepository, log *logger.Logger) StatusService {
	return &statusService{statusRepo: statusRepo, logger: log}
}

type statusService struct {
	statusRepo repository.SystemStatusRepository
	logger     *logger.Logger
}

// Latest returns the newest snapshot, or nil when none exist yet.
func (s *statusService) Latest(ctx context.Context) (*dto.SystemStatusResponse, error) {
	snapshot, err := s.statusRepo.FindLatest(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, nil
	}
	resp := toStatusResponse(snapshot)
	return &resp, nil
}

// Recent returns up to limit snapshots, newest first. Non-positive and
// oversized limits fall back to the default page size.
func (s *statusService) Recent(ctx context.Context, limit int) ([]dto.SystemStatusResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = defaultStatusLimit
	}
	snapshots, err := s.statusRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SystemStatusResponse, 0, len(snapshots))
	for i := range snapshots {
		out = append(out, toStatusResponse(&snapshots[i]))
	}
	return out, nil
}

func toStatusResponse(snapshot *entity.SystemStatusSnapshot) dto.SystemStatusResponse {
	resp := dto.SystemStatusResponse{
		ID:          snapshot.ID,
		Timestamp:   snapshot.Timestamp,
		CPUUsage:    snapshot.CPUUsage,
		MemoryUsage: snapshot.MemoryUsage,
		DiskUsage:   snapshot.DiskUsage,
		DBSize:      snapshot.DBSize,
		Workers:     map[string]bool{},
	}
	if len(snapshot.Workers) > 0 {
		// A malformed map leaves the response empty rather than failing
		// the whole request.
		_ = json.Unmarshal(snapshot.Workers, &resp.Workers)
	}
	return resp
}
