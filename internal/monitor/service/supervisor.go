package service

import (
	"context"
	"encoding/json"
	"time"

	"stock-signal-pipeline/internal/entity"
	"stock-signal-pipeline/internal/monitor/config"
	"stock-signal-pipeline/internal/monitor/dto"
	"stock-signal-pipeline/internal/monitor/repository"
	"stock-signal-pipeline/pkg/logger"
	"stock-signal-pipeline/pkg/redis"
	"stock-signal-pipeline/pkg/worklock"

	"gorm.io/datatypes"
)

// LeasePeeker reads role leases as a secondary liveness signal.
type LeasePeeker interface {
	Holder(ctx context.Context, role string) (string, error)
}

// NewLeasePeeker creates the Redis-backed LeasePeeker.
func NewLeasePeeker(client *redis.Client) LeasePeeker {
	return &leasePeeker{client: client}
}

type leasePeeker struct {
	client *redis.Client
}

func (p *leasePeeker) Holder(ctx context.Context, role string) (string, error) {
	return worklock.Holder(ctx, p.client, role)
}

// SupervisorService keeps the configured worker roles alive and records
// one status snapshot per poll.
type SupervisorService interface {
	Start(ctx context.Context)
	RunOnce(ctx context.Context)
}

type supervisorService struct {
	cfg          *config.Config
	logger       *logger.Logger
	statusRepo   repository.SystemStatusRepository
	processRepo  repository.ProcessRepository
	resourceRepo repository.ResourceRepository
	leases       LeasePeeker
	restarter    Restarter
	nowFn        func() time.Time
}

// NewSupervisorService creates a new instance of SupervisorService. The
// lease peeker may be nil when Redis is not configured.
func NewSupervisorService(
	cfg *config.Config,
	log *logger.Logger,
	statusRepo repository.SystemStatusRepository,
	processRepo repository.ProcessRepository,
	resourceRepo repository.ResourceRepository,
	leases LeasePeeker,
	restarter Restarter,
) SupervisorService {
	return &supervisorService{
		cfg:          cfg,
		logger:       log,
		statusRepo:   statusRepo,
		processRepo:  processRepo,
		resourceRepo: resourceRepo,
		leases:       leases,
		restarter:    restarter,
		nowFn:        time.Now,
	}
}

// Start runs the supervision loop until ctx is cancelled.
func (s *supervisorService) Start(ctx context.Context) {
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.cfg.Monitor.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Supervisor stopping")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs one supervision cycle: resource readings, one process
// table scan, restarts for dead roles, and the snapshot row. Each step is
// isolated; a failing step logs and the cycle carries on with what it
// has.
func (s *supervisorService) RunOnce(ctx context.Context) {
	now := s.nowFn()

	resources := &dto.ResourceUsage{}
	if usage, err := s.resourceRepo.Snapshot(ctx, s.cfg.Monitor.DiskPath); err != nil {
		s.logger.Error("Failed to read resource usage", logger.ErrorField(err))
	} else {
		resources = usage
	}

	dbSize, err := s.statusRepo.DatabaseSize(ctx)
	if err != nil {
		s.logger.Error("Failed to read database size", logger.ErrorField(err))
	}

	liveness := s.checkLiveness(ctx)
	s.restartDead(liveness)

	if liveness == nil {
		liveness = map[string]bool{}
	}
	workers, err := json.Marshal(liveness)
	if err != nil {
		s.logger.Error("Failed to encode liveness map", logger.ErrorField(err))
		workers = []byte("{}")
	}

	snapshot := &entity.SystemStatusSnapshot{
		Timestamp:   now,
		CPUUsage:    resources.CPUUsage,
		MemoryUsage: resources.MemoryUsage,
		DiskUsage:   resources.DiskUsage,
		DBSize:      dbSize,
		Workers:     datatypes.JSON(workers),
	}
	if err := s.statusRepo.Create(ctx, snapshot); err != nil {
		s.logger.Error("Failed to persist status snapshot", logger.ErrorField(err))
		return
	}

	s.logger.Info("Status snapshot recorded",
		logger.Float64Field("cpu_usage", resources.CPUUsage),
		logger.Float64Field("memory_usage", resources.MemoryUsage),
		logger.Float64Field("disk_usage", resources.DiskUsage),
		logger.Int64Field("db_size", dbSize),
		logger.IntField("workers", len(liveness)))
}

// checkLiveness scans the process table once and maps each role to a
// running boolean. The scan is authoritative for restart decisions; the
// role lease is peeked as a secondary signal and disagreement is only
// logged. A failed scan returns nil: no information, not all-dead.
func (s *supervisorService) checkLiveness(ctx context.Context) map[string]bool {
	tokens := make([]string, 0, len(s.cfg.Monitor.Workers))
	for _, role := range s.cfg.Monitor.Workers {
		tokens = append(tokens, role.Token)
	}

	byToken, err := s.processRepo.RunningByToken(ctx, tokens)
	if err != nil {
		s.logger.Error("Failed to scan process table", logger.ErrorField(err))
		return nil
	}

	liveness := make(map[string]bool, len(s.cfg.Monitor.Workers))
	for _, role := range s.cfg.Monitor.Workers {
		liveness[role.Name] = byToken[role.Token]
	}

	if s.leases == nil {
		return liveness
	}
	for _, role := range s.cfg.Monitor.Workers {
		holder, err := s.leases.Holder(ctx, role.Name)
		if err != nil {
			s.logger.Debug("Failed to peek role lease", logger.ErrorField(err), logger.StringField("role", role.Name))
			continue
		}
		if (holder != "") != liveness[role.Name] {
			s.logger.Warn("Process table and role lease disagree",
				logger.StringField("role", role.Name),
				logger.Field("process_running", liveness[role.Name]),
				logger.StringField("lease_holder", holder))
		}
	}
	return liveness
}

// restartDead restarts every role the scan reported as not running. No
// backoff and no restart cap: a role that keeps dying is retried every
// poll, and a failed restart leaves it down until the next one.
func (s *supervisorService) restartDead(liveness map[string]bool) {
	if liveness == nil {
		return
	}
	for _, role := range s.cfg.Monitor.Workers {
		if liveness[role.Name] {
			continue
		}
		s.logger.Warn("Worker role not running, restarting", logger.StringField("role", role.Name))
		if err := s.restarter.Restart(role); err != nil {
			s.logger.Error("Failed to restart worker role",
				logger.ErrorField(err),
				logger.StringField("role", role.Name))
			continue
		}
		s.logger.Info("Worker role restarted",
			logger.StringField("role", role.Name),
			logger.StringField("command", role.Command))
	}
}
