package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"stock-signal-pipeline/internal/entity"
	"stock-signal-pipeline/internal/monitor/config"
	"stock-signal-pipeline/internal/monitor/dto"
	"stock-signal-pipeline/pkg/logger"

	"github.com/stretchr/testify/require"
)

type fakeStatusRepo struct {
	created   []entity.SystemStatusSnapshot
	dbSize    int64
	sizeErr   error
	createErr error
}

func (f *fakeStatusRepo) Create(_ context.Context, snapshot *entity.SystemStatusSnapshot) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *snapshot)
	return nil
}

func (f *fakeStatusRepo) FindLatest(_ context.Context) (*entity.SystemStatusSnapshot, error) {
	return nil, nil
}

func (f *fakeStatusRepo) FindRecent(_ context.Context, _ int) ([]entity.SystemStatusSnapshot, error) {
	return nil, nil
}

func (f *fakeStatusRepo) DatabaseSize(_ context.Context) (int64, error) {
	return f.dbSize, f.sizeErr
}

type fakeProcessRepo struct {
	running map[string]bool
	err     error
	scans   int
}

func (f *fakeProcessRepo) RunningByToken(_ context.Context, tokens []string) (map[string]bool, error) {
	f.scans++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		out[token] = f.running[token]
	}
	return out, nil
}

type fakeResourceRepo struct {
	usage *dto.ResourceUsage
	err   error
}

func (f *fakeResourceRepo) Snapshot(_ context.Context, _ string) (*dto.ResourceUsage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.usage, nil
}

type fakeLeasePeeker struct {
	holders map[string]string
	err     error
}

func (f *fakeLeasePeeker) Holder(_ context.Context, role string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.holders[role], nil
}

type fakeRestarter struct {
	restarted []string
	failRole  string
}

func (f *fakeRestarter) Restart(role config.WorkerRole) error {
	f.restarted = append(f.restarted, role.Name)
	if role.Name == f.failRole {
		return errors.New("spawn failed")
	}
	return nil
}

func watchedRoles() []config.WorkerRole {
	return []config.WorkerRole{
		{Name: "sentiment", Token: "sentiment-service", Command: "/usr/local/bin/sentiment-service"},
		{Name: "technical", Token: "technical-service", Command: "/usr/local/bin/technical-service"},
		{Name: "signal", Token: "signal-service", Command: "/usr/local/bin/signal-service"},
		{Name: "notifier", Token: "notifier-service", Command: "/usr/local/bin/notifier-service"},
	}
}

func newTestSupervisor(t *testing.T, processes *fakeProcessRepo, resources *fakeResourceRepo, restarter *fakeRestarter) (*supervisorService, *fakeStatusRepo) {
	t.Helper()

	log, err := logger.New("error", "console")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Monitor.PollInterval = time.Minute
	cfg.Monitor.DiskPath = "/"
	cfg.Monitor.Workers = watchedRoles()

	statuses := &fakeStatusRepo{dbSize: 2048}

	svc := NewSupervisorService(cfg, log, statuses, processes, resources, nil, restarter).(*supervisorService)
	svc.nowFn = func() time.Time {
		return time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	}
	return svc, statuses
}

func healthyResources() *fakeResourceRepo {
	return &fakeResourceRepo{usage: &dto.ResourceUsage{CPUUsage: 12.5, MemoryUsage: 41.0, DiskUsage: 63.2}}
}

func TestRunOnceRestartsDeadRoles(t *testing.T) {
	processes := &fakeProcessRepo{running: map[string]bool{"signal-service": true}}
	restarter := &fakeRestarter{}
	svc, statuses := newTestSupervisor(t, processes, healthyResources(), restarter)

	svc.RunOnce(context.Background())

	require.Equal(t, []string{"sentiment", "technical", "notifier"}, restarter.restarted)
	require.Equal(t, 1, processes.scans)

	require.Len(t, statuses.created, 1)
	var workers map[string]bool
	require.NoError(t, json.Unmarshal(statuses.created[0].Workers, &workers))
	require.Equal(t, map[string]bool{
		"sentiment": false,
		"technical": false,
		"signal":    true,
		"notifier":  false,
	}, workers)
}

func TestRunOnceSnapshotRecordsGauges(t *testing.T) {
	processes := &fakeProcessRepo{running: map[string]bool{
		"sentiment-service": true,
		"technical-service": true,
		"signal-service":    true,
		"notifier-service":  true,
	}}
	restarter := &fakeRestarter{}
	svc, statuses := newTestSupervisor(t, processes, healthyResources(), restarter)

	svc.RunOnce(context.Background())

	require.Empty(t, restarter.restarted)
	require.Len(t, statuses.created, 1)

	snapshot := statuses.created[0]
	require.Equal(t, time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC), snapshot.Timestamp)
	require.Equal(t, 12.5, snapshot.CPUUsage)
	require.Equal(t, 41.0, snapshot.MemoryUsage)
	require.Equal(t, 63.2, snapshot.DiskUsage)
	require.Equal(t, int64(2048), snapshot.DBSize)
}

func TestRunOnceScanFailureSkipsRestarts(t *testing.T) {
	processes := &fakeProcessRepo{err: errors.New("proc unavailable")}
	restarter := &fakeRestarter{}
	svc, statuses := newTestSupervisor(t, processes, healthyResources(), restarter)

	svc.RunOnce(context.Background())

	// No information is not the same as all-dead.
	require.Empty(t, restarter.restarted)

	require.Len(t, statuses.created, 1)
	var workers map[string]bool
	require.NoError(t, json.Unmarshal(statuses.created[0].Workers, &workers))
	require.Empty(t, workers)
}

func TestRunOnceRestartFailureContinuesCycle(t *testing.T) {
	processes := &fakeProcessRepo{running: map[string]bool{}}
	restarter := &fakeRestarter{failRole: "sentiment"}
	svc, statuses := newTestSupervisor(t, processes, healthyResources(), restarter)

	svc.RunOnce(context.Background())

	require.Equal(t, []string{"sentiment", "technical", "signal", "notifier"}, restarter.restarted)
	require.Len(t, statuses.created, 1)
}

func TestRunOnceResourceFailureStillSnapshots(t *testing.T) {
	processes := &fakeProcessRepo{running: map[string]bool{"sentiment-service": true}}
	restarter := &fakeRestarter{}
	resources := &fakeResourceRepo{err: errors.New("procfs gone")}
	svc, statuses := newTestSupervisor(t, processes, resources, restarter)

	svc.RunOnce(context.Background())

	require.Len(t, statuses.created, 1)
	snapshot := statuses.created[0]
	require.Zero(t, snapshot.CPUUsage)
	require.Zero(t, snapshot.MemoryUsage)
	require.Zero(t, snapshot.DiskUsage)
	require.Equal(t, int64(2048), snapshot.DBSize)
}

func TestRunOnceLeaseDisagreementDoesNotOverrideScan(t *testing.T) {
	// A stale lease for a dead role and a missing lease for a live one:
	// restart decisions still follow the process table.
	processes := &fakeProcessRepo{running: map[string]bool{"signal-service": true}}
	restarter := &fakeRestarter{}
	svc, _ := newTestSupervisor(t, processes, healthyResources(), restarter)
	svc.leases = &fakeLeasePeeker{holders: map[string]string{"sentiment": "host-1:4120"}}

	svc.RunOnce(context.Background())

	require.Equal(t, []string{"sentiment", "technical", "notifier"}, restarter.restarted)
}

func TestRunOnceLeasePeekFailureIgnored(t *testing.T) {
	processes := &fakeProcessRepo{running: map[string]bool{"signal-service": true}}
	restarter := &fakeRestarter{}
	svc, statuses := newTestSupervisor(t, processes, healthyResources(), restarter)
	svc.leases = &fakeLeasePeeker{err: errors.New("redis down")}

	svc.RunOnce(context.Background())

	require.Equal(t, []string{"sentiment", "technical", "notifier"}, restarter.restarted)
	require.Len(t, statuses.created, 1)
}
