package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcessRepository answers liveness questions from the OS process table.
type ProcessRepository interface {
	RunningByToken(ctx context.Context, tokens []string) (map[string]bool, error)
}

// NewProcessRepository creates a new instance of ProcessRepository.
func NewProcessRepository() ProcessRepository {
	return &processRepository{}
}

type processRepository struct{}

// RunningByToken scans the process table once and reports, per token,
// whether any process command line contains it.
func (r *processRepository) RunningByToken(ctx context.Context, tokens []string) (map[string]bool, error) {
	running := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		running[token] = false
	}

	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	for _, proc := range procs {
		cmdline, err := proc.CmdlineWithContext(ctx)
		if err != nil || cmdline == "" {
			// Processes exiting mid-scan or owned by other users are not
			// readable; skip them.
			continue
		}
		for _, token := range tokens {
			if !running[token] && strings.Contains(cmdline, token) {
				running[token] = true
			}
		}
	}
	return running, nil
}
