package common

// Worker role names. Used for lease keys, supervisor liveness maps and log
// fields; the supervisor's watched set may extend beyond these (external
// collaborators are configured, not listed here).
const (
	RoleSentiment = "sentiment"
	RoleTechnical = "technical"
	RoleSignal    = "signal"
	RoleNotifier  = "notifier"
	RoleMonitor   = "monitor"
)

// RoleLeaseKeyFormat is the Redis key holding a role's single-instance
// lease; the value is the owning instance id.
const RoleLeaseKeyFormat = "worker:lease:%s"

// DefaultLeaseTTL is the role lease lifetime when the config leaves it
// unset. Leases are refreshed at a third of this.
const DefaultLeaseTTL = "90s"
