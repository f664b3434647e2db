package constants

// Application lifecycle statuses. An application is created Pending and is
// decided exactly once; Approved and Rejected are terminal.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

var DecidableStatuses = []string{StatusApproved, StatusRejected}

func IsValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Staff roles
const (
	RoleAdmin = "admin"
)
