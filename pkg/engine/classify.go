package engine

import (
	"strings"

	"remap/pkg/schema"
)

// Status codes for the target schema's status column.
const (
	StatusInactive = 0
	StatusActive   = 1
	StatusPending  = 2
)

// Funded status codes.
const (
	FundedNone     = 0
	FundedApproved = 1
	FundedRejected = 2
)

// PhaseFunded is the current_phase value of an approved funded account.
// Challenge phases are 1-3; 0 means the account is past the challenge.
const PhaseFunded = 0

// Lifecycle is the derived classification of a platform account.
type Lifecycle struct {
	CurrentPhase int `json:"currentPhase"`
	Status       int `json:"status"`
	FundedStatus int `json:"fundedStatus"`
}

// phaseTokens pattern-encode the challenge phase inside a group name.
// Checked in order; the first phase with a matching token wins.
var phaseTokens = []struct {
	phase  int
	tokens [2]string
}{
	{1, [2]string{"1-A", "1-B"}},
	{2, [2]string{"2-A", "2-B"}},
	{3, [2]string{"3-A", "3-B"}},
}

// PatternPhase extracts the challenge phase encoded in a group name.
// Group names without a recognizable token default to phase 1.
func PatternPhase(groupName string) int {
	for _, pt := range phaseTokens {
		if strings.Contains(groupName, pt.tokens[0]) || strings.Contains(groupName, pt.tokens[1]) {
			return pt.phase
		}
	}
	return 1
}

// Classify derives (current_phase, status, funded_status) from the three
// lifecycle inputs of a platform account. Pure and total: every input
// combination yields exactly one of the enumerated outcomes.
//
// When funded_at is null the account is still in its evolution challenge:
// the phase comes from the group-name pattern and status mirrors the raw
// active flag. When funded_at is set, rules apply in fixed priority order:
// Approved, then Rejected, then Pending. Reordering them changes the
// outcome of the ambiguous cell below, so the order is part of the contract.
func Classify(fundedAt schema.Value, groupName string, isActive bool, funded *schema.GroupSet) Lifecycle {
	phase := PatternPhase(groupName)

	if fundedAt.IsNull() {
		status := StatusInactive
		if isActive {
			status = StatusActive
		}
		return Lifecycle{CurrentPhase: phase, Status: status, FundedStatus: FundedNone}
	}

	member := funded.Contains(groupName)
	switch {
	case member && isActive:
		return Lifecycle{CurrentPhase: PhaseFunded, Status: StatusActive, FundedStatus: FundedApproved}
	case !member && !isActive:
		return Lifecycle{CurrentPhase: phase, Status: StatusInactive, FundedStatus: FundedRejected}
	default:
		// Catch-all covers two cells: non-member still active, and the
		// odd member-but-inactive combination. Both stay pending until
		// the funded group assignment settles.
		return Lifecycle{CurrentPhase: phase, Status: StatusPending, FundedStatus: FundedNone}
	}
}
