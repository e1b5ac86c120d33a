package entity

// ReviewStatus is the state of a prize request or goal submission
type ReviewStatus string

// Review states. Approved and denied are terminal.
const (
	StatusPending  ReviewStatus = "pending"
	StatusApproved ReviewStatus = "approved"
	StatusDenied   ReviewStatus = "denied"
)

// IsValidReviewStatus checks if the given string is a known status
func IsValidReviewStatus(s string) bool {
	switch ReviewStatus(s) {
	case StatusPending, StatusApproved, StatusDenied:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed
func (s ReviewStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusDenied
}

// CanTransitionTo reports whether the state machine allows s -> next
func (s ReviewStatus) CanTransitionTo(next ReviewStatus) bool {
	return s == StatusPending && next.IsTerminal()
}
