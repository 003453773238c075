package models

// Blocker kinds reported by the eligibility evaluator.
const (
	BlockerEntityKyc      = "entity_kyc"
	BlockerMemberApproval = "member_approval"
	BlockerMemberKyc      = "member_kyc"
)

// EligibilityBlocker is one unmet requirement preventing an entity from
// investing. MemberName is set for per-signatory blockers.
type EligibilityBlocker struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	MemberName string `json:"memberName,omitempty"`
}

// EligibilityResult is the derived invest/no-invest decision for an entity.
// It is computed on demand and never persisted. Blockers always holds every
// unmet requirement, not just the first one, so the UI can explain all of
// them at once.
type EligibilityResult struct {
	CanInvest           bool                 `json:"canInvest"`
	Blockers            []EligibilityBlocker `json:"blockers"`
	TotalSignatories    int                  `json:"totalSignatories"`
	ApprovedSignatories int                  `json:"approvedSignatories"`
}
