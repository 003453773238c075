package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/VersoHoldings/verso_backend/models"
)

// validEntityKycStatuses are the entity-level KYC statuses that clear the
// entity_kyc gate, compared case-insensitively.
var validEntityKycStatuses = map[string]bool{
	"approved":  true,
	"completed": true,
	"verified":  true,
}

// EvaluateEntityEligibility aggregates entity KYC and per-signatory checks
// into one invest/no-invest decision. It never short-circuits: every unmet
// requirement is collected so the caller can surface all of them at once.
func EvaluateEntityEligibility(ctx context.Context, store Store, entityID primitive.ObjectID) (*models.EligibilityResult, error) {
	entity, err := store.Entity(ctx, entityID)
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return nil, E(KindNotFound, "entity not found")
		}
		return nil, wrap(KindInternal, "failed to load entity", err)
	}

	result := &models.EligibilityResult{Blockers: []models.EligibilityBlocker{}}

	if !validEntityKycStatuses[strings.ToLower(entity.KycStatus)] {
		result.Blockers = append(result.Blockers, models.EligibilityBlocker{
			Kind:    models.BlockerEntityKyc,
			Message: fmt.Sprintf("entity KYC status is %q, must be approved", entity.KycStatus),
		})
	}

	members, err := store.EntityMembers(ctx, entityID)
	if err != nil {
		return nil, wrap(KindInternal, "failed to load entity members", err)
	}

	signatories := authorizedSignatories(members)
	result.TotalSignatories = len(signatories)

	if len(signatories) == 0 {
		result.Blockers = append(result.Blockers, models.EligibilityBlocker{
			Kind:    models.BlockerMemberApproval,
			Message: "no authorized signatories",
		})
	}

	for _, member := range signatories {
		approved := true

		if !strings.EqualFold(member.CEOApprovalStatus, "approved") {
			approved = false
			result.Blockers = append(result.Blockers, models.EligibilityBlocker{
				Kind:       models.BlockerMemberApproval,
				Message:    fmt.Sprintf("%s is pending CEO approval", member.DisplayName),
				MemberName: member.DisplayName,
			})
		}

		hasKyc, err := store.HasApprovedKycSubmission(ctx, entityID, member.ID)
		if err != nil {
			return nil, wrap(KindInternal, "failed to load KYC submissions", err)
		}
		if !hasKyc {
			approved = false
			result.Blockers = append(result.Blockers, models.EligibilityBlocker{
				Kind:       models.BlockerMemberKyc,
				Message:    fmt.Sprintf("%s has no approved KYC submission", member.DisplayName),
				MemberName: member.DisplayName,
			})
		}

		if approved {
			result.ApprovedSignatories++
		}
	}

	result.CanInvest = len(result.Blockers) == 0
	return result, nil
}

// MemberUserID resolves the portal user behind an entity member. KYC
// submissions reference entity_members rows, while notifications are keyed by
// user, so anything notifying a submission's member goes through here.
func MemberUserID(ctx context.Context, store Store, entityID, memberID primitive.ObjectID) (primitive.ObjectID, error) {
	members, err := store.EntityMembers(ctx, entityID)
	if err != nil {
		return primitive.NilObjectID, wrap(KindInternal, "failed to load entity members", err)
	}
	for _, m := range members {
		if m.ID == memberID {
			return m.UserID, nil
		}
	}
	return primitive.NilObjectID, E(KindNotFound, "entity member not found")
}

// authorizedSignatories picks the members whose approvals gate investment.
// Members flagged canSign win outright; the admin/owner fallback only kicks
// in when no member carries the flag, which covers entities created before
// signing authority was tracked explicitly.
func authorizedSignatories(members []models.EntityMember) []models.EntityMember {
	var canSign, adminOwner []models.EntityMember
	for _, m := range members {
		if m.CanSign {
			canSign = append(canSign, m)
		}
		if m.Role == "admin" || m.Role == "owner" {
			adminOwner = append(adminOwner, m)
		}
	}
	if len(canSign) > 0 {
		return canSign
	}
	return adminOwner
}
