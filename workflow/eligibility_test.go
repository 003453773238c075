package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/VersoHoldings/verso_backend/models"
)

type eligibilityFixture struct {
	store    *memStore
	entityID primitive.ObjectID
}

// newEligibilityFixture seeds a fully eligible entity: approved KYC, one
// can_sign member with CEO approval and an approved submission.
func newEligibilityFixture() *eligibilityFixture {
	f := &eligibilityFixture{store: newMemStore(), entityID: primitive.NewObjectID()}
	f.store.entities[f.entityID] = &models.Entity{
		ID:        f.entityID,
		Type:      models.EntityTypeInvestor,
		LegalName: "Meridian Capital LLC",
		KycStatus: "approved",
	}
	f.addMember("Ana Duarte", "member", true, "approved", true)
	return f
}

func (f *eligibilityFixture) addMember(name, role string, canSign bool, ceoStatus string, kycApproved bool) models.EntityMember {
	m := models.EntityMember{
		ID:                primitive.NewObjectID(),
		EntityID:          f.entityID,
		UserID:            primitive.NewObjectID(),
		DisplayName:       name,
		Role:              role,
		CanSign:           canSign,
		CEOApprovalStatus: ceoStatus,
	}
	f.store.members[f.entityID] = append(f.store.members[f.entityID], m)
	f.store.kycApproved[m.ID] = kycApproved
	return m
}

func (f *eligibilityFixture) evaluate(t *testing.T) *models.EligibilityResult {
	t.Helper()
	result, err := EvaluateEntityEligibility(context.Background(), f.store, f.entityID)
	require.NoError(t, err)
	return result
}

func blockerKinds(result *models.EligibilityResult) []string {
	kinds := make([]string, 0, len(result.Blockers))
	for _, b := range result.Blockers {
		kinds = append(kinds, b.Kind)
	}
	return kinds
}

func TestEvaluateEntityEligibility(t *testing.T) {
	t.Run("fully approved entity can invest", func(t *testing.T) {
		f := newEligibilityFixture()
		result := f.evaluate(t)
		assert.True(t, result.CanInvest)
		assert.Empty(t, result.Blockers)
		assert.Equal(t, 1, result.TotalSignatories)
		assert.Equal(t, 1, result.ApprovedSignatories)
	})

	t.Run("entity kyc status is case insensitive", func(t *testing.T) {
		for _, status := range []string{"Approved", "COMPLETED", "verified"} {
			f := newEligibilityFixture()
			f.store.entities[f.entityID].KycStatus = status
			assert.True(t, f.evaluate(t).CanInvest, status)
		}
	})

	t.Run("entity kyc blocker does not short-circuit member checks", func(t *testing.T) {
		f := newEligibilityFixture()
		f.store.entities[f.entityID].KycStatus = "pending"
		f.store.members[f.entityID][0].CEOApprovalStatus = "pending"
		result := f.evaluate(t)
		assert.False(t, result.CanInvest)
		assert.ElementsMatch(t, []string{models.BlockerEntityKyc, models.BlockerMemberApproval}, blockerKinds(result))
	})

	t.Run("no members yields no-signatories blocker", func(t *testing.T) {
		f := newEligibilityFixture()
		f.store.members[f.entityID] = nil
		result := f.evaluate(t)
		assert.False(t, result.CanInvest)
		require.Len(t, result.Blockers, 1)
		assert.Equal(t, models.BlockerMemberApproval, result.Blockers[0].Kind)
		assert.Contains(t, result.Blockers[0].Message, "no authorized signatories")
		assert.Zero(t, result.TotalSignatories)
	})

	t.Run("can_sign members shadow admin fallback", func(t *testing.T) {
		f := newEligibilityFixture()
		// Unapproved admin without signing authority must be ignored because
		// an explicit signatory exists.
		f.addMember("Marc Olivier", "admin", false, "pending", false)
		result := f.evaluate(t)
		assert.True(t, result.CanInvest)
		assert.Equal(t, 1, result.TotalSignatories)
	})

	t.Run("falls back to admin and owner members", func(t *testing.T) {
		f := newEligibilityFixture()
		f.store.members[f.entityID] = nil
		f.addMember("Claire Fontaine", "owner", false, "approved", true)
		f.addMember("Leo Brandt", "member", false, "pending", false)
		result := f.evaluate(t)
		assert.True(t, result.CanInvest)
		assert.Equal(t, 1, result.TotalSignatories)
	})

	t.Run("pending ceo approval adds member_approval blocker", func(t *testing.T) {
		f := newEligibilityFixture()
		f.store.members[f.entityID][0].CEOApprovalStatus = "pending"
		result := f.evaluate(t)
		assert.False(t, result.CanInvest)
		require.Len(t, result.Blockers, 1)
		assert.Equal(t, models.BlockerMemberApproval, result.Blockers[0].Kind)
		assert.Equal(t, "Ana Duarte", result.Blockers[0].MemberName)
		assert.Zero(t, result.ApprovedSignatories)
	})

	t.Run("approved member without kyc submission adds single member_kyc blocker", func(t *testing.T) {
		f := newEligibilityFixture()
		member := f.store.members[f.entityID][0]
		f.store.kycApproved[member.ID] = false
		result := f.evaluate(t)
		assert.False(t, result.CanInvest)
		require.Len(t, result.Blockers, 1)
		assert.Equal(t, models.BlockerMemberKyc, result.Blockers[0].Kind)
		assert.Equal(t, member.DisplayName, result.Blockers[0].MemberName)
	})

	t.Run("each signatory failure is reported", func(t *testing.T) {
		f := newEligibilityFixture()
		f.addMember("Marc Olivier", "member", true, "pending", false)
		result := f.evaluate(t)
		assert.False(t, result.CanInvest)
		// Marc fails both independent checks, Ana passes both.
		assert.ElementsMatch(t, []string{models.BlockerMemberApproval, models.BlockerMemberKyc}, blockerKinds(result))
		assert.Equal(t, 2, result.TotalSignatories)
		assert.Equal(t, 1, result.ApprovedSignatories)
	})

	t.Run("missing entity", func(t *testing.T) {
		f := newEligibilityFixture()
		_, err := EvaluateEntityEligibility(context.Background(), f.store, primitive.NewObjectID())
		assert.Equal(t, KindNotFound, KindOf(err))
	})
}

func TestMemberUserID(t *testing.T) {
	t.Run("resolves the user behind a member", func(t *testing.T) {
		f := newEligibilityFixture()
		member := f.addMember("Luca Moretti", "member", false, "approved", true)

		userID, err := MemberUserID(context.Background(), f.store, f.entityID, member.ID)
		require.NoError(t, err)
		assert.Equal(t, member.UserID, userID)
		assert.NotEqual(t, member.ID, userID, "must return the user ID, not the member row ID")
	})

	t.Run("unknown member is not found", func(t *testing.T) {
		f := newEligibilityFixture()
		_, err := MemberUserID(context.Background(), f.store, f.entityID, primitive.NewObjectID())
		assert.Equal(t, KindNotFound, KindOf(err))
	})
}
