package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/VersoHoldings/verso_backend/models"
)

type feePlanFixture struct {
	store       *memStore
	dealID      primitive.ObjectID
	termSheetID primitive.ObjectID
	entityID    primitive.ObjectID
	planID      primitive.ObjectID
}

// newFeePlanFixture seeds an accepted, active partner fee plan on a term
// sheet. Tests mutate one field at a time to isolate each rejection.
func newFeePlanFixture() *feePlanFixture {
	f := &feePlanFixture{
		store:       newMemStore(),
		dealID:      primitive.NewObjectID(),
		termSheetID: primitive.NewObjectID(),
		entityID:    primitive.NewObjectID(),
		planID:      primitive.NewObjectID(),
	}
	entityID := f.entityID
	f.store.feePlans[f.planID] = &models.FeePlan{
		ID:          f.planID,
		Name:        "Partner Standard",
		TermSheetID: f.termSheetID,
		EntityType:  models.EntityTypePartner,
		PartnerID:   &entityID,
		Status:      models.FeePlanAccepted,
		IsActive:    true,
	}
	return f
}

func (f *feePlanFixture) validate() (*FeePlanAssignment, error) {
	return ValidateFeePlanAssignment(context.Background(), f.store, f.dealID, f.planID, f.termSheetID, f.entityID, models.EntityTypePartner)
}

func TestValidateFeePlanAssignment(t *testing.T) {
	t.Run("accepted active matching plan passes", func(t *testing.T) {
		f := newFeePlanFixture()
		assignment, err := f.validate()
		require.NoError(t, err)
		require.NotNil(t, assignment.Plan)
		assert.Nil(t, assignment.Agreement)
	})

	t.Run("missing plan", func(t *testing.T) {
		f := newFeePlanFixture()
		f.planID = primitive.NewObjectID()
		_, err := f.validate()
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("plan not accepted", func(t *testing.T) {
		f := newFeePlanFixture()
		f.store.feePlans[f.planID].Status = models.FeePlanDraft
		_, err := f.validate()
		assert.Equal(t, KindInvalidState, KindOf(err))
		assert.Contains(t, err.Error(), "accepted")
	})

	t.Run("plan inactive", func(t *testing.T) {
		f := newFeePlanFixture()
		f.store.feePlans[f.planID].IsActive = false
		_, err := f.validate()
		assert.Equal(t, KindInvalidState, KindOf(err))
		assert.Contains(t, err.Error(), "inactive")
	})

	t.Run("term sheet mismatch", func(t *testing.T) {
		f := newFeePlanFixture()
		f.store.feePlans[f.planID].TermSheetID = primitive.NewObjectID()
		_, err := f.validate()
		assert.Equal(t, KindMismatch, KindOf(err))
	})

	t.Run("plan owned by another entity", func(t *testing.T) {
		f := newFeePlanFixture()
		other := primitive.NewObjectID()
		f.store.feePlans[f.planID].PartnerID = &other
		_, err := f.validate()
		assert.Equal(t, KindOwnershipMismatch, KindOf(err))
	})

	t.Run("entity type does not match plan type", func(t *testing.T) {
		f := newFeePlanFixture()
		_, err := ValidateFeePlanAssignment(context.Background(), f.store, f.dealID, f.planID, f.termSheetID, f.entityID, models.EntityTypeIntroducer)
		assert.Equal(t, KindOwnershipMismatch, KindOf(err))
	})
}

func TestValidateFeePlanAssignmentIntroducerAgreement(t *testing.T) {
	newIntroducerFixture := func() *feePlanFixture {
		f := newFeePlanFixture()
		plan := f.store.feePlans[f.planID]
		plan.EntityType = models.EntityTypeIntroducer
		entityID := f.entityID
		plan.PartnerID = nil
		plan.IntroducerID = &entityID
		return f
	}

	validate := func(f *feePlanFixture) (*FeePlanAssignment, error) {
		return ValidateFeePlanAssignment(context.Background(), f.store, f.dealID, f.planID, f.termSheetID, f.entityID, models.EntityTypeIntroducer)
	}

	t.Run("no agreement", func(t *testing.T) {
		f := newIntroducerFixture()
		_, err := validate(f)
		assert.Equal(t, KindMissingAgreement, KindOf(err))
	})

	t.Run("agreement not active", func(t *testing.T) {
		f := newIntroducerFixture()
		f.store.agreements = append(f.store.agreements, models.IntroducerAgreement{
			DealID: f.dealID, IntroducerID: f.entityID, FeePlanID: f.planID, Status: "terminated",
		})
		_, err := validate(f)
		assert.Equal(t, KindMissingAgreement, KindOf(err))
	})

	t.Run("agreement scoped to another deal", func(t *testing.T) {
		f := newIntroducerFixture()
		f.store.agreements = append(f.store.agreements, models.IntroducerAgreement{
			DealID: primitive.NewObjectID(), IntroducerID: f.entityID, FeePlanID: f.planID, Status: models.AgreementStatusActive,
		})
		_, err := validate(f)
		assert.Equal(t, KindMissingAgreement, KindOf(err))
	})

	t.Run("active agreement passes", func(t *testing.T) {
		f := newIntroducerFixture()
		f.store.agreements = append(f.store.agreements, models.IntroducerAgreement{
			DealID: f.dealID, IntroducerID: f.entityID, FeePlanID: f.planID, Status: models.AgreementStatusActive,
		})
		assignment, err := validate(f)
		require.NoError(t, err)
		require.NotNil(t, assignment.Agreement)
		assert.Equal(t, models.AgreementStatusActive, assignment.Agreement.Status)
	})
}
