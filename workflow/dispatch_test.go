package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/VersoHoldings/verso_backend/models"
)

type dispatchFixture struct {
	*feePlanFixture
	membershipID primitive.ObjectID
	userID       primitive.ObjectID
}

func newDispatchFixture() *dispatchFixture {
	f := &dispatchFixture{
		feePlanFixture: newFeePlanFixture(),
		membershipID:   primitive.NewObjectID(),
		userID:         primitive.NewObjectID(),
	}
	f.store.memberships[f.membershipID] = &models.DealMembership{
		ID:          f.membershipID,
		DealID:      f.dealID,
		UserID:      f.userID,
		TermSheetID: f.termSheetID,
		Role:        models.RoleInvestor,
	}
	return f
}

func (f *dispatchFixture) input() DispatchInput {
	return DispatchInput{
		DealID:     f.dealID,
		UserID:     f.userID,
		EntityID:   f.entityID,
		EntityType: models.EntityTypePartner,
		FeePlanID:  f.planID,
	}
}

func TestDispatchMembership(t *testing.T) {
	t.Run("derives role from entity type", func(t *testing.T) {
		f := newDispatchFixture()
		result, err := DispatchMembership(context.Background(), f.store, f.input())
		require.NoError(t, err)
		assert.Equal(t, models.RolePartnerInvestor, result.Role)
		assert.False(t, result.DispatchedAt.IsZero())

		m := f.store.memberships[f.membershipID]
		require.NotNil(t, m.ReferredByEntityID)
		assert.Equal(t, f.entityID, *m.ReferredByEntityID)
		assert.Equal(t, models.EntityTypePartner, m.ReferredByEntityType)
		require.NotNil(t, m.AssignedFeePlanID)
		assert.Equal(t, f.planID, *m.AssignedFeePlanID)
	})

	t.Run("caller supplied role wins", func(t *testing.T) {
		f := newDispatchFixture()
		in := f.input()
		in.Role = models.RoleInvestor
		result, err := DispatchMembership(context.Background(), f.store, in)
		require.NoError(t, err)
		assert.Equal(t, models.RoleInvestor, result.Role)
	})

	t.Run("unknown membership", func(t *testing.T) {
		f := newDispatchFixture()
		in := f.input()
		in.UserID = primitive.NewObjectID()
		_, err := DispatchMembership(context.Background(), f.store, in)
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("non-referring entity type", func(t *testing.T) {
		f := newDispatchFixture()
		in := f.input()
		in.EntityType = models.EntityTypeLawyer
		_, err := DispatchMembership(context.Background(), f.store, in)
		assert.Equal(t, KindInvalidState, KindOf(err))
	})

	t.Run("validator failure propagates unchanged", func(t *testing.T) {
		f := newDispatchFixture()
		f.store.feePlans[f.planID].TermSheetID = primitive.NewObjectID()
		_, err := DispatchMembership(context.Background(), f.store, f.input())
		assert.Equal(t, KindMismatch, KindOf(err))

		m := f.store.memberships[f.membershipID]
		assert.Nil(t, m.ReferredByEntityID)
		assert.Nil(t, m.DispatchedAt)
	})

	t.Run("second dispatch fails and leaves row unchanged", func(t *testing.T) {
		f := newDispatchFixture()
		first, err := DispatchMembership(context.Background(), f.store, f.input())
		require.NoError(t, err)

		other := primitive.NewObjectID()
		otherPlan := primitive.NewObjectID()
		in := f.input()
		in.EntityID = other
		in.FeePlanID = otherPlan
		_, err = DispatchMembership(context.Background(), f.store, in)
		assert.Equal(t, KindAlreadyDispatched, KindOf(err))

		m := f.store.memberships[f.membershipID]
		assert.Equal(t, f.entityID, *m.ReferredByEntityID)
		assert.Equal(t, f.planID, *m.AssignedFeePlanID)
		assert.Equal(t, first.DispatchedAt, *m.DispatchedAt)
	})

	t.Run("lost race surfaces as already dispatched", func(t *testing.T) {
		f := newDispatchFixture()
		raced := false
		f.store.beforeDispatch = func() {
			if raced {
				return
			}
			raced = true
			// A concurrent dispatch lands between our read and the guarded
			// write.
			other := primitive.NewObjectID()
			m := f.store.memberships[f.membershipID]
			m.ReferredByEntityID = &other
		}
		_, err := DispatchMembership(context.Background(), f.store, f.input())
		assert.Equal(t, KindAlreadyDispatched, KindOf(err))
	})
}
