package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/VersoHoldings/verso_backend/config"
	"github.com/VersoHoldings/verso_backend/models"
	"github.com/VersoHoldings/verso_backend/workflow"
)

// WorkflowStore implements workflow.Store on MongoDB. Conditional updates
// use filtered UpdateOne/FindOneAndUpdate calls so the guard and the write
// are a single atomic operation.
type WorkflowStore struct {
	db *mongo.Client
}

func NewWorkflowStore(db *mongo.Client) *WorkflowStore {
	return &WorkflowStore{db: db}
}

func (s *WorkflowStore) collection(name string) *mongo.Collection {
	return config.GetCollection(s.db, name)
}

func (s *WorkflowStore) FeePlan(ctx context.Context, id primitive.ObjectID) (*models.FeePlan, error) {
	var plan models.FeePlan
	err := s.collection("fee_plans").FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		return nil, mapNoDocuments(err)
	}
	return &plan, nil
}

func (s *WorkflowStore) Membership(ctx context.Context, dealID, userID primitive.ObjectID) (*models.DealMembership, error) {
	var membership models.DealMembership
	err := s.collection("deal_memberships").FindOne(ctx, bson.M{
		"dealId": dealID,
		"userId": userID,
	}).Decode(&membership)
	if err != nil {
		return nil, mapNoDocuments(err)
	}
	return &membership, nil
}

func (s *WorkflowStore) Commission(ctx context.Context, id primitive.ObjectID) (*models.Commission, error) {
	var commission models.Commission
	err := s.collection("commissions").FindOne(ctx, bson.M{"_id": id}).Decode(&commission)
	if err != nil {
		return nil, mapNoDocuments(err)
	}
	return &commission, nil
}

func (s *WorkflowStore) Entity(ctx context.Context, id primitive.ObjectID) (*models.Entity, error) {
	var entity models.Entity
	err := s.collection("entities").FindOne(ctx, bson.M{"_id": id}).Decode(&entity)
	if err != nil {
		return nil, mapNoDocuments(err)
	}
	return &entity, nil
}

func (s *WorkflowStore) ActiveIntroducerAgreement(ctx context.Context, dealID, introducerID, feePlanID primitive.ObjectID) (*models.IntroducerAgreement, error) {
	var agreement models.IntroducerAgreement
	err := s.collection("introducer_agreements").FindOne(ctx, bson.M{
		"dealId":       dealID,
		"introducerId": introducerID,
		"feePlanId":    feePlanID,
		"status":       models.AgreementStatusActive,
	}).Decode(&agreement)
	if err != nil {
		return nil, mapNoDocuments(err)
	}
	return &agreement, nil
}

func (s *WorkflowStore) EntityMembers(ctx context.Context, entityID primitive.ObjectID) ([]models.EntityMember, error) {
	cursor, err := s.collection("entity_members").Find(ctx, bson.M{"entityId": entityID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var members []models.EntityMember
	if err := cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (s *WorkflowStore) HasApprovedKycSubmission(ctx context.Context, entityID, memberID primitive.ObjectID) (bool, error) {
	count, err := s.collection("kyc_submissions").CountDocuments(ctx, bson.M{
		"entityId": entityID,
		"memberId": memberID,
		"status":   models.KycApproved,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *WorkflowStore) DealLawyers(ctx context.Context, dealID primitive.ObjectID) ([]models.DealLawyer, error) {
	cursor, err := s.collection("deal_lawyers").Find(ctx, bson.M{"dealId": dealID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var lawyers []models.DealLawyer
	if err := cursor.All(ctx, &lawyers); err != nil {
		return nil, err
	}
	return lawyers, nil
}

func (s *WorkflowStore) StaffByRole(ctx context.Context, role string) ([]models.User, error) {
	cursor, err := s.collection("users").Find(ctx, bson.M{
		"userType": models.UserTypeStaff,
		"role":     role,
		"isActive": true,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var staff []models.User
	if err := cursor.All(ctx, &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// DispatchMembership performs the guarded dispatch write. The filter on a
// null referredByEntityId makes re-dispatch impossible even under concurrent
// requests.
func (s *WorkflowStore) DispatchMembership(ctx context.Context, membershipID primitive.ObjectID, upd workflow.DispatchUpdate) error {
	result, err := s.collection("deal_memberships").UpdateOne(ctx,
		bson.M{
			"_id":                membershipID,
			"referredByEntityId": nil,
		},
		bson.M{
			"$set": bson.M{
				"referredByEntityId":   upd.ReferredByEntityID,
				"referredByEntityType": upd.ReferredByEntityType,
				"assignedFeePlanId":    upd.AssignedFeePlanID,
				"role":                 upd.Role,
				"dispatchedAt":         upd.DispatchedAt,
				"updatedAt":            time.Now(),
			},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return workflow.ErrConditionFailed
	}
	return nil
}

// UpdateCommissionStatus is the optimistic-locking write for commissions:
// the filter carries the status the caller read, so a lost race matches
// nothing instead of clobbering another transition.
func (s *WorkflowStore) UpdateCommissionStatus(ctx context.Context, id primitive.ObjectID, expected, next models.CommissionStatus, paidAt *time.Time) (*models.Commission, error) {
	set := bson.M{
		"status":    next,
		"updatedAt": time.Now(),
	}
	if paidAt != nil {
		set["paidAt"] = paidAt
	}

	var updated models.Commission
	err := s.collection("commissions").FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": expected},
		bson.M{"$set": set},
		mongoReturnUpdated(),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, workflow.ErrConditionFailed
		}
		return nil, err
	}
	return &updated, nil
}

// ReviewKycSubmission applies a review outcome only while the submission
// still holds the status the reviewer saw.
func (s *WorkflowStore) ReviewKycSubmission(ctx context.Context, id primitive.ObjectID, expected, next models.KycStatus, reviewerID primitive.ObjectID, note string) (*models.KycSubmission, error) {
	now := time.Now()
	var updated models.KycSubmission
	err := s.collection("kyc_submissions").FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": expected},
		bson.M{"$set": bson.M{
			"status":     next,
			"reviewedAt": now,
			"reviewerId": reviewerID,
			"reviewNote": note,
		}},
		mongoReturnUpdated(),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, workflow.ErrConditionFailed
		}
		return nil, err
	}
	return &updated, nil
}

func mongoReturnUpdated() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

func mapNoDocuments(err error) error {
	if err == mongo.ErrNoDocuments {
		return workflow.ErrRowNotFound
	}
	return err
}
