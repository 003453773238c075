package workflow

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/VersoHoldings/verso_backend/models"
)

// memStore is an in-memory Store used to exercise the workflow components
// without a database. The beforeDispatch/beforeUpdate hooks let tests race a
// concurrent writer against the guarded updates.
type memStore struct {
	feePlans    map[primitive.ObjectID]*models.FeePlan
	memberships map[primitive.ObjectID]*models.DealMembership
	commissions map[primitive.ObjectID]*models.Commission
	entities    map[primitive.ObjectID]*models.Entity
	agreements  []models.IntroducerAgreement
	members     map[primitive.ObjectID][]models.EntityMember
	kycApproved map[primitive.ObjectID]bool // keyed by member ID
	lawyers     map[primitive.ObjectID][]models.DealLawyer
	staff       map[string][]models.User

	updateCalls    int
	beforeDispatch func()
	beforeUpdate   func()
}

func newMemStore() *memStore {
	return &memStore{
		feePlans:    make(map[primitive.ObjectID]*models.FeePlan),
		memberships: make(map[primitive.ObjectID]*models.DealMembership),
		commissions: make(map[primitive.ObjectID]*models.Commission),
		entities:    make(map[primitive.ObjectID]*models.Entity),
		members:     make(map[primitive.ObjectID][]models.EntityMember),
		kycApproved: make(map[primitive.ObjectID]bool),
		lawyers:     make(map[primitive.ObjectID][]models.DealLawyer),
		staff:       make(map[string][]models.User),
	}
}

func (s *memStore) FeePlan(_ context.Context, id primitive.ObjectID) (*models.FeePlan, error) {
	if plan, ok := s.feePlans[id]; ok {
		cp := *plan
		return &cp, nil
	}
	return nil, ErrRowNotFound
}

func (s *memStore) Membership(_ context.Context, dealID, userID primitive.ObjectID) (*models.DealMembership, error) {
	for _, m := range s.memberships {
		if m.DealID == dealID && m.UserID == userID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, ErrRowNotFound
}

func (s *memStore) Commission(_ context.Context, id primitive.ObjectID) (*models.Commission, error) {
	if c, ok := s.commissions[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, ErrRowNotFound
}

func (s *memStore) Entity(_ context.Context, id primitive.ObjectID) (*models.Entity, error) {
	if e, ok := s.entities[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, ErrRowNotFound
}

func (s *memStore) ActiveIntroducerAgreement(_ context.Context, dealID, introducerID, feePlanID primitive.ObjectID) (*models.IntroducerAgreement, error) {
	for _, a := range s.agreements {
		if a.DealID == dealID && a.IntroducerID == introducerID && a.FeePlanID == feePlanID && a.Status == models.AgreementStatusActive {
			cp := a
			return &cp, nil
		}
	}
	return nil, ErrRowNotFound
}

func (s *memStore) EntityMembers(_ context.Context, entityID primitive.ObjectID) ([]models.EntityMember, error) {
	return s.members[entityID], nil
}

func (s *memStore) HasApprovedKycSubmission(_ context.Context, _, memberID primitive.ObjectID) (bool, error) {
	return s.kycApproved[memberID], nil
}

func (s *memStore) DealLawyers(_ context.Context, dealID primitive.ObjectID) ([]models.DealLawyer, error) {
	return s.lawyers[dealID], nil
}

func (s *memStore) StaffByRole(_ context.Context, role string) ([]models.User, error) {
	return s.staff[role], nil
}

func (s *memStore) DispatchMembership(_ context.Context, membershipID primitive.ObjectID, upd DispatchUpdate) error {
	if s.beforeDispatch != nil {
		s.beforeDispatch()
	}
	m, ok := s.memberships[membershipID]
	if !ok || m.ReferredByEntityID != nil {
		return ErrConditionFailed
	}
	entityID := upd.ReferredByEntityID
	feePlanID := upd.AssignedFeePlanID
	dispatchedAt := upd.DispatchedAt
	m.ReferredByEntityID = &entityID
	m.ReferredByEntityType = upd.ReferredByEntityType
	m.AssignedFeePlanID = &feePlanID
	m.Role = upd.Role
	m.DispatchedAt = &dispatchedAt
	m.UpdatedAt = dispatchedAt
	return nil
}

func (s *memStore) UpdateCommissionStatus(_ context.Context, id primitive.ObjectID, expected, next models.CommissionStatus, paidAt *time.Time) (*models.Commission, error) {
	if s.beforeUpdate != nil {
		s.beforeUpdate()
	}
	s.updateCalls++
	c, ok := s.commissions[id]
	if !ok || c.Status != expected {
		return nil, ErrConditionFailed
	}
	c.Status = next
	if paidAt != nil {
		c.PaidAt = paidAt
	}
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

// recordingNotifier captures sends and can be told to fail for given users.
type recordingNotifier struct {
	sent    []primitive.ObjectID
	types   []string
	failFor map[primitive.ObjectID]bool
}

func (n *recordingNotifier) Notify(_ context.Context, userID primitive.ObjectID, _, _, _, notifType string) error {
	if n.failFor[userID] {
		return errors.New("send failed")
	}
	n.sent = append(n.sent, userID)
	n.types = append(n.types, notifType)
	return nil
}

// recordingAudit captures appended entries.
type recordingAudit struct {
	entries []models.AuditLog
	err     error
}

func (a *recordingAudit) Append(_ context.Context, entry models.AuditLog) error {
	if a.err != nil {
		return a.err
	}
	a.entries = append(a.entries, entry)
	return nil
}
