package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/VersoHoldings/verso_backend/workflow"
)

// Constructors must accept a bare client and hold it; this also keeps every
// controller file honest about its mongo-driver imports.
func TestControllerConstructors(t *testing.T) {
	var client *mongo.Client

	nc := NewNotificationController(client)
	require.NotNil(t, nc)
	assert.Equal(t, client, nc.DB)

	assert.NotNil(t, NewAuthController(client))
	assert.NotNil(t, NewDispatchController(client))
	assert.NotNil(t, NewCommissionController(client, nil))
	assert.NotNil(t, NewEligibilityController(client))
	assert.NotNil(t, NewKycController(client, nil))
	assert.NotNil(t, NewReferralController(client))
}

func TestHTTPStatusForKind(t *testing.T) {
	cases := map[workflow.Kind]int{
		workflow.KindNotFound:          http.StatusNotFound,
		workflow.KindAlreadyDispatched: http.StatusConflict,
		workflow.KindIllegalTransition: http.StatusConflict,
		workflow.KindConflict:          http.StatusConflict,
		workflow.KindInvalidState:      http.StatusUnprocessableEntity,
		workflow.KindMismatch:          http.StatusUnprocessableEntity,
		workflow.KindOwnershipMismatch: http.StatusUnprocessableEntity,
		workflow.KindMissingAgreement:  http.StatusUnprocessableEntity,
		workflow.KindMissingLawyer:     http.StatusUnprocessableEntity,
		workflow.KindInternal:          http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, httpStatusForKind(kind), string(kind))
	}
}
