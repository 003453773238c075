package controllers

import (
	"net/http"

	"github.com/VersoHoldings/verso_backend/workflow"
)

// httpStatusForKind maps workflow error kinds to HTTP status codes. The
// workflow package stays HTTP-agnostic; this is the only place the mapping
// lives.
func httpStatusForKind(kind workflow.Kind) int {
	switch kind {
	case workflow.KindNotFound:
		return http.StatusNotFound
	case workflow.KindAlreadyDispatched, workflow.KindIllegalTransition, workflow.KindConflict:
		return http.StatusConflict
	case workflow.KindInvalidState, workflow.KindMismatch, workflow.KindOwnershipMismatch,
		workflow.KindMissingAgreement, workflow.KindMissingLawyer:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
