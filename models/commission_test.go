package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allCommissionStatuses = []CommissionStatus{
	CommissionAccrued,
	CommissionInvoiceRequested,
	CommissionInvoiceSubmitted,
	CommissionInvoiced,
	CommissionPaid,
	CommissionRejected,
	CommissionCancelled,
}

func TestCommissionTransitionTable(t *testing.T) {
	allowed := map[CommissionStatus][]CommissionStatus{
		CommissionAccrued:          {CommissionInvoiceRequested, CommissionCancelled},
		CommissionInvoiceRequested: {CommissionInvoiceSubmitted, CommissionCancelled},
		CommissionInvoiceSubmitted: {CommissionInvoiced, CommissionRejected},
		CommissionInvoiced:         {CommissionPaid, CommissionCancelled},
		CommissionRejected:         {CommissionInvoiceSubmitted, CommissionCancelled},
		CommissionPaid:             {},
		CommissionCancelled:        {},
	}

	for from, tos := range allowed {
		set := map[CommissionStatus]bool{from: true} // idempotent self-transition
		for _, to := range tos {
			set[to] = true
		}
		for _, to := range allCommissionStatuses {
			assert.Equal(t, set[to], from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

func TestCommissionStatusIdempotence(t *testing.T) {
	for _, s := range allCommissionStatuses {
		assert.True(t, s.CanTransition(s), "%s -> %s must be allowed", s, s)
	}
}

func TestCommissionTerminalStatuses(t *testing.T) {
	for _, terminal := range []CommissionStatus{CommissionPaid, CommissionCancelled} {
		assert.True(t, terminal.IsTerminal())
		for _, to := range allCommissionStatuses {
			if to == terminal {
				continue
			}
			assert.False(t, terminal.CanTransition(to), "%s -> %s must be rejected", terminal, to)
		}
	}
	assert.False(t, CommissionAccrued.IsTerminal())
}

func TestCommissionStatusIsValid(t *testing.T) {
	for _, s := range allCommissionStatuses {
		assert.True(t, s.IsValid())
	}
	assert.False(t, CommissionStatus("settled").IsValid())
	assert.False(t, CommissionStatus("").IsValid())
	assert.False(t, CommissionStatus("settled").CanTransition(CommissionStatus("settled")))
}
