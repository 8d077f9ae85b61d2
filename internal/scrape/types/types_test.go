package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"c2cscout/internal/domain"
)

func TestSettle(t *testing.T) {
	postings := []domain.JobPosting{{Company: "Acme", Title: "ML Engineer"}}

	r := Settle("Greenhouse", postings, 3, nil)
	assert.Equal(t, OutcomeOK, r.Outcome)

	r = Settle("Greenhouse", postings, 3, []string{"acme: status 502"})
	assert.Equal(t, OutcomePartial, r.Outcome)

	r = Settle("Greenhouse", nil, 2, []string{"a: timeout", "b: timeout"})
	assert.Equal(t, OutcomeFailed, r.Outcome)

	// zero work items is a clean no-op, not a failure
	r = Settle("Greenhouse", nil, 0, nil)
	assert.Equal(t, OutcomeOK, r.Outcome)
}
