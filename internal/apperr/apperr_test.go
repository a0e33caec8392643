package apperr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"unauthorized", Unauthorized("nope"), http.StatusForbidden},
		{"last admin", New(CodeLastAdmin, "last"), http.StatusForbidden},
		{"not found", NotFound("team"), http.StatusNotFound},
		{"conflict", Conflict("retry"), http.StatusConflict},
		{"business rule", New(CodeDuplicateEvent, "dup"), http.StatusBadRequest},
		{"wrapped business rule", fmt.Errorf("assign: %w", New(CodeNoBudget, "none")), http.StatusBadRequest},
		{"infrastructure", fmt.Errorf("db down"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, HTTPStatus(tc.err))
		})
	}
}

func TestBudgetExceededCarriesAmounts(t *testing.T) {
	err := BudgetExceeded(decimal.NewFromInt(20), decimal.NewFromInt(30))

	e, ok := As(fmt.Errorf("wrapped: %w", err))
	require.True(t, ok)
	assert.Equal(t, CodeBudgetExceeded, e.Code)
	assert.True(t, e.Remaining.Equal(decimal.NewFromInt(20)))
	assert.True(t, e.Requested.Equal(decimal.NewFromInt(30)))
	assert.True(t, IsCode(err, CodeBudgetExceeded))
	assert.False(t, IsCode(err, CodeNoBudget))
}
