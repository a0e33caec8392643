package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/olympiad/internal/apperr"
)

func TestValidate(t *testing.T) {
	t.Run("valid purchase request", func(t *testing.T) {
		req := CreatePurchaseRequest{
			ClubID:          "club-1",
			Description:     "goggles",
			EstimatedAmount: decimal.RequireFromString("12.50"),
		}
		assert.NoError(t, Validate(req))
	})

	t.Run("negative amount is rejected by field", func(t *testing.T) {
		req := CreatePurchaseRequest{
			ClubID:          "club-1",
			Description:     "goggles",
			EstimatedAmount: decimal.NewFromInt(-1),
		}
		err := Validate(req)
		e, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.CodeValidation, e.Code)
		require.Len(t, e.Fields, 1)
		assert.Equal(t, "estimatedAmount", e.Fields[0].Field)
		assert.Equal(t, "gte", e.Fields[0].Rule)
	})

	t.Run("every failing field is listed", func(t *testing.T) {
		err := Validate(CreateExpenseRequest{Amount: decimal.NewFromInt(-5)})
		e, ok := apperr.As(err)
		require.True(t, ok)

		var fields []string
		for _, f := range e.Fields {
			fields = append(fields, f.Field)
		}
		assert.ElementsMatch(t, []string{"clubId", "description", "amount", "date"}, fields)
	})

	t.Run("release mode enum", func(t *testing.T) {
		assert.NoError(t, Validate(ReleaseConfigRequest{Mode: ReleaseScoreWithWrong}))
		assert.Error(t, Validate(ReleaseConfigRequest{Mode: "EVERYTHING"}))
	})

	t.Run("optional actual amount", func(t *testing.T) {
		neg := decimal.NewFromInt(-3)
		assert.NoError(t, Validate(ReviewPurchaseRequest{Status: StatusApproved}))
		assert.Error(t, Validate(ReviewPurchaseRequest{Status: StatusApproved, ActualAmount: &neg}))
		assert.Error(t, Validate(ReviewPurchaseRequest{Status: StatusPending}))
	})

	t.Run("sub roles", func(t *testing.T) {
		assert.NoError(t, Validate(SetSubRolesRequest{SubRoles: []SubRole{SubRoleCoach, SubRoleCaptain}}))
		assert.Error(t, Validate(SetSubRolesRequest{SubRoles: []SubRole{"PRESIDENT"}}))
	})

	t.Run("expense date set", func(t *testing.T) {
		req := CreateExpenseRequest{
			ClubID:      "club-1",
			Description: "bus",
			Amount:      decimal.NewFromInt(100),
			Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		}
		assert.NoError(t, Validate(req))
	})
}

func TestListColumns(t *testing.T) {
	var ids IDList
	require.NoError(t, ids.Scan("a,b,c"))
	assert.Equal(t, IDList{"a", "b", "c"}, ids)
	assert.True(t, ids.Contains("b"))

	require.NoError(t, ids.Scan([]byte("")))
	assert.Empty(t, ids)

	v, err := IDList{"x", "y"}.Value()
	require.NoError(t, err)
	assert.Equal(t, "x,y", v)

	var roles SubRoles
	require.NoError(t, roles.Scan("COACH,CAPTAIN"))
	assert.Equal(t, SubRoles{SubRoleCoach, SubRoleCaptain}, roles)
}
