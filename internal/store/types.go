package store

import (
	"github.com/shrimpsizemoose/olympiad/internal/apperr"
	"github.com/shrimpsizemoose/olympiad/internal/models"
)

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
)

// ErrConflict is returned for unique violations and serialization failures.
// Clients are expected to re-submit.
var ErrConflict = apperr.Conflict("the record was changed concurrently, please retry")

// LedgerFilter scopes budget aggregation to a club and event, and to a single
// team when TeamID is set.
type LedgerFilter struct {
	ClubID  string
	EventID string
	TeamID  *string
}

type RequestFilter struct {
	ClubID      string
	Status      *models.RequestStatus
	RequesterID *string
}
