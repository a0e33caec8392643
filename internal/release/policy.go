// Package release decides how much of a graded attempt its owner may see.
package release

import (
	"time"

	"github.com/shrimpsizemoose/olympiad/internal/models"
)

// Policy is the release configuration shared by every kind of test.
type Policy struct {
	Mode      models.ReleaseMode
	ReleaseAt *time.Time
	// Manual is the explicit release switch an admin flips.
	Manual bool
}

// Released reports whether scores are effectively released at now.
func (p Policy) Released(now time.Time) bool {
	if p.Manual {
		return true
	}
	return p.ReleaseAt != nil && !now.Before(*p.ReleaseAt)
}

// Releasable is anything carrying a release policy.
type Releasable interface {
	ReleasePolicy() Policy
}

// ClubTest adapts a club practice test.
type ClubTest struct {
	*models.Test
}

func (t ClubTest) ReleasePolicy() Policy {
	return Policy{
		Mode:      t.ScoreReleaseMode,
		ReleaseAt: t.ReleaseScoresAt,
		Manual:    t.ScoresReleased,
	}
}

// TournamentTest adapts a tournament test.
type TournamentTest struct {
	*models.ESTest
}

func (t TournamentTest) ReleasePolicy() Policy {
	return Policy{
		Mode:      t.ReleaseMode,
		ReleaseAt: t.ReleaseAt,
		Manual:    t.Released,
	}
}
