package grading

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/olympiad/internal/apperr"
	"github.com/shrimpsizemoose/olympiad/internal/membership"
	"github.com/shrimpsizemoose/olympiad/internal/metrics"
	"github.com/shrimpsizemoose/olympiad/internal/models"
	"github.com/shrimpsizemoose/olympiad/internal/release"
	"github.com/shrimpsizemoose/olympiad/internal/store"
)

type Service struct {
	Store  store.Store
	Grader *Grader
	Now    func() time.Time
}

func NewService(s store.Store, g *Grader) *Service {
	return &Service{
		Store:  s,
		Grader: g,
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

// testRef is a loaded test of either kind.
type testRef struct {
	kind    models.TestKind
	id      string
	clubID  string
	release release.Releasable
}

func loadTest(ctx context.Context, q store.Querier, kind models.TestKind, testID string) (*testRef, error) {
	switch kind {
	case models.KindClub:
		t, err := q.GetTest(ctx, testID)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, apperr.NotFound("test")
		}
		return &testRef{kind: kind, id: t.ID, clubID: t.ClubID, release: release.ClubTest{Test: t}}, nil
	case models.KindTournament:
		t, err := q.GetESTest(ctx, testID)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, apperr.NotFound("test")
		}
		return &testRef{kind: kind, id: t.ID, clubID: t.HostClubID, release: release.TournamentTest{ESTest: t}}, nil
	}
	return nil, apperr.Newf(apperr.CodeValidation, "unknown test kind %q", kind)
}

func (s *Service) CreateTest(ctx context.Context, userID, clubID string, req models.CreateTestRequest) (*models.Test, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	if req.ScoreReleaseMode == "" {
		req.ScoreReleaseMode = models.ReleaseFullTest
	}

	t := &models.Test{
		ID:               uuid.NewString(),
		ClubID:           clubID,
		Name:             req.Name,
		Status:           "PUBLISHED",
		ScoreReleaseMode: req.ScoreReleaseMode,
		ReleaseScoresAt:  req.ReleaseScoresAt,
		CreatedAt:        s.Now(),
	}
	err := s.Store.WithTx(ctx, func(q store.Querier) error {
		if _, err := membership.NewResolver(q).RequireAdmin(ctx, userID, clubID); err != nil {
			return err
		}
		return q.CreateTest(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) CreateESTest(ctx context.Context, userID, hostClubID string, req models.CreateESTestRequest) (*models.ESTest, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	if req.ReleaseMode == "" {
		req.ReleaseMode = models.ReleaseScoreOnly
	}

	t := &models.ESTest{
		ID:             uuid.NewString(),
		HostClubID:     hostClubID,
		TournamentName: req.TournamentName,
		EventID:        req.EventID,
		Name:           req.Name,
		ReleaseMode:    req.ReleaseMode,
		ReleaseAt:      req.ReleaseAt,
		CreatedAt:      s.Now(),
	}
	err := s.Store.WithTx(ctx, func(q store.Querier) error {
		if _, err := membership.NewResolver(q).RequireAdmin(ctx, userID, hostClubID); err != nil {
			return err
		}
		event, err := q.GetEvent(ctx, req.EventID)
		if err != nil {
			return err
		}
		if event == nil {
			return apperr.NotFound("event")
		}
		return q.CreateESTest(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) AddQuestion(ctx context.Context, userID string, kind models.TestKind, testID string, req models.CreateQuestionRequest) (*models.Question, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	q := &models.Question{
		ID:               uuid.NewString(),
		TestKind:         kind,
		TestID:           testID,
		Type:             req.Type,
		Prompt:           req.Prompt,
		Explanation:      req.Explanation,
		Points:           req.Points,
		NumericAnswer:    req.NumericAnswer,
		NumericTolerance: req.NumericTolerance,
	}
	correct := 0
	for i, o := range req.Options {
		q.Options = append(q.Options, models.QuestionOption{
			ID: uuid.NewString(), Ordinal: i + 1, Label: o.Label, IsCorrect: o.IsCorrect,
		})
		if o.IsCorrect {
			correct++
		}
	}
	switch {
	case q.Type == models.QuestionSingleChoice && correct != 1:
		return nil, apperr.New(apperr.CodeValidation, "single choice questions need exactly one correct option")
	case q.Type == models.QuestionMultiChoice && correct == 0:
		return nil, apperr.New(apperr.CodeValidation, "multiple choice questions need a correct option")
	}

	err := s.Store.WithTx(ctx, func(tx store.Querier) error {
		ref, err := loadTest(ctx, tx, kind, testID)
		if err != nil {
			return err
		}
		if _, err := membership.NewResolver(tx).RequireAdmin(ctx, userID, ref.clubID); err != nil {
			return err
		}
		existing, err := tx.ListQuestions(ctx, kind, testID)
		if err != nil {
			return err
		}
		q.Ordinal = len(existing) + 1
		return tx.CreateQuestion(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

// StartAttempt resumes the caller's open attempt or starts a new one.
func (s *Service) StartAttempt(ctx context.Context, userID string, kind models.TestKind, testID string, req models.StartAttemptRequest) (*models.TestAttempt, error) {
	var out *models.TestAttempt
	err := s.Store.WithTx(ctx, func(q store.Querier) error {
		ref, err := loadTest(ctx, q, kind, testID)
		if err != nil {
			return err
		}

		clubID := req.ClubID
		if kind == models.KindClub {
			if clubID != "" && clubID != ref.clubID {
				return apperr.New(apperr.CodeClubMismatch, "club tests are taken by their own club")
			}
			clubID = ref.clubID
		}
		if clubID == "" {
			return apperr.New(apperr.CodeValidation, "clubId is required for tournament tests")
		}
		m, err := membership.NewResolver(q).RequireMember(ctx, userID, clubID)
		if err != nil {
			return err
		}

		latest, err := q.FindLatestAttempt(ctx, kind, testID, m.ID)
		if err != nil {
			return err
		}
		if latest != nil {
			if latest.Status != models.AttemptInProgress {
				return apperr.New(apperr.CodeInvalidTransition, "test already submitted")
			}
			out = latest
			return nil
		}

		out = &models.TestAttempt{
			ID:           uuid.NewString(),
			TestKind:     kind,
			TestID:       testID,
			MembershipID: m.ID,
			Status:       models.AttemptInProgress,
			StartedAt:    s.Now(),
		}
		return q.CreateAttempt(ctx, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ownAttempt loads an attempt and checks that userID owns it.
func ownAttempt(ctx context.Context, q store.Querier, userID, attemptID string) (*models.TestAttempt, error) {
	if err := membership.RequireIdentity(userID); err != nil {
		return nil, err
	}
	a, err := q.GetAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, membership.Inaccessible("attempt")
	}
	owner, err := q.GetMembershipByID(ctx, a.MembershipID)
	if err != nil {
		return nil, err
	}
	if owner == nil || owner.UserID != userID {
		return nil, membership.Inaccessible("attempt")
	}
	return a, nil
}

// SaveAnswer records the owner's answer while the attempt is open.
func (s *Service) SaveAnswer(ctx context.Context, userID, attemptID string, req models.SaveAnswerRequest) (*models.AttemptAnswer, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	var out *models.AttemptAnswer
	err := s.Store.WithTx(ctx, func(q store.Querier) error {
		a, err := ownAttempt(ctx, q, userID, attemptID)
		if err != nil {
			return err
		}
		if a.Status != models.AttemptInProgress {
			return apperr.New(apperr.CodeInvalidTransition, "attempt is no longer open")
		}

		questions, err := q.ListQuestions(ctx, a.TestKind, a.TestID)
		if err != nil {
			return err
		}
		question := findQuestion(questions, req.QuestionID)
		if question == nil {
			return apperr.NotFound("question")
		}
		for _, id := range req.SelectedOptionIDs {
			if !hasOption(question, id) {
				return apperr.Newf(apperr.CodeValidation, "option %s is not part of the question", id)
			}
		}

		existing, err := q.ListAttemptAnswers(ctx, a.ID)
		if err != nil {
			return err
		}
		out = &models.AttemptAnswer{
			ID:                uuid.NewString(),
			AttemptID:         a.ID,
			QuestionID:        question.ID,
			AnswerText:        req.AnswerText,
			SelectedOptionIDs: models.IDList(req.SelectedOptionIDs),
			NumericAnswer:     req.NumericAnswer,
		}
		for _, e := range existing {
			if e.QuestionID == question.ID {
				out.ID = e.ID
			}
		}
		return q.SaveAnswer(ctx, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) SubmitAttempt(ctx context.Context, userID, attemptID string) (*models.TestAttempt, error) {
	var out *models.TestAttempt
	err := s.Store.WithTx(ctx, func(q store.Querier) error {
		a, err := ownAttempt(ctx, q, userID, attemptID)
		if err != nil {
			return err
		}
		if a.Status != models.AttemptInProgress {
			return apperr.New(apperr.CodeInvalidTransition, "attempt already submitted")
		}
		now := s.Now()
		a.Status = models.AttemptSubmitted
		a.SubmittedAt = &now
		out = a
		return q.UpdateAttempt(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GradeAttempt auto-grades objective answers, applies manual points and
// recomputes the total. The attempt becomes GRADED once every answer has
// points.
func (s *Service) GradeAttempt(ctx context.Context, userID, attemptID string, req models.GradeAttemptRequest) (*release.AttemptView, error) {
	return s.grade(ctx, userID, nil, attemptID, req)
}

// GradeTestAttempt grades an attempt addressed through its test. An attempt
// at a different test is reported as missing.
func (s *Service) GradeTestAttempt(ctx context.Context, userID string, kind models.TestKind, testID, attemptID string, req models.GradeAttemptRequest) (*release.AttemptView, error) {
	return s.grade(ctx, userID, &testKey{kind: kind, id: testID}, attemptID, req)
}

type testKey struct {
	kind models.TestKind
	id   string
}

func (s *Service) grade(ctx context.Context, userID string, key *testKey, attemptID string, req models.GradeAttemptRequest) (*release.AttemptView, error) {
	if err := membership.RequireIdentity(userID); err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	var view release.AttemptView
	err := s.Store.WithTx(ctx, func(q store.Querier) error {
		a, err := q.GetAttempt(ctx, attemptID)
		if err != nil {
			return err
		}
		if a == nil {
			return membership.Inaccessible("attempt")
		}
		ref, err := loadTest(ctx, q, a.TestKind, a.TestID)
		if err != nil {
			return err
		}
		if _, err := membership.NewResolver(q).RequireAdmin(ctx, userID, ref.clubID); err != nil {
			return membership.Hide("attempt", err)
		}
		if key != nil && (a.TestKind != key.kind || a.TestID != key.id) {
			return apperr.NotFound("attempt")
		}
		if a.Status == models.AttemptInProgress {
			return apperr.New(apperr.CodeInvalidTransition, "attempt has not been submitted")
		}

		questions, err := q.ListQuestions(ctx, a.TestKind, a.TestID)
		if err != nil {
			return err
		}
		answers, err := q.ListAttemptAnswers(ctx, a.ID)
		if err != nil {
			return err
		}

		manual := make(map[string]decimal.Decimal, len(req.Grades))
		for _, g := range req.Grades {
			manual[g.AnswerID] = g.PointsAwarded
		}

		now := s.Now()
		total := decimal.Zero
		complete := true
		for i := range answers {
			ans := &answers[i]
			question := findQuestion(questions, ans.QuestionID)
			if question == nil {
				continue
			}

			points, regraded := manual[ans.ID]
			delete(manual, ans.ID)
			if regraded && points.GreaterThan(question.Points) {
				return apperr.Newf(apperr.CodeValidation, "answer %s: %s exceeds the question's %s points",
					ans.ID, points.String(), question.Points.String())
			}

			// points already awarded stand until the answer is regraded by hand
			// or changed by its owner, which clears them
			switch {
			case regraded:
			case ans.PointsAwarded != nil:
				total = total.Add(*ans.PointsAwarded)
				continue
			default:
				var ok bool
				if points, ok = s.Grader.AutoGrade(*question, *ans); !ok {
					complete = false
					continue
				}
			}

			if err := q.UpdateAnswerGrade(ctx, ans.ID, &points, &now); err != nil {
				return err
			}
			ans.PointsAwarded = &points
			ans.GradedAt = &now
			total = total.Add(points)
		}
		for _, g := range req.Grades {
			if _, unused := manual[g.AnswerID]; unused {
				return apperr.Newf(apperr.CodeNotFound, "answer %s not found on this attempt", g.AnswerID)
			}
		}

		a.GradeEarned = &total
		if req.ProctoringScore != nil {
			a.ProctoringScore = req.ProctoringScore
		}
		if complete {
			a.Status = models.AttemptGraded
			a.GradedAt = &now
		}
		if err := q.UpdateAttempt(ctx, a); err != nil {
			return err
		}

		if complete {
			f, _ := total.Float64()
			metrics.GradeEarnedHistogram.WithLabelValues(string(a.TestKind)).Observe(f)
		}
		view = release.BuildView(a, questions, answers)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// SetReleaseConfig updates the release policy of either kind of test.
func (s *Service) SetReleaseConfig(ctx context.Context, userID string, kind models.TestKind, testID string, req models.ReleaseConfigRequest) (release.Policy, error) {
	if err := models.Validate(req); err != nil {
		return release.Policy{}, err
	}

	var out release.Policy
	err := s.Store.WithTx(ctx, func(q store.Querier) error {
		ref, err := loadTest(ctx, q, kind, testID)
		if err != nil {
			return err
		}
		if _, err := membership.NewResolver(q).RequireAdmin(ctx, userID, ref.clubID); err != nil {
			return err
		}

		switch t := ref.release.(type) {
		case release.ClubTest:
			t.ScoreReleaseMode = req.Mode
			t.ReleaseScoresAt = req.ReleaseScoresAt
			t.ScoresReleased = req.ScoresReleased
			out = t.ReleasePolicy()
			return q.UpdateTestRelease(ctx, t.Test)
		case release.TournamentTest:
			t.ReleaseMode = req.Mode
			t.ReleaseAt = req.ReleaseScoresAt
			t.Released = req.ScoresReleased
			out = t.ReleasePolicy()
			return q.UpdateESTestRelease(ctx, t.ESTest)
		}
		return nil
	})
	return out, err
}

// MyResults returns the caller's latest attempt at a test through the
// release filter.
func (s *Service) MyResults(ctx context.Context, userID string, kind models.TestKind, testID string) (*release.AttemptView, error) {
	if userID == "" {
		return nil, apperr.Unauthorized("authentication required")
	}
	ref, err := loadTest(ctx, s.Store, kind, testID)
	if err != nil {
		return nil, err
	}

	memberships, err := s.Store.ListUserMemberships(ctx, userID)
	if err != nil {
		return nil, err
	}
	var latest *models.TestAttempt
	for _, m := range memberships {
		a, err := s.Store.FindLatestAttempt(ctx, kind, testID, m.ID)
		if err != nil {
			return nil, err
		}
		if a != nil && (latest == nil || a.StartedAt.After(latest.StartedAt)) {
			latest = a
		}
	}
	if latest == nil {
		return nil, apperr.NotFound("attempt")
	}

	return s.results(ctx, userID, ref, latest)
}

// AttemptResults serves one attempt to its owner or to an admin of the club
// that owns the test, through the same filter as MyResults.
func (s *Service) AttemptResults(ctx context.Context, userID, attemptID string) (*release.AttemptView, error) {
	if err := membership.RequireIdentity(userID); err != nil {
		return nil, err
	}
	a, err := s.Store.GetAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, membership.Inaccessible("attempt")
	}
	ref, err := loadTest(ctx, s.Store, a.TestKind, a.TestID)
	if err != nil {
		return nil, err
	}

	owner, err := s.Store.GetMembershipByID(ctx, a.MembershipID)
	if err != nil {
		return nil, err
	}
	if owner == nil || owner.UserID != userID {
		if _, err := membership.NewResolver(s.Store).RequireAdmin(ctx, userID, ref.clubID); err != nil {
			return nil, membership.Hide("attempt", err)
		}
	}
	return s.results(ctx, userID, ref, a)
}

func (s *Service) results(ctx context.Context, userID string, ref *testRef, a *models.TestAttempt) (*release.AttemptView, error) {
	isAdmin, err := membership.NewResolver(s.Store).IsAdmin(ctx, userID, ref.clubID)
	if err != nil {
		return nil, err
	}

	questions, err := s.Store.ListQuestions(ctx, ref.kind, ref.id)
	if err != nil {
		return nil, err
	}
	answers, err := s.Store.ListAttemptAnswers(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	p := ref.release.ReleasePolicy()
	released := isAdmin || release.Visible(p, a.Status, now)
	metrics.ReleaseFilterReadsTotal.WithLabelValues(string(p.Mode), strconv.FormatBool(released)).Inc()
	logger.Debug.Printf("Serving attempt %s (mode=%s released=%t admin=%t)", a.ID, p.Mode, released, isAdmin)

	view := release.FilterAttempt(release.BuildView(a, questions, answers), ref.release, isAdmin, now)
	return &view, nil
}

func findQuestion(questions []models.Question, id string) *models.Question {
	for i := range questions {
		if questions[i].ID == id {
			return &questions[i]
		}
	}
	return nil
}

func hasOption(q *models.Question, optionID string) bool {
	for _, o := range q.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}
