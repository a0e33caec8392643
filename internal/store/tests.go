package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shrimpsizemoose/olympiad/internal/models"
)

const (
	testColumns     = `id, club_id, name, status, score_release_mode, release_scores_at, scores_released, created_at`
	esTestColumns   = `id, host_club_id, tournament_name, event_id, name, release_mode, release_at, released, created_at`
	questionColumns = `id, test_kind, test_id, ordinal, type, prompt, explanation, points, numeric_answer, numeric_tolerance`
	attemptColumns  = `id, test_kind, test_id, membership_id, status, grade_earned, proctoring_score,
		started_at, submitted_at, graded_at`
	answerColumns = `id, attempt_id, question_id, answer_text, selected_option_ids, numeric_answer, points_awarded, graded_at`
)

func (s *BaseStore) CreateTest(ctx context.Context, t *models.Test) error {
	return s.namedExec(ctx, "create test", `
		INSERT INTO tests (`+testColumns+`)
		VALUES (:id, :club_id, :name, :status, :score_release_mode, :release_scores_at, :scores_released, :created_at)
	`, t)
}

func (s *BaseStore) GetTest(ctx context.Context, id string) (*models.Test, error) {
	var t models.Test
	found, err := s.get(ctx, &t, "get test", `SELECT `+testColumns+` FROM tests WHERE id = ?`, id)
	if err != nil || !found {
		return nil, err
	}
	return &t, nil
}

func (s *BaseStore) UpdateTestRelease(ctx context.Context, t *models.Test) error {
	return s.namedExec(ctx, "update test release", `
		UPDATE tests
		SET score_release_mode = :score_release_mode,
			release_scores_at = :release_scores_at,
			scores_released = :scores_released
		WHERE id = :id
	`, t)
}

func (s *BaseStore) CreateESTest(ctx context.Context, t *models.ESTest) error {
	return s.namedExec(ctx, "create tournament test", `
		INSERT INTO es_tests (`+esTestColumns+`)
		VALUES (:id, :host_club_id, :tournament_name, :event_id, :name, :release_mode, :release_at, :released, :created_at)
	`, t)
}

func (s *BaseStore) GetESTest(ctx context.Context, id string) (*models.ESTest, error) {
	var t models.ESTest
	found, err := s.get(ctx, &t, "get tournament test", `SELECT `+esTestColumns+` FROM es_tests WHERE id = ?`, id)
	if err != nil || !found {
		return nil, err
	}
	return &t, nil
}

func (s *BaseStore) UpdateESTestRelease(ctx context.Context, t *models.ESTest) error {
	return s.namedExec(ctx, "update tournament test release", `
		UPDATE es_tests
		SET release_mode = :release_mode, release_at = :release_at, released = :released
		WHERE id = :id
	`, t)
}

func (s *BaseStore) CreateQuestion(ctx context.Context, q *models.Question) error {
	err := s.namedExec(ctx, "create question", `
		INSERT INTO questions (`+questionColumns+`)
		VALUES (:id, :test_kind, :test_id, :ordinal, :type, :prompt, :explanation, :points,
			:numeric_answer, :numeric_tolerance)
	`, q)
	if err != nil {
		return err
	}

	for i := range q.Options {
		q.Options[i].QuestionID = q.ID
		err := s.namedExec(ctx, "create question option", `
			INSERT INTO question_options (id, question_id, ordinal, label, is_correct)
			VALUES (:id, :question_id, :ordinal, :label, :is_correct)
		`, &q.Options[i])
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *BaseStore) ListQuestions(ctx context.Context, kind models.TestKind, testID string) ([]models.Question, error) {
	var questions []models.Question
	err := s.selectAll(ctx, &questions, "list questions", `
		SELECT `+questionColumns+`
		FROM questions
		WHERE test_kind = ? AND test_id = ?
		ORDER BY ordinal, id
	`, kind, testID)
	if err != nil {
		return nil, err
	}

	var options []models.QuestionOption
	err = s.selectAll(ctx, &options, "list question options", `
		SELECT o.id, o.question_id, o.ordinal, o.label, o.is_correct
		FROM question_options o
		JOIN questions q ON q.id = o.question_id
		WHERE q.test_kind = ? AND q.test_id = ?
		ORDER BY o.question_id, o.ordinal, o.id
	`, kind, testID)
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[string][]models.QuestionOption)
	for _, o := range options {
		byQuestion[o.QuestionID] = append(byQuestion[o.QuestionID], o)
	}
	for i := range questions {
		questions[i].Options = byQuestion[questions[i].ID]
	}
	return questions, nil
}

func (s *BaseStore) CreateAttempt(ctx context.Context, a *models.TestAttempt) error {
	return s.namedExec(ctx, "create attempt", `
		INSERT INTO test_attempts (`+attemptColumns+`)
		VALUES (:id, :test_kind, :test_id, :membership_id, :status, :grade_earned, :proctoring_score,
			:started_at, :submitted_at, :graded_at)
	`, a)
}

func (s *BaseStore) GetAttempt(ctx context.Context, id string) (*models.TestAttempt, error) {
	var a models.TestAttempt
	found, err := s.get(ctx, &a, "get attempt", `SELECT `+attemptColumns+` FROM test_attempts WHERE id = ?`, id)
	if err != nil || !found {
		return nil, err
	}
	return &a, nil
}

func (s *BaseStore) FindLatestAttempt(ctx context.Context, kind models.TestKind, testID, membershipID string) (*models.TestAttempt, error) {
	var a models.TestAttempt
	found, err := s.get(ctx, &a, "find attempt", `
		SELECT `+attemptColumns+`
		FROM test_attempts
		WHERE test_kind = ? AND test_id = ? AND membership_id = ?
		ORDER BY started_at DESC, id DESC
		LIMIT 1
	`, kind, testID, membershipID)
	if err != nil || !found {
		return nil, err
	}
	return &a, nil
}

func (s *BaseStore) UpdateAttempt(ctx context.Context, a *models.TestAttempt) error {
	return s.namedExec(ctx, "update attempt", `
		UPDATE test_attempts
		SET status = :status,
			grade_earned = :grade_earned,
			proctoring_score = :proctoring_score,
			submitted_at = :submitted_at,
			graded_at = :graded_at
		WHERE id = :id
	`, a)
}

func (s *BaseStore) ListAttemptAnswers(ctx context.Context, attemptID string) ([]models.AttemptAnswer, error) {
	var out []models.AttemptAnswer
	err := s.selectAll(ctx, &out, "list attempt answers", `
		SELECT a.id, a.attempt_id, a.question_id, a.answer_text, a.selected_option_ids, a.numeric_answer,
			a.points_awarded, a.graded_at
		FROM attempt_answers a
		JOIN questions q ON q.id = a.question_id
		WHERE a.attempt_id = ?
		ORDER BY q.ordinal, q.id
	`, attemptID)
	return out, err
}

// SaveAnswer inserts or replaces the answer to one question of an attempt.
// Replacing an answer clears any grade it had.
func (s *BaseStore) SaveAnswer(ctx context.Context, a *models.AttemptAnswer) error {
	return s.namedExec(ctx, "save answer", `
		INSERT INTO attempt_answers (`+answerColumns+`)
		VALUES (:id, :attempt_id, :question_id, :answer_text, :selected_option_ids, :numeric_answer,
			:points_awarded, :graded_at)
		ON CONFLICT (attempt_id, question_id) DO UPDATE SET
			answer_text = excluded.answer_text,
			selected_option_ids = excluded.selected_option_ids,
			numeric_answer = excluded.numeric_answer,
			points_awarded = NULL,
			graded_at = NULL
	`, a)
}

func (s *BaseStore) UpdateAnswerGrade(ctx context.Context, answerID string, points *decimal.Decimal, gradedAt *time.Time) error {
	if points == nil {
		return fmt.Errorf("failed to grade answer %s: no points given", answerID)
	}
	return s.exec(ctx, "grade answer", `
		UPDATE attempt_answers SET points_awarded = ?, graded_at = ? WHERE id = ?
	`, *points, gradedAt, answerID)
}
