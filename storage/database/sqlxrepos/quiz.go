package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/quiz"
)

type quizRepository struct {
	exec core.DBExecutor
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(exec core.DBExecutor) *quizRepository {
	return &quizRepository{exec: exec}
}

type (
	sessionRow struct {
		ID          string         `db:"id"`
		UserID      string         `db:"user_id"`
		QuestionIDs pq.StringArray `db:"question_ids"`
		CreatedAt   null.Time      `db:"created_at"`
	}

	resultRow struct {
		ID         string      `db:"id"`
		SessionID  string      `db:"session_id"`
		QuestionID string      `db:"question_id"`
		Answer     null.String `db:"answer"`
		Correct    bool        `db:"correct"`
		Score      float64     `db:"score"`
		TimeSpent  int         `db:"time_spent"`
		CreatedAt  null.Time   `db:"created_at"`
	}

	blueprintRow struct {
		ID               string    `db:"id"`
		ContentHash      string    `db:"content_hash"`
		CategoryCounts   []byte    `db:"category_counts"`
		GeneratorVersion string    `db:"generator_version"`
		CreatedAt        null.Time `db:"created_at"`
	}
)

func (repo quizRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

// trapNoRowsErr maps psql "no rows" err to quiz.ErrNotFound
func (repo quizRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return quiz.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo quizRepository) unrowSession(row sessionRow) quiz.Session {
	return quiz.Session{
		ID:          row.ID,
		UserID:      row.UserID,
		QuestionIDs: row.QuestionIDs,
		CreatedAt:   row.CreatedAt.Time,
	}
}

func (repo quizRepository) CreateSession(ctx context.Context, ses quiz.Session, exec ...core.DBExecutor) (quiz.Session, error) {
	ses.ID = uuid.New().String()
	_, err := repo.getExec(exec).ExecContext(ctx, `
		INSERT INTO quiz_session (id, user_id, question_ids, created_at)
		VALUES ($1, $2, $3, $4)`,
		ses.ID, ses.UserID, pq.StringArray(ses.QuestionIDs), ses.CreatedAt.UTC(),
	)
	if err != nil {
		return quiz.Session{}, errors.Wrap(err, "inserting quiz session")
	}
	return ses, nil
}

func (repo quizRepository) GetSession(ctx context.Context, id string, exec ...core.DBExecutor) (quiz.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return quiz.Session{}, quiz.ErrNotFound
	}
	var row sessionRow
	if err := repo.getExec(exec).GetContext(ctx, &row, `SELECT * FROM quiz_session WHERE id = $1`, id); err != nil {
		return quiz.Session{}, repo.trapNoRowsErr(err, "finding quiz session")
	}
	return repo.unrowSession(row), nil
}

func (repo quizRepository) QuerySessionsByUser(ctx context.Context, userID string, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]quiz.Session, error) {
	q := `SELECT * FROM quiz_session WHERE user_id = $1` + orderBy(ordering)

	var rows []sessionRow
	if err := repo.getExec(exec).SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying quiz sessions")
	}
	sessions := make([]quiz.Session, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, repo.unrowSession(row))
	}
	return sessions, nil
}

func (repo quizRepository) UpsertResult(ctx context.Context, res quiz.Result, exec ...core.DBExecutor) (quiz.Result, error) {
	res.ID = uuid.New().String()
	var row resultRow
	err := repo.getExec(exec).GetContext(ctx, &row, `
		INSERT INTO quiz_result (id, session_id, question_id, answer, correct, score, time_spent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (session_id, question_id)
		DO UPDATE SET answer = EXCLUDED.answer, correct = EXCLUDED.correct, score = EXCLUDED.score, time_spent = EXCLUDED.time_spent
		RETURNING *`,
		res.ID, res.SessionID, res.QuestionID, null.NewString(res.Answer, res.Answer != ""),
		res.Correct, res.Score, res.TimeSpent, res.CreatedAt.UTC(),
	)
	if err != nil {
		return quiz.Result{}, errors.Wrap(err, "upserting quiz result")
	}
	return repo.unrowResult(row), nil
}

func (repo quizRepository) unrowResult(row resultRow) quiz.Result {
	return quiz.Result{
		ID:         row.ID,
		SessionID:  row.SessionID,
		QuestionID: row.QuestionID,
		Answer:     row.Answer.String,
		Correct:    row.Correct,
		Score:      row.Score,
		TimeSpent:  row.TimeSpent,
		CreatedAt:  row.CreatedAt.Time,
	}
}

func (repo quizRepository) QueryResults(ctx context.Context, sessionID string, exec ...core.DBExecutor) ([]quiz.Result, error) {
	var rows []resultRow
	err := repo.getExec(exec).SelectContext(ctx, &rows,
		`SELECT * FROM quiz_result WHERE session_id = $1 ORDER BY created_at ASC`, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "querying quiz results")
	}
	results := make([]quiz.Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, repo.unrowResult(row))
	}
	return results, nil
}

func (repo quizRepository) CreateBlueprint(ctx context.Context, bp quiz.Blueprint, exec ...core.DBExecutor) (quiz.Blueprint, error) {
	bp.ID = uuid.New().String()
	counts, err := json.Marshal(bp.CategoryCounts)
	if err != nil {
		return quiz.Blueprint{}, errors.Wrap(err, "marshalling category counts")
	}
	_, err = repo.getExec(exec).ExecContext(ctx, `
		INSERT INTO quiz_blueprint (id, content_hash, category_counts, generator_version, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		bp.ID, bp.ContentHash, counts, bp.GeneratorVersion, bp.CreatedAt.UTC(),
	)
	if err != nil {
		return quiz.Blueprint{}, errors.Wrap(err, "inserting quiz blueprint")
	}
	return bp, nil
}

func (repo quizRepository) GetBlueprintByHash(ctx context.Context, hash string, exec ...core.DBExecutor) (quiz.Blueprint, error) {
	var row blueprintRow
	if err := repo.getExec(exec).GetContext(ctx, &row, `SELECT * FROM quiz_blueprint WHERE content_hash = $1`, hash); err != nil {
		return quiz.Blueprint{}, repo.trapNoRowsErr(err, "finding quiz blueprint")
	}

	bp := quiz.Blueprint{
		ID:               row.ID,
		ContentHash:      row.ContentHash,
		GeneratorVersion: row.GeneratorVersion,
		CreatedAt:        row.CreatedAt.Time,
	}
	if err := json.Unmarshal(row.CategoryCounts, &bp.CategoryCounts); err != nil {
		return quiz.Blueprint{}, errors.Wrap(err, "unmarshalling category counts")
	}
	return bp, nil
}
