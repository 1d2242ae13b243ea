package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/quiz"
)

type quizRepository struct {
	db *quizTable
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db *DB) *quizRepository {
	return &quizRepository{db: db.quiz}
}

func (repo *quizRepository) CreateSession(ctx context.Context, ses quiz.Session, exec ...core.DBExecutor) (quiz.Session, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	ses.ID = uuid.New().String()
	repo.db.sessions[ses.ID] = &ses
	return ses, nil
}

func (repo *quizRepository) GetSession(ctx context.Context, id string, exec ...core.DBExecutor) (quiz.Session, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ses, ok := repo.db.sessions[id]; ok {
		return *ses, nil
	}
	return quiz.Session{}, quiz.ErrNotFound
}

func (repo *quizRepository) QuerySessionsByUser(ctx context.Context, userID string, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]quiz.Session, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	sessions := make([]quiz.Session, 0)
	for _, ses := range repo.db.sessions {
		if ses.UserID == userID {
			sessions = append(sessions, *ses)
		}
	}

	for i := len(ordering) - 1; i >= 0; i-- {
		ord := ordering[i]
		sort.SliceStable(sessions, func(a, b int) bool {
			if ord.Ascending { // created_at only
				return sessions[a].CreatedAt.Before(sessions[b].CreatedAt)
			}
			return sessions[b].CreatedAt.Before(sessions[a].CreatedAt)
		})
	}
	return sessions, nil
}

func (repo *quizRepository) UpsertResult(ctx context.Context, res quiz.Result, exec ...core.DBExecutor) (quiz.Result, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.results {
		if existing.SessionID == res.SessionID && existing.QuestionID == res.QuestionID {
			res.ID = existing.ID
			res.CreatedAt = existing.CreatedAt
			repo.db.results[res.ID] = &res
			return res, nil
		}
	}

	res.ID = uuid.New().String()
	repo.db.results[res.ID] = &res
	return res, nil
}

func (repo *quizRepository) QueryResults(ctx context.Context, sessionID string, exec ...core.DBExecutor) ([]quiz.Result, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	results := make([]quiz.Result, 0)
	for _, res := range repo.db.results {
		if res.SessionID == sessionID {
			results = append(results, *res)
		}
	}
	sort.SliceStable(results, func(a, b int) bool { return results[a].CreatedAt.Before(results[b].CreatedAt) })
	return results, nil
}

func (repo *quizRepository) CreateBlueprint(ctx context.Context, bp quiz.Blueprint, exec ...core.DBExecutor) (quiz.Blueprint, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	bp.ID = uuid.New().String()
	repo.db.blueprints[bp.ContentHash] = &bp
	return bp, nil
}

func (repo *quizRepository) GetBlueprintByHash(ctx context.Context, hash string, exec ...core.DBExecutor) (quiz.Blueprint, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if bp, ok := repo.db.blueprints[hash]; ok {
		return *bp, nil
	}
	return quiz.Blueprint{}, quiz.ErrNotFound
}
