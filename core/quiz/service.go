package quiz

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
)

// generatorVersion tags the provenance of blueprints produced by this build.
const generatorVersion = "bp-1"

var (
	// errors
	ErrNotFound           = errors.New("not found")
	ErrQuestionNotInQuiz  = errors.New("question is not part of this quiz session")
	ErrBlueprintNotCached = errors.New("blueprint not cached")

	// NowFunc returns the current time; mockable.
	NowFunc = time.Now
)

type (
	Repository interface {
		CreateSession(ctx context.Context, ses Session, exec ...core.DBExecutor) (Session, error)
		GetSession(ctx context.Context, id string, exec ...core.DBExecutor) (Session, error)
		QuerySessionsByUser(ctx context.Context, userID string, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Session, error)

		// UpsertResult keeps one result per (session, question): a resubmission
		// overwrites the previous answer.
		UpsertResult(ctx context.Context, res Result, exec ...core.DBExecutor) (Result, error)
		QueryResults(ctx context.Context, sessionID string, exec ...core.DBExecutor) ([]Result, error)

		CreateBlueprint(ctx context.Context, bp Blueprint, exec ...core.DBExecutor) (Blueprint, error)
		GetBlueprintByHash(ctx context.Context, hash string, exec ...core.DBExecutor) (Blueprint, error)
	}

	// BlueprintCache memoizes generated blueprints by content hash. A nil
	// cache degrades to store-only memoization.
	BlueprintCache interface {
		GetBlueprint(ctx context.Context, hash string) (Blueprint, error)
		SetBlueprint(ctx context.Context, bp Blueprint) error
	}

	ServiceInterface interface {
		StartSession(ctx context.Context, userID string, ns NewSession) (Session, error)
		GetSession(ctx context.Context, id string) (Session, error)
		UserSessions(ctx context.Context, userID string) ([]Session, error)
		SubmitResult(ctx context.Context, sessionID string, sr SubmitResult) (Result, error)
		SessionResults(ctx context.Context, sessionID string) ([]Result, error)
		GenerateBlueprint(ctx context.Context, br BlueprintRequest) (Blueprint, error)
	}

	service struct {
		repo   Repository
		cache  BlueprintCache
		logger core.Logger
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, cache BlueprintCache, logger core.Logger) *service {
	return &service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (svc *service) StartSession(ctx context.Context, userID string, ns NewSession) (Session, error) {
	return svc.repo.CreateSession(ctx, Session{
		UserID:      userID,
		QuestionIDs: ns.QuestionIDs,
		CreatedAt:   NowFunc().UTC(),
	})
}

func (svc *service) GetSession(ctx context.Context, id string) (Session, error) {
	return svc.repo.GetSession(ctx, id)
}

func (svc *service) UserSessions(ctx context.Context, userID string) ([]Session, error) {
	return svc.repo.QuerySessionsByUser(ctx, userID, []core.DBOrdering{{Field: "created_at"}}) // DESC
}

func (svc *service) SubmitResult(ctx context.Context, sessionID string, sr SubmitResult) (Result, error) {
	ses, err := svc.repo.GetSession(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}

	var inQuiz bool
	for _, qid := range ses.QuestionIDs {
		if qid == sr.QuestionID {
			inQuiz = true
			break
		}
	}
	if !inQuiz {
		return Result{}, core.NewValidationError(ErrQuestionNotInQuiz,
			core.FieldError{Field: "question_id", Error: ErrQuestionNotInQuiz.Error()})
	}

	return svc.repo.UpsertResult(ctx, Result{
		SessionID:  ses.ID,
		QuestionID: sr.QuestionID,
		Answer:     sr.Answer,
		Correct:    sr.Correct,
		Score:      sr.Score,
		TimeSpent:  sr.TimeSpent,
		CreatedAt:  NowFunc().UTC(),
	})
}

func (svc *service) SessionResults(ctx context.Context, sessionID string) ([]Result, error) {
	if _, err := svc.repo.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return svc.repo.QueryResults(ctx, sessionID)
}

// GenerateBlueprint memoizes on the request's content hash: cache first, then
// the store, generating and persisting only on a full miss. Cache failures are
// logged and ignored; the store remains the source of truth.
func (svc *service) GenerateBlueprint(ctx context.Context, br BlueprintRequest) (Blueprint, error) {
	hash := br.ContentHash()

	if svc.cache != nil {
		if bp, err := svc.cache.GetBlueprint(ctx, hash); err == nil {
			return bp, nil
		} else if errors.Cause(err) != ErrBlueprintNotCached {
			svc.logger.Warn("blueprint cache get failed", err)
		}
	}

	bp, err := svc.repo.GetBlueprintByHash(ctx, hash)
	if err == nil {
		svc.cacheBlueprint(ctx, bp)
		return bp, nil
	}
	if errors.Cause(err) != ErrNotFound {
		return Blueprint{}, errors.Wrap(err, "looking up blueprint")
	}

	bp, err = svc.repo.CreateBlueprint(ctx, Blueprint{
		ContentHash:      hash,
		CategoryCounts:   br.CategoryCounts,
		GeneratorVersion: generatorVersion,
		CreatedAt:        NowFunc().UTC(),
	})
	if err != nil {
		return Blueprint{}, errors.Wrap(err, "storing blueprint")
	}
	svc.cacheBlueprint(ctx, bp)
	return bp, nil
}

func (svc *service) cacheBlueprint(ctx context.Context, bp Blueprint) {
	if svc.cache == nil {
		return
	}
	if err := svc.cache.SetBlueprint(ctx, bp); err != nil {
		svc.logger.Warn("blueprint cache set failed", err)
	}
}
