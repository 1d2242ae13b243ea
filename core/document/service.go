package document

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
)

var (
	// errors
	ErrNotFound = errors.New("not found")

	// NowFunc returns the current time; mockable.
	NowFunc = time.Now
)

type (
	Repository interface {
		// UpsertIntake keeps one intake per user: a resubmission overwrites
		// the stored answers.
		UpsertIntake(ctx context.Context, in Intake, exec ...core.DBExecutor) (Intake, error)
		GetIntakeByUser(ctx context.Context, userID string, exec ...core.DBExecutor) (Intake, error)

		CreateProcessedDocument(ctx context.Context, doc ProcessedDocument, exec ...core.DBExecutor) (ProcessedDocument, error)
		QueryProcessedDocumentsByUser(ctx context.Context, userID string, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]ProcessedDocument, error)
	}

	ServiceInterface interface {
		SubmitIntake(ctx context.Context, userID string, si SubmitIntake) (Intake, error)
		GetIntake(ctx context.Context, userID string) (Intake, error)
		AddProcessedDocument(ctx context.Context, userID string, np NewProcessedDocument) (ProcessedDocument, error)
		UserProcessedDocuments(ctx context.Context, userID string) ([]ProcessedDocument, error)
		LatestProfile(ctx context.Context, userID string) (*ProcessedDocument, error)
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) *service {
	return &service{repo: repo}
}

func (svc *service) SubmitIntake(ctx context.Context, userID string, si SubmitIntake) (Intake, error) {
	now := NowFunc().UTC()
	return svc.repo.UpsertIntake(ctx, Intake{
		UserID:    userID,
		Answers:   si.Answers,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *service) GetIntake(ctx context.Context, userID string) (Intake, error) {
	return svc.repo.GetIntakeByUser(ctx, userID)
}

func (svc *service) AddProcessedDocument(ctx context.Context, userID string, np NewProcessedDocument) (ProcessedDocument, error) {
	return svc.repo.CreateProcessedDocument(ctx, ProcessedDocument{
		UserID:    userID,
		Kind:      np.Kind,
		Payload:   np.Payload,
		CreatedAt: NowFunc().UTC(),
	})
}

func (svc *service) UserProcessedDocuments(ctx context.Context, userID string) ([]ProcessedDocument, error) {
	return svc.repo.QueryProcessedDocumentsByUser(ctx, userID, []core.DBOrdering{{Field: "created_at"}}) // DESC
}

// LatestProfile returns the most recently created processed document for the
// user, or nil when none exists: an empty profile is a valid outcome, not an
// error.
func (svc *service) LatestProfile(ctx context.Context, userID string) (*ProcessedDocument, error) {
	docs, err := svc.repo.QueryProcessedDocumentsByUser(ctx, userID, []core.DBOrdering{{Field: "created_at"}}) // DESC
	if err != nil {
		return nil, errors.Wrap(err, "querying processed documents")
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return &docs[0], nil
}
