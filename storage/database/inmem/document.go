package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/document"
)

type documentRepository struct {
	db *documentTable
}

var _ document.Repository = (*documentRepository)(nil) // interface compliance check

func NewDocumentRepository(db *DB) *documentRepository {
	return &documentRepository{db: db.document}
}

func (repo *documentRepository) UpsertIntake(ctx context.Context, in document.Intake, exec ...core.DBExecutor) (document.Intake, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if existing, ok := repo.db.intakes[in.UserID]; ok {
		in.ID = existing.ID
		in.CreatedAt = existing.CreatedAt
	} else {
		in.ID = uuid.New().String()
	}
	repo.db.intakes[in.UserID] = &in
	return in, nil
}

func (repo *documentRepository) GetIntakeByUser(ctx context.Context, userID string, exec ...core.DBExecutor) (document.Intake, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if in, ok := repo.db.intakes[userID]; ok {
		return *in, nil
	}
	return document.Intake{}, document.ErrNotFound
}

func (repo *documentRepository) CreateProcessedDocument(ctx context.Context, doc document.ProcessedDocument, exec ...core.DBExecutor) (document.ProcessedDocument, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	doc.ID = uuid.New().String()
	repo.db.docs[doc.ID] = &doc
	return doc, nil
}

func (repo *documentRepository) QueryProcessedDocumentsByUser(ctx context.Context, userID string, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]document.ProcessedDocument, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	docs := make([]document.ProcessedDocument, 0)
	for _, doc := range repo.db.docs {
		if doc.UserID == userID {
			docs = append(docs, *doc)
		}
	}

	for i := len(ordering) - 1; i >= 0; i-- {
		ord := ordering[i]
		sort.SliceStable(docs, func(a, b int) bool {
			if ord.Ascending { // created_at only
				return docs[a].CreatedAt.Before(docs[b].CreatedAt)
			}
			return docs[b].CreatedAt.Before(docs[a].CreatedAt)
		})
	}
	return docs, nil
}
