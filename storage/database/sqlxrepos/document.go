package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/document"
)

type documentRepository struct {
	exec core.DBExecutor
}

var _ document.Repository = (*documentRepository)(nil) // interface compliance check

func NewDocumentRepository(exec core.DBExecutor) *documentRepository {
	return &documentRepository{exec: exec}
}

type (
	intakeRow struct {
		ID        string    `db:"id"`
		UserID    string    `db:"user_id"`
		Answers   []byte    `db:"answers"`
		CreatedAt null.Time `db:"created_at"`
		UpdatedAt null.Time `db:"updated_at"`
	}

	processedDocRow struct {
		ID        string    `db:"id"`
		UserID    string    `db:"user_id"`
		Kind      string    `db:"kind"`
		Payload   []byte    `db:"payload"`
		CreatedAt null.Time `db:"created_at"`
	}
)

func (repo documentRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

// trapNoRowsErr maps psql "no rows" err to document.ErrNotFound
func (repo documentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return document.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo documentRepository) unrowIntake(row intakeRow) (document.Intake, error) {
	in := document.Intake{
		ID:        row.ID,
		UserID:    row.UserID,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
	if err := json.Unmarshal(row.Answers, &in.Answers); err != nil {
		return document.Intake{}, errors.Wrap(err, "unmarshalling intake answers")
	}
	return in, nil
}

func (repo documentRepository) UpsertIntake(ctx context.Context, in document.Intake, exec ...core.DBExecutor) (document.Intake, error) {
	in.ID = uuid.New().String()
	answers, err := json.Marshal(in.Answers)
	if err != nil {
		return document.Intake{}, errors.Wrap(err, "marshalling intake answers")
	}

	var row intakeRow
	err = repo.getExec(exec).GetContext(ctx, &row, `
		INSERT INTO user_intake (id, user_id, answers, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id)
		DO UPDATE SET answers = EXCLUDED.answers, updated_at = EXCLUDED.updated_at
		RETURNING *`,
		in.ID, in.UserID, answers, in.CreatedAt.UTC(), in.UpdatedAt.UTC(),
	)
	if err != nil {
		return document.Intake{}, errors.Wrap(err, "upserting intake")
	}
	return repo.unrowIntake(row)
}

func (repo documentRepository) GetIntakeByUser(ctx context.Context, userID string, exec ...core.DBExecutor) (document.Intake, error) {
	var row intakeRow
	if err := repo.getExec(exec).GetContext(ctx, &row, `SELECT * FROM user_intake WHERE user_id = $1`, userID); err != nil {
		return document.Intake{}, repo.trapNoRowsErr(err, "finding intake")
	}
	return repo.unrowIntake(row)
}

func (repo documentRepository) unrowProcessedDoc(row processedDocRow) (document.ProcessedDocument, error) {
	doc := document.ProcessedDocument{
		ID:        row.ID,
		UserID:    row.UserID,
		Kind:      row.Kind,
		CreatedAt: row.CreatedAt.Time,
	}
	if err := json.Unmarshal(row.Payload, &doc.Payload); err != nil {
		return document.ProcessedDocument{}, errors.Wrap(err, "unmarshalling document payload")
	}
	return doc, nil
}

func (repo documentRepository) CreateProcessedDocument(ctx context.Context, doc document.ProcessedDocument, exec ...core.DBExecutor) (document.ProcessedDocument, error) {
	doc.ID = uuid.New().String()
	payload, err := json.Marshal(doc.Payload)
	if err != nil {
		return document.ProcessedDocument{}, errors.Wrap(err, "marshalling document payload")
	}
	_, err = repo.getExec(exec).ExecContext(ctx, `
		INSERT INTO user_processed_document (id, user_id, kind, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		doc.ID, doc.UserID, doc.Kind, payload, doc.CreatedAt.UTC(),
	)
	if err != nil {
		return document.ProcessedDocument{}, errors.Wrap(err, "inserting processed document")
	}
	return doc, nil
}

func (repo documentRepository) QueryProcessedDocumentsByUser(ctx context.Context, userID string, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]document.ProcessedDocument, error) {
	q := `SELECT * FROM user_processed_document WHERE user_id = $1` + orderBy(ordering)

	var rows []processedDocRow
	if err := repo.getExec(exec).SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying processed documents")
	}
	docs := make([]document.ProcessedDocument, 0, len(rows))
	for _, row := range rows {
		doc, err := repo.unrowProcessedDoc(row)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
