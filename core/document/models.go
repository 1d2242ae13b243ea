package document

import (
	"time"

	"github.com/darasahq/darasa/core"
)

// Intake is the free-form questionnaire payload a user submits once;
// resubmission overwrites it (one-to-one with the user).
type Intake struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Answers   map[string]interface{} `json:"answers"`
	CreatedAt time.Time              `json:"created_at"` // UTC
	UpdatedAt time.Time              `json:"updated_at"` // UTC
}

// ProcessedDocument is an extraction payload derived from a user's submissions
// (one-to-many with the user). The most recent one is the user's profile.
type ProcessedDocument struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Kind      string                 `json:"kind"`
	Payload   map[string]interface{} `json:"payload"`
	CreatedAt time.Time              `json:"created_at"` // UTC
}

type SubmitIntake struct {
	Answers map[string]interface{} `json:"answers" validate:"required,min=1"`
}

func (si *SubmitIntake) Validate() error { return core.Validate.Struct(si) }

type NewProcessedDocument struct {
	Kind    string                 `json:"kind" validate:"required"`
	Payload map[string]interface{} `json:"payload" validate:"required,min=1"`
}

func (np *NewProcessedDocument) Validate() error { return core.Validate.Struct(np) }
