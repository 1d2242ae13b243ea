package quiz

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/darasahq/darasa/core"
)

// Session references the ordered sequence of questions served to one user.
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	QuestionIDs []string  `json:"question_ids"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// Result records one submitted answer; exactly one per (session, question).
type Result struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	QuestionID string    `json:"question_id"`
	Answer     string    `json:"answer"`
	Correct    bool      `json:"correct"`
	Score      float64   `json:"score"`
	TimeSpent  int       `json:"time_spent"` // seconds
	CreatedAt  time.Time `json:"created_at"` // UTC
}

// Blueprint is a generated quiz specification, keyed by the content hash of
// its generation request so repeat requests are memoized.
type Blueprint struct {
	ID               string         `json:"id"`
	ContentHash      string         `json:"content_hash"`
	CategoryCounts   map[string]int `json:"category_counts"`
	GeneratorVersion string         `json:"generator_version"`
	CreatedAt        time.Time      `json:"created_at"` // UTC
}

type NewSession struct {
	QuestionIDs []string `json:"question_ids" validate:"required,min=1,dive,required"`
}

func (ns *NewSession) Validate() error { return core.Validate.Struct(ns) }

type SubmitResult struct {
	QuestionID string  `json:"question_id" validate:"required"`
	Answer     string  `json:"answer" validate:"required"`
	Correct    bool    `json:"correct"`
	Score      float64 `json:"score" validate:"gte=0"`
	TimeSpent  int     `json:"time_spent" validate:"gte=0"`
}

func (sr *SubmitResult) Validate() error { return core.Validate.Struct(sr) }

type BlueprintRequest struct {
	CategoryCounts map[string]int `json:"category_counts" validate:"required,min=1,dive,gt=0"`
}

func (br *BlueprintRequest) Validate() error { return core.Validate.Struct(br) }

// ContentHash derives the memoization key: a sha256 over the canonical
// (sorted) category/count pairs, so equivalent requests hash alike.
func (br BlueprintRequest) ContentHash() string {
	cats := make([]string, 0, len(br.CategoryCounts))
	for cat := range br.CategoryCounts {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	var sb strings.Builder
	for _, cat := range cats {
		fmt.Fprintf(&sb, "%s:%d;", cat, br.CategoryCounts[cat])
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}
