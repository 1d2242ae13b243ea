package course

import (
	"time"

	"github.com/darasahq/darasa/core"
)

// Module keys classify a Chapter's subject area.
const (
	ModuleKeyIntro      = "intro"
	ModuleKeyTheory     = "theory"
	ModuleKeyPractice   = "practice"
	ModuleKeyAssessment = "assessment"
)

// Video processing statuses, reported asynchronously by the video host.
const (
	VideoStatusPreparing = "preparing"
	VideoStatusReady     = "ready"
	VideoStatusErrored   = "errored"
	VideoStatusDeleted   = "deleted"
)

var (
	AllModuleKeys    = []string{ModuleKeyIntro, ModuleKeyTheory, ModuleKeyPractice, ModuleKeyAssessment}
	AllVideoStatuses = []string{VideoStatusPreparing, VideoStatusReady, VideoStatusErrored, VideoStatusDeleted}
)

// Course owns an ordered set of Chapters; a Chapter owns an ordered set of
// Videos. Order values define a total display order but need not be contiguous.
type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsActive    *bool     `json:"is_active"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

type Chapter struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	Title     string    `json:"title"`
	ModuleKey string    `json:"module_key"`
	IsActive  *bool     `json:"is_active"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type Video struct {
	ID        string    `json:"id"`
	ChapterID string    `json:"chapter_id"`
	Title     string    `json:"title"`
	AssetID   string    `json:"asset_id"`
	Status    string    `json:"status"`
	IsActive  *bool     `json:"is_active"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

func (c *Course) Active() bool  { return c.IsActive != nil && *c.IsActive }
func (c *Chapter) Active() bool { return c.IsActive != nil && *c.IsActive }
func (v *Video) Active() bool   { return v.IsActive != nil && *v.IsActive }

// CourseDetail is a Course with its active Chapters and their Videos, in
// display order.
type CourseDetail struct {
	Course
	Chapters []ChapterDetail `json:"chapters"`
}

type ChapterDetail struct {
	Chapter
	Videos []Video `json:"videos"`
}

type NewCourse struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

func (nc *NewCourse) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	return core.Validate.Struct(nc)
}

type UpdateCourse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
	Order       *int   `json:"order"`
}

func (uc *UpdateCourse) Validate() error {
	uc.Title = core.CleanString(uc.Title)
	uc.Description = core.CleanString(uc.Description)
	return core.Validate.Struct(uc)
}

type NewChapter struct {
	Title     string `json:"title" validate:"required"`
	ModuleKey string `json:"module_key" validate:"required,modulekey"`
	Order     int    `json:"order"`
}

func (nc *NewChapter) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	return core.Validate.Struct(nc)
}

type UpdateChapter struct {
	Title     string `json:"title"`
	ModuleKey string `json:"module_key" validate:"omitempty,modulekey"`
	IsActive  *bool  `json:"is_active"`
	Order     *int   `json:"order"`
}

func (uc *UpdateChapter) Validate() error {
	uc.Title = core.CleanString(uc.Title)
	return core.Validate.Struct(uc)
}

type NewVideo struct {
	Title   string `json:"title" validate:"required"`
	AssetID string `json:"asset_id" validate:"required"`
	Order   int    `json:"order"`
}

func (nv *NewVideo) Validate() error {
	nv.Title = core.CleanString(nv.Title)
	nv.AssetID = core.CleanString(nv.AssetID)
	return core.Validate.Struct(nv)
}

type UpdateVideo struct {
	Title    string `json:"title"`
	IsActive *bool  `json:"is_active"`
	Order    *int   `json:"order"`
}

func (uv *UpdateVideo) Validate() error {
	uv.Title = core.CleanString(uv.Title)
	return core.Validate.Struct(uv)
}
