package course

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

	displayOrdering = []core.DBOrdering{
		{Field: "sort_order", Ascending: true},
		{Field: "created_at", Ascending: true},
	}
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course, exec ...core.DBExecutor) (Course, error)
		GetCourse(ctx context.Context, id string, exec ...core.DBExecutor) (Course, error)
		// QueryCourses returns courses in the given ordering; onlyActive
		// restricts to rows with the active flag set.
		QueryCourses(ctx context.Context, onlyActive bool, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Course, error)
		UpdateCourse(ctx context.Context, crs Course, exec ...core.DBExecutor) (Course, error)
		DeleteCourse(ctx context.Context, id string, exec ...core.DBExecutor) error

		CreateChapter(ctx context.Context, chp Chapter, exec ...core.DBExecutor) (Chapter, error)
		GetChapter(ctx context.Context, id string, exec ...core.DBExecutor) (Chapter, error)
		QueryChapters(ctx context.Context, courseID string, onlyActive bool, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Chapter, error)
		UpdateChapter(ctx context.Context, chp Chapter, exec ...core.DBExecutor) (Chapter, error)
		DeleteChapter(ctx context.Context, id string, exec ...core.DBExecutor) error

		CreateVideo(ctx context.Context, vid Video, exec ...core.DBExecutor) (Video, error)
		GetVideo(ctx context.Context, id string, exec ...core.DBExecutor) (Video, error)
		GetVideoByAssetID(ctx context.Context, assetID string, exec ...core.DBExecutor) (Video, error)
		QueryVideos(ctx context.Context, chapterID string, onlyActive bool, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Video, error)
		UpdateVideo(ctx context.Context, vid Video, exec ...core.DBExecutor) (Video, error)
		DeleteVideo(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	ServiceInterface interface {
		CreateCourse(ctx context.Context, nc NewCourse) (Course, error)
		GetCourse(ctx context.Context, id string) (Course, error)
		GetCourseDetail(ctx context.Context, id string) (CourseDetail, error)
		ListCourses(ctx context.Context, includeInactive bool) ([]Course, error)
		UpdateCourse(ctx context.Context, id string, uc UpdateCourse) (Course, error)
		DeleteCourse(ctx context.Context, id string) error

		CreateChapter(ctx context.Context, courseID string, nc NewChapter) (Chapter, error)
		UpdateChapter(ctx context.Context, id string, uc UpdateChapter) (Chapter, error)
		DeleteChapter(ctx context.Context, id string) error

		CreateVideo(ctx context.Context, chapterID string, nv NewVideo) (Video, error)
		UpdateVideo(ctx context.Context, id string, uv UpdateVideo) (Video, error)
		UpdateVideoStatus(ctx context.Context, assetID, status string) (Video, error)
		DeleteVideo(ctx context.Context, id string) error
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) *service {
	return &service{repo: repo}
}

func (svc *service) CreateCourse(ctx context.Context, nc NewCourse) (Course, error) {
	now := NowFunc().UTC()
	isActive := true
	return svc.repo.CreateCourse(ctx, Course{
		Title:       nc.Title,
		Description: nc.Description,
		IsActive:    &isActive,
		Order:       nc.Order,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *service) GetCourse(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourse(ctx, id)
}

// GetCourseDetail returns the course with its active chapters and videos in
// display order.
func (svc *service) GetCourseDetail(ctx context.Context, id string) (CourseDetail, error) {
	crs, err := svc.repo.GetCourse(ctx, id)
	if err != nil {
		return CourseDetail{}, err
	}

	chapters, err := svc.repo.QueryChapters(ctx, crs.ID, true /* onlyActive */, displayOrdering)
	if err != nil {
		return CourseDetail{}, errors.Wrap(err, "querying chapters")
	}

	detail := CourseDetail{Course: crs, Chapters: make([]ChapterDetail, 0, len(chapters))}
	for _, chp := range chapters {
		videos, err := svc.repo.QueryVideos(ctx, chp.ID, true /* onlyActive */, displayOrdering)
		if err != nil {
			return CourseDetail{}, errors.Wrap(err, "querying videos")
		}
		detail.Chapters = append(detail.Chapters, ChapterDetail{Chapter: chp, Videos: videos})
	}
	return detail, nil
}

func (svc *service) ListCourses(ctx context.Context, includeInactive bool) ([]Course, error) {
	return svc.repo.QueryCourses(ctx, !includeInactive, displayOrdering)
}

func (svc *service) UpdateCourse(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	crs, err := svc.repo.GetCourse(ctx, id)
	if err != nil {
		return Course{}, err
	}

	if uc.Title != "" {
		crs.Title = uc.Title
	}
	if uc.Description != "" {
		crs.Description = uc.Description
	}
	if uc.IsActive != nil {
		crs.IsActive = uc.IsActive
	}
	if uc.Order != nil {
		crs.Order = *uc.Order
	}
	crs.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateCourse(ctx, crs)
}

func (svc *service) DeleteCourse(ctx context.Context, id string) error {
	return svc.repo.DeleteCourse(ctx, id)
}

func (svc *service) CreateChapter(ctx context.Context, courseID string, nc NewChapter) (Chapter, error) {
	// owning course must exist
	crs, err := svc.repo.GetCourse(ctx, courseID)
	if err != nil {
		return Chapter{}, err
	}

	now := NowFunc().UTC()
	isActive := true
	return svc.repo.CreateChapter(ctx, Chapter{
		CourseID:  crs.ID,
		Title:     nc.Title,
		ModuleKey: nc.ModuleKey,
		IsActive:  &isActive,
		Order:     nc.Order,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *service) UpdateChapter(ctx context.Context, id string, uc UpdateChapter) (Chapter, error) {
	chp, err := svc.repo.GetChapter(ctx, id)
	if err != nil {
		return Chapter{}, err
	}

	if uc.Title != "" {
		chp.Title = uc.Title
	}
	if uc.ModuleKey != "" {
		chp.ModuleKey = uc.ModuleKey
	}
	if uc.IsActive != nil {
		chp.IsActive = uc.IsActive
	}
	if uc.Order != nil {
		chp.Order = *uc.Order
	}
	chp.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateChapter(ctx, chp)
}

func (svc *service) DeleteChapter(ctx context.Context, id string) error {
	return svc.repo.DeleteChapter(ctx, id)
}

func (svc *service) CreateVideo(ctx context.Context, chapterID string, nv NewVideo) (Video, error) {
	// owning chapter must exist
	chp, err := svc.repo.GetChapter(ctx, chapterID)
	if err != nil {
		return Video{}, err
	}

	now := NowFunc().UTC()
	isActive := true
	return svc.repo.CreateVideo(ctx, Video{
		ChapterID: chp.ID,
		Title:     nv.Title,
		AssetID:   nv.AssetID,
		Status:    VideoStatusPreparing,
		IsActive:  &isActive,
		Order:     nv.Order,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *service) UpdateVideo(ctx context.Context, id string, uv UpdateVideo) (Video, error) {
	vid, err := svc.repo.GetVideo(ctx, id)
	if err != nil {
		return Video{}, err
	}

	if uv.Title != "" {
		vid.Title = uv.Title
	}
	if uv.IsActive != nil {
		vid.IsActive = uv.IsActive
	}
	if uv.Order != nil {
		vid.Order = *uv.Order
	}
	vid.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateVideo(ctx, vid)
}

// UpdateVideoStatus records the transcoding status reported by the video host
// for the given external asset.
func (svc *service) UpdateVideoStatus(ctx context.Context, assetID, status string) (Video, error) {
	vid, err := svc.repo.GetVideoByAssetID(ctx, assetID)
	if err != nil {
		return Video{}, err
	}
	vid.Status = status
	vid.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateVideo(ctx, vid)
}

func (svc *service) DeleteVideo(ctx context.Context, id string) error {
	return svc.repo.DeleteVideo(ctx, id)
}
