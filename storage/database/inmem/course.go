package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
)

type courseRepository struct {
	db *courseTable
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) *courseRepository {
	return &courseRepository{db: db.course}
}

// ordered is the slice of fields the display orderings sort on.
type ordered struct {
	order     int
	createdAt int64
	title     string
}

func sortOrdered(idx []int, fields []ordered, ordering []core.DBOrdering) {
	for i := len(ordering) - 1; i >= 0; i-- {
		ord := ordering[i]
		sort.SliceStable(idx, func(a, b int) bool {
			fa, fb := fields[idx[a]], fields[idx[b]]
			if !ord.Ascending {
				// swap operands; negating would break equal keys
				fa, fb = fb, fa
			}
			switch ord.Field {
			case "sort_order":
				return fa.order < fb.order
			case "title":
				return fa.title < fb.title
			default: // created_at
				return fa.createdAt < fb.createdAt
			}
		})
	}
}

// --- courses ---

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course, exec ...core.DBExecutor) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	crs.ID = uuid.New().String()
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) GetCourse(ctx context.Context, id string, exec ...core.DBExecutor) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if crs, ok := repo.db.courses[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) QueryCourses(ctx context.Context, onlyActive bool, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.courses))
	for _, crs := range repo.db.courses {
		if onlyActive && !crs.Active() {
			continue
		}
		courses = append(courses, *crs)
	}

	idx := make([]int, len(courses))
	fields := make([]ordered, len(courses))
	for i, crs := range courses {
		idx[i] = i
		fields[i] = ordered{order: crs.Order, createdAt: crs.CreatedAt.UnixNano(), title: crs.Title}
	}
	sortOrdered(idx, fields, ordering)

	out := make([]course.Course, len(courses))
	for i, j := range idx {
		out[i] = courses[j]
	}
	return out, nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, crs course.Course, exec ...core.DBExecutor) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.courses[crs.ID]; !ok {
		return course.Course{}, course.ErrNotFound
	}
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) DeleteCourse(ctx context.Context, id string, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.courses[id]; !ok {
		return course.ErrNotFound
	}
	delete(repo.db.courses, id)
	return nil
}

// --- chapters ---

func (repo *courseRepository) CreateChapter(ctx context.Context, chp course.Chapter, exec ...core.DBExecutor) (course.Chapter, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	chp.ID = uuid.New().String()
	repo.db.chapters[chp.ID] = &chp
	return chp, nil
}

func (repo *courseRepository) GetChapter(ctx context.Context, id string, exec ...core.DBExecutor) (course.Chapter, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if chp, ok := repo.db.chapters[id]; ok {
		return *chp, nil
	}
	return course.Chapter{}, course.ErrNotFound
}

func (repo *courseRepository) QueryChapters(ctx context.Context, courseID string, onlyActive bool, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]course.Chapter, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	chapters := make([]course.Chapter, 0)
	for _, chp := range repo.db.chapters {
		if chp.CourseID != courseID {
			continue
		}
		if onlyActive && !chp.Active() {
			continue
		}
		chapters = append(chapters, *chp)
	}

	idx := make([]int, len(chapters))
	fields := make([]ordered, len(chapters))
	for i, chp := range chapters {
		idx[i] = i
		fields[i] = ordered{order: chp.Order, createdAt: chp.CreatedAt.UnixNano(), title: chp.Title}
	}
	sortOrdered(idx, fields, ordering)

	out := make([]course.Chapter, len(chapters))
	for i, j := range idx {
		out[i] = chapters[j]
	}
	return out, nil
}

func (repo *courseRepository) UpdateChapter(ctx context.Context, chp course.Chapter, exec ...core.DBExecutor) (course.Chapter, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.chapters[chp.ID]; !ok {
		return course.Chapter{}, course.ErrNotFound
	}
	repo.db.chapters[chp.ID] = &chp
	return chp, nil
}

func (repo *courseRepository) DeleteChapter(ctx context.Context, id string, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.chapters[id]; !ok {
		return course.ErrNotFound
	}
	delete(repo.db.chapters, id)
	return nil
}

// --- videos ---

func (repo *courseRepository) CreateVideo(ctx context.Context, vid course.Video, exec ...core.DBExecutor) (course.Video, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	vid.ID = uuid.New().String()
	repo.db.videos[vid.ID] = &vid
	return vid, nil
}

func (repo *courseRepository) GetVideo(ctx context.Context, id string, exec ...core.DBExecutor) (course.Video, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if vid, ok := repo.db.videos[id]; ok {
		return *vid, nil
	}
	return course.Video{}, course.ErrNotFound
}

func (repo *courseRepository) GetVideoByAssetID(ctx context.Context, assetID string, exec ...core.DBExecutor) (course.Video, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, vid := range repo.db.videos {
		if vid.AssetID == assetID {
			return *vid, nil
		}
	}
	return course.Video{}, course.ErrNotFound
}

func (repo *courseRepository) QueryVideos(ctx context.Context, chapterID string, onlyActive bool, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]course.Video, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	videos := make([]course.Video, 0)
	for _, vid := range repo.db.videos {
		if vid.ChapterID != chapterID {
			continue
		}
		if onlyActive && !vid.Active() {
			continue
		}
		videos = append(videos, *vid)
	}

	idx := make([]int, len(videos))
	fields := make([]ordered, len(videos))
	for i, vid := range videos {
		idx[i] = i
		fields[i] = ordered{order: vid.Order, createdAt: vid.CreatedAt.UnixNano(), title: vid.Title}
	}
	sortOrdered(idx, fields, ordering)

	out := make([]course.Video, len(videos))
	for i, j := range idx {
		out[i] = videos[j]
	}
	return out, nil
}

func (repo *courseRepository) UpdateVideo(ctx context.Context, vid course.Video, exec ...core.DBExecutor) (course.Video, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.videos[vid.ID]; !ok {
		return course.Video{}, course.ErrNotFound
	}
	repo.db.videos[vid.ID] = &vid
	return vid, nil
}

func (repo *courseRepository) DeleteVideo(ctx context.Context, id string, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.videos[id]; !ok {
		return course.ErrNotFound
	}
	delete(repo.db.videos, id)
	return nil
}
