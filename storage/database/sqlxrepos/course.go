package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
)

type courseRepository struct {
	exec core.DBExecutor
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(exec core.DBExecutor) *courseRepository {
	return &courseRepository{exec: exec}
}

type (
	courseRow struct {
		ID          string      `db:"id"`
		Title       null.String `db:"title"`
		Description null.String `db:"description"`
		IsActive    null.Bool   `db:"is_active"`
		Order       int         `db:"sort_order"`
		CreatedAt   null.Time   `db:"created_at"`
		UpdatedAt   null.Time   `db:"updated_at"`
	}

	chapterRow struct {
		ID        string      `db:"id"`
		CourseID  string      `db:"course_id"`
		Title     null.String `db:"title"`
		ModuleKey null.String `db:"module_key"`
		IsActive  null.Bool   `db:"is_active"`
		Order     int         `db:"sort_order"`
		CreatedAt null.Time   `db:"created_at"`
		UpdatedAt null.Time   `db:"updated_at"`
	}

	videoRow struct {
		ID        string      `db:"id"`
		ChapterID string      `db:"chapter_id"`
		Title     null.String `db:"title"`
		AssetID   null.String `db:"asset_id"`
		Status    null.String `db:"status"`
		IsActive  null.Bool   `db:"is_active"`
		Order     int         `db:"sort_order"`
		CreatedAt null.Time   `db:"created_at"`
		UpdatedAt null.Time   `db:"updated_at"`
	}
)

func (repo courseRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

// trapNoRowsErr maps psql "no rows" err to course.ErrNotFound
func (repo courseRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return course.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func orderBy(ordering []core.DBOrdering) string {
	if len(ordering) == 0 {
		return ""
	}
	orderList := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		orderList = append(orderList, ord.String())
	}
	return " ORDER BY " + strings.Join(orderList, ", ")
}

// Courses

func (repo courseRepository) courseRow(crs course.Course) courseRow {
	return courseRow{
		ID:          crs.ID,
		Title:       null.NewString(crs.Title, crs.Title != ""),
		Description: null.NewString(crs.Description, crs.Description != ""),
		IsActive:    null.BoolFromPtr(crs.IsActive),
		Order:       crs.Order,
		CreatedAt:   null.NewTime(crs.CreatedAt.UTC(), !crs.CreatedAt.IsZero()),
		UpdatedAt:   null.NewTime(crs.UpdatedAt.UTC(), !crs.UpdatedAt.IsZero()),
	}
}

func (repo courseRepository) unrowCourse(row courseRow) course.Course {
	return course.Course{
		ID:          row.ID,
		Title:       row.Title.String,
		Description: row.Description.String,
		IsActive:    row.IsActive.Ptr(),
		Order:       row.Order,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course, exec ...core.DBExecutor) (course.Course, error) {
	crs.ID = uuid.New().String()
	row := repo.courseRow(crs)
	_, err := repo.getExec(exec).NamedExecContext(ctx, `
		INSERT INTO course (id, title, description, is_active, sort_order, created_at, updated_at)
		VALUES (:id, :title, :description, :is_active, :sort_order, :created_at, :updated_at)`,
		row,
	)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return repo.unrowCourse(row), nil
}

func (repo courseRepository) GetCourse(ctx context.Context, id string, exec ...core.DBExecutor) (course.Course, error) {
	if _, err := uuid.Parse(id); err != nil {
		return course.Course{}, course.ErrNotFound
	}
	var row courseRow
	if err := repo.getExec(exec).GetContext(ctx, &row, `SELECT * FROM course WHERE id = $1`, id); err != nil {
		return course.Course{}, repo.trapNoRowsErr(err, "finding course")
	}
	return repo.unrowCourse(row), nil
}

func (repo courseRepository) QueryCourses(ctx context.Context, onlyActive bool, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]course.Course, error) {
	q := `SELECT * FROM course`
	if onlyActive {
		q += ` WHERE is_active = TRUE`
	}
	q += orderBy(ordering)

	var rows []courseRow
	if err := repo.getExec(exec).SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, repo.unrowCourse(row))
	}
	return courses, nil
}

func (repo courseRepository) UpdateCourse(ctx context.Context, crs course.Course, exec ...core.DBExecutor) (course.Course, error) {
	row := repo.courseRow(crs)
	res, err := repo.getExec(exec).NamedExecContext(ctx, `
		UPDATE course
		SET title = :title, description = :description, is_active = :is_active, sort_order = :sort_order, updated_at = :updated_at
		WHERE id = :id`,
		row,
	)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return repo.unrowCourse(row), nil
}

func (repo courseRepository) DeleteCourse(ctx context.Context, id string, exec ...core.DBExecutor) error {
	res, err := repo.getExec(exec).ExecContext(ctx, `DELETE FROM course WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting course")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return course.ErrNotFound
	}
	return nil
}

// Chapters

func (repo courseRepository) chapterRow(chp course.Chapter) chapterRow {
	return chapterRow{
		ID:        chp.ID,
		CourseID:  chp.CourseID,
		Title:     null.NewString(chp.Title, chp.Title != ""),
		ModuleKey: null.NewString(chp.ModuleKey, chp.ModuleKey != ""),
		IsActive:  null.BoolFromPtr(chp.IsActive),
		Order:     chp.Order,
		CreatedAt: null.NewTime(chp.CreatedAt.UTC(), !chp.CreatedAt.IsZero()),
		UpdatedAt: null.NewTime(chp.UpdatedAt.UTC(), !chp.UpdatedAt.IsZero()),
	}
}

func (repo courseRepository) unrowChapter(row chapterRow) course.Chapter {
	return course.Chapter{
		ID:        row.ID,
		CourseID:  row.CourseID,
		Title:     row.Title.String,
		ModuleKey: row.ModuleKey.String,
		IsActive:  row.IsActive.Ptr(),
		Order:     row.Order,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

func (repo courseRepository) CreateChapter(ctx context.Context, chp course.Chapter, exec ...core.DBExecutor) (course.Chapter, error) {
	chp.ID = uuid.New().String()
	row := repo.chapterRow(chp)
	_, err := repo.getExec(exec).NamedExecContext(ctx, `
		INSERT INTO chapter (id, course_id, title, module_key, is_active, sort_order, created_at, updated_at)
		VALUES (:id, :course_id, :title, :module_key, :is_active, :sort_order, :created_at, :updated_at)`,
		row,
	)
	if err != nil {
		return course.Chapter{}, errors.Wrap(err, "inserting chapter")
	}
	return repo.unrowChapter(row), nil
}

func (repo courseRepository) GetChapter(ctx context.Context, id string, exec ...core.DBExecutor) (course.Chapter, error) {
	if _, err := uuid.Parse(id); err != nil {
		return course.Chapter{}, course.ErrNotFound
	}
	var row chapterRow
	if err := repo.getExec(exec).GetContext(ctx, &row, `SELECT * FROM chapter WHERE id = $1`, id); err != nil {
		return course.Chapter{}, repo.trapNoRowsErr(err, "finding chapter")
	}
	return repo.unrowChapter(row), nil
}

func (repo courseRepository) QueryChapters(ctx context.Context, courseID string, onlyActive bool, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]course.Chapter, error) {
	q := `SELECT * FROM chapter WHERE course_id = $1`
	if onlyActive {
		q += ` AND is_active = TRUE`
	}
	q += orderBy(ordering)

	var rows []chapterRow
	if err := repo.getExec(exec).SelectContext(ctx, &rows, q, courseID); err != nil {
		return nil, errors.Wrap(err, "querying chapters")
	}
	chapters := make([]course.Chapter, 0, len(rows))
	for _, row := range rows {
		chapters = append(chapters, repo.unrowChapter(row))
	}
	return chapters, nil
}

func (repo courseRepository) UpdateChapter(ctx context.Context, chp course.Chapter, exec ...core.DBExecutor) (course.Chapter, error) {
	row := repo.chapterRow(chp)
	res, err := repo.getExec(exec).NamedExecContext(ctx, `
		UPDATE chapter
		SET title = :title, module_key = :module_key, is_active = :is_active, sort_order = :sort_order, updated_at = :updated_at
		WHERE id = :id`,
		row,
	)
	if err != nil {
		return course.Chapter{}, errors.Wrap(err, "updating chapter")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return course.Chapter{}, course.ErrNotFound
	}
	return repo.unrowChapter(row), nil
}

func (repo courseRepository) DeleteChapter(ctx context.Context, id string, exec ...core.DBExecutor) error {
	res, err := repo.getExec(exec).ExecContext(ctx, `DELETE FROM chapter WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting chapter")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return course.ErrNotFound
	}
	return nil
}

// Videos

func (repo courseRepository) videoRow(vid course.Video) videoRow {
	return videoRow{
		ID:        vid.ID,
		ChapterID: vid.ChapterID,
		Title:     null.NewString(vid.Title, vid.Title != ""),
		AssetID:   null.NewString(vid.AssetID, vid.AssetID != ""),
		Status:    null.NewString(vid.Status, vid.Status != ""),
		IsActive:  null.BoolFromPtr(vid.IsActive),
		Order:     vid.Order,
		CreatedAt: null.NewTime(vid.CreatedAt.UTC(), !vid.CreatedAt.IsZero()),
		UpdatedAt: null.NewTime(vid.UpdatedAt.UTC(), !vid.UpdatedAt.IsZero()),
	}
}

func (repo courseRepository) unrowVideo(row videoRow) course.Video {
	return course.Video{
		ID:        row.ID,
		ChapterID: row.ChapterID,
		Title:     row.Title.String,
		AssetID:   row.AssetID.String,
		Status:    row.Status.String,
		IsActive:  row.IsActive.Ptr(),
		Order:     row.Order,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

func (repo courseRepository) CreateVideo(ctx context.Context, vid course.Video, exec ...core.DBExecutor) (course.Video, error) {
	vid.ID = uuid.New().String()
	row := repo.videoRow(vid)
	_, err := repo.getExec(exec).NamedExecContext(ctx, `
		INSERT INTO video (id, chapter_id, title, asset_id, status, is_active, sort_order, created_at, updated_at)
		VALUES (:id, :chapter_id, :title, :asset_id, :status, :is_active, :sort_order, :created_at, :updated_at)`,
		row,
	)
	if err != nil {
		return course.Video{}, errors.Wrap(err, "inserting video")
	}
	return repo.unrowVideo(row), nil
}

func (repo courseRepository) GetVideo(ctx context.Context, id string, exec ...core.DBExecutor) (course.Video, error) {
	if _, err := uuid.Parse(id); err != nil {
		return course.Video{}, course.ErrNotFound
	}
	var row videoRow
	if err := repo.getExec(exec).GetContext(ctx, &row, `SELECT * FROM video WHERE id = $1`, id); err != nil {
		return course.Video{}, repo.trapNoRowsErr(err, "finding video")
	}
	return repo.unrowVideo(row), nil
}

func (repo courseRepository) GetVideoByAssetID(ctx context.Context, assetID string, exec ...core.DBExecutor) (course.Video, error) {
	var row videoRow
	if err := repo.getExec(exec).GetContext(ctx, &row, `SELECT * FROM video WHERE asset_id = $1`, assetID); err != nil {
		return course.Video{}, repo.trapNoRowsErr(err, "finding video by asset ID")
	}
	return repo.unrowVideo(row), nil
}

func (repo courseRepository) QueryVideos(ctx context.Context, chapterID string, onlyActive bool, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]course.Video, error) {
	q := `SELECT * FROM video WHERE chapter_id = $1`
	if onlyActive {
		q += ` AND is_active = TRUE`
	}
	q += orderBy(ordering)

	var rows []videoRow
	if err := repo.getExec(exec).SelectContext(ctx, &rows, q, chapterID); err != nil {
		return nil, errors.Wrap(err, "querying videos")
	}
	videos := make([]course.Video, 0, len(rows))
	for _, row := range rows {
		videos = append(videos, repo.unrowVideo(row))
	}
	return videos, nil
}

func (repo courseRepository) UpdateVideo(ctx context.Context, vid course.Video, exec ...core.DBExecutor) (course.Video, error) {
	row := repo.videoRow(vid)
	res, err := repo.getExec(exec).NamedExecContext(ctx, `
		UPDATE video
		SET title = :title, asset_id = :asset_id, status = :status, is_active = :is_active, sort_order = :sort_order, updated_at = :updated_at
		WHERE id = :id`,
		row,
	)
	if err != nil {
		return course.Video{}, errors.Wrap(err, "updating video")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return course.Video{}, course.ErrNotFound
	}
	return repo.unrowVideo(row), nil
}

func (repo courseRepository) DeleteVideo(ctx context.Context, id string, exec ...core.DBExecutor) error {
	res, err := repo.getExec(exec).ExecContext(ctx, `DELETE FROM video WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting video")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return course.ErrNotFound
	}
	return nil
}
