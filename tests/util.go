package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/document"
	"github.com/darasahq/darasa/core/quiz"
	"github.com/darasahq/darasa/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd, role string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	if role == "" {
		role = user.RoleUser
	}
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		IsActive:  &isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCourse(
	t *testing.T,
	repo course.Repository,
	title string,
	order int,
	isActive bool,
	createdAt ...time.Time,
) course.Course {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	crs, err := repo.CreateCourse(context.Background(), course.Course{
		Title:     title,
		IsActive:  &isActive,
		Order:     order,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

func CreateChapter(
	t *testing.T,
	repo course.Repository,
	courseID, title, moduleKey string,
	order int,
	isActive bool,
) course.Chapter {
	t.Helper()

	tstamp := time.Now().UTC()
	chp, err := repo.CreateChapter(context.Background(), course.Chapter{
		CourseID:  courseID,
		Title:     title,
		ModuleKey: moduleKey,
		IsActive:  &isActive,
		Order:     order,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateChapter() failed: %v", err)
	}
	return chp
}

func CreateVideo(
	t *testing.T,
	repo course.Repository,
	chapterID, title, assetID, status string,
	order int,
	isActive bool,
) course.Video {
	t.Helper()

	tstamp := time.Now().UTC()
	vid, err := repo.CreateVideo(context.Background(), course.Video{
		ChapterID: chapterID,
		Title:     title,
		AssetID:   assetID,
		Status:    status,
		IsActive:  &isActive,
		Order:     order,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateVideo() failed: %v", err)
	}
	return vid
}

func CreateSession(
	t *testing.T,
	repo quiz.Repository,
	userID string,
	questionIDs []string,
) quiz.Session {
	t.Helper()

	ses, err := repo.CreateSession(context.Background(), quiz.Session{
		UserID:      userID,
		QuestionIDs: questionIDs,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
	return ses
}

func CreateProcessedDocument(
	t *testing.T,
	repo document.Repository,
	userID, kind string,
	payload map[string]interface{},
	createdAt ...time.Time,
) document.ProcessedDocument {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	doc, err := repo.CreateProcessedDocument(context.Background(), document.ProcessedDocument{
		UserID:    userID,
		Kind:      kind,
		Payload:   payload,
		CreatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateProcessedDocument() failed: %v", err)
	}
	return doc
}
