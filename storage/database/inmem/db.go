package inmemdb

import (
	"sync"

	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/document"
	"github.com/darasahq/darasa/core/quiz"
	"github.com/darasahq/darasa/core/user"
)

type (
	DB struct {
		user     *userTable
		course   *courseTable
		quiz     *quizTable
		document *documentTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	courseTable struct {
		sync.RWMutex
		courses  map[string]*course.Course
		chapters map[string]*course.Chapter
		videos   map[string]*course.Video
	}

	quizTable struct {
		sync.RWMutex
		sessions   map[string]*quiz.Session
		results    map[string]*quiz.Result
		blueprints map[string]*quiz.Blueprint
	}

	documentTable struct {
		sync.RWMutex
		intakes map[string]*document.Intake // by user ID
		docs    map[string]*document.ProcessedDocument
	}
)

// Reset drops all rows; test isolation.
func (db *DB) Reset() {
	db.user.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.Unlock()

	db.course.Lock()
	db.course.courses = make(map[string]*course.Course)
	db.course.chapters = make(map[string]*course.Chapter)
	db.course.videos = make(map[string]*course.Video)
	db.course.Unlock()

	db.quiz.Lock()
	db.quiz.sessions = make(map[string]*quiz.Session)
	db.quiz.results = make(map[string]*quiz.Result)
	db.quiz.blueprints = make(map[string]*quiz.Blueprint)
	db.quiz.Unlock()

	db.document.Lock()
	db.document.intakes = make(map[string]*document.Intake)
	db.document.docs = make(map[string]*document.ProcessedDocument)
	db.document.Unlock()
}

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
		course: &courseTable{
			courses:  make(map[string]*course.Course),
			chapters: make(map[string]*course.Chapter),
			videos:   make(map[string]*course.Video),
		},
		quiz: &quizTable{
			sessions:   make(map[string]*quiz.Session),
			results:    make(map[string]*quiz.Result),
			blueprints: make(map[string]*quiz.Blueprint),
		},
		document: &documentTable{
			intakes: make(map[string]*document.Intake),
			docs:    make(map[string]*document.ProcessedDocument),
		},
	}
	return db, nil
}
