package tests

import (
	"fmt"
	"os"
	"testing"

	echoapi "github.com/darasahq/darasa/apps/api/echo"
	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/document"
	"github.com/darasahq/darasa/core/quiz"
	"github.com/darasahq/darasa/core/user"
	emailsvc "github.com/darasahq/darasa/services/email"
	inmemdb "github.com/darasahq/darasa/storage/database/inmem"
)

var (
	db  *inmemdb.DB
	app echoapi.Server

	usrRepo  user.Repository
	crsRepo  course.Repository
	quizRepo quiz.Repository
	docRepo  document.Repository

	usrSvc user.ServiceInterface
)

func TestMain(m *testing.M) {
	core.Conf.TestMode = true
	core.Conf.VideoHost.WebhookSecret = "test-webhook-secret"

	// set up DB & repos
	var err error
	if db, err = inmemdb.Open(); err != nil {
		fmt.Printf("inmemdb.Open(): %v", err)
		os.Exit(1)
	}
	usrRepo = inmemdb.NewUserRepository(db)
	crsRepo = inmemdb.NewCourseRepository(db)
	quizRepo = inmemdb.NewQuizRepository(db)
	docRepo = inmemdb.NewDocumentRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc = user.NewServiceMock(usrRepo, mailSvc, core.Conf)
	crsSvc := course.NewService(crsRepo)
	quizSvc := quiz.NewService(quizRepo, nil /* cache */, nopLogger{})
	docSvc := document.NewService(docRepo)

	// set up server
	app = echoapi.NewServer(
		&echoapi.Options{
			DisableReqLogs: true,
			UserSvc:        usrSvc,
			CourseSvc:      crsSvc,
			QuizSvc:        quizSvc,
			DocumentSvc:    docSvc,
			Logger:         nopLogger{},
		},
	)

	os.Exit(m.Run())
}
