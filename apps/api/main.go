package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/darasahq/darasa/apps/api/echo"
	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/document"
	"github.com/darasahq/darasa/core/quiz"
	"github.com/darasahq/darasa/core/user"
	"github.com/darasahq/darasa/services/email"
	"github.com/darasahq/darasa/services/logger"
	"github.com/darasahq/darasa/storage/cache"
	"github.com/darasahq/darasa/storage/database"
	"github.com/darasahq/darasa/storage/database/sqlxrepos"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(std, core.Conf)
	logger.Enable(!core.Conf.Debug)

	if err := run(logger); err != nil {
		logger.Fatal("running server", err)
	}
}

func run(logger core.Logger) error {
	// set up DB
	if err := database.CreateIfNotExist(core.Conf); err != nil {
		return err
	}
	db, err := database.Open(core.Conf)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(db.DB); err != nil {
		return err
	}

	// set up Redis; the blueprint cache is optional and the API degrades to
	// store-only memoization without it
	var bpCache quiz.BlueprintCache
	if core.Conf.Redis.Addr != "" {
		if rdb, err := cache.Open(core.Conf); err != nil {
			logger.Warn("redis unavailable; blueprint caching disabled", err)
		} else {
			defer rdb.Close()
			bpCache = cache.NewBlueprintCache(rdb, core.Conf.Redis.BlueprintTTL)
		}
	}

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc, core.Conf)
	crsSvc := course.NewService(sqlxrepos.NewCourseRepository(db))
	quizSvc := quiz.NewService(sqlxrepos.NewQuizRepository(db), bpCache, logger)
	docSvc := document.NewService(sqlxrepos.NewDocumentRepository(db))

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:     core.Conf.Addr(),
			UserSvc:     usrSvc,
			CourseSvc:   crsSvc,
			QuizSvc:     quizSvc,
			DocumentSvc: docSvc,
			Logger:      logger,
		},
	)
	go app.Start()

	// block on shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		logger.Info("shutdown signal received: " + sig.String())
	case <-app.ShutdownSignal():
		logger.Info("unrecoverable server error; shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), core.Conf.Server.ShutdownTimeout)
	defer cancel()
	return app.Stop(ctx)
}
