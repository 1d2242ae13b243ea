package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/document"
	"github.com/darasahq/darasa/core/quiz"
)

type quizApi struct {
	svc    quiz.ServiceInterface
	docSvc document.ServiceInterface
}

func registerQuizAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc quiz.ServiceInterface, docSvc document.ServiceInterface) {
	api := quizApi{svc: svc, docSvc: docSvc}

	qg := g.Group("/quiz", jwt, authorizeMiddleware(core.RequireActive()))
	qg.POST("/sessions", api.startSession)
	qg.GET("/sessions", api.mySessions)
	qg.GET("/sessions/:id", api.retrieveSession)
	qg.POST("/sessions/:id/results", api.submitResult)
	qg.GET("/sessions/:id/results", api.sessionResults)
	qg.POST("/blueprints", api.generateBlueprint)
	qg.GET("/profile", api.profile)
}

func (api *quizApi) startSession(ctx echo.Context) error {
	var data quiz.NewSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSession")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	ses, err := api.svc.StartSession(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "starting session")
	}
	return ctx.JSON(http.StatusCreated, ses)
}

func (api *quizApi) mySessions(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sessions, err := api.svc.UserSessions(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying sessions")
	}
	if sessions == nil {
		sessions = []quiz.Session{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"sessions": sessions})
}

// getOwnedSession loads the session and gates it on ownership; a session
// belonging to another user is reported as not found to non-admins.
func (api *quizApi) getOwnedSession(ctx echo.Context) (quiz.Session, error) {
	ses, err := api.svc.GetSession(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == quiz.ErrNotFound {
			return quiz.Session{}, errHttpNotFound
		}
		return quiz.Session{}, errors.Wrap(err, "getting session")
	}
	if err := ownerOrAdmin(ctx, ses.UserID); err != nil {
		return quiz.Session{}, errHttpNotFound
	}
	return ses, nil
}

func (api *quizApi) retrieveSession(ctx echo.Context) error {
	ses, err := api.getOwnedSession(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ses)
}

func (api *quizApi) submitResult(ctx echo.Context) error {
	ses, err := api.getOwnedSession(ctx)
	if err != nil {
		return err
	}

	var data quiz.SubmitResult
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitResult")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	res, err := api.svc.SubmitResult(ctx.Request().Context(), ses.ID, data)
	if err != nil {
		if _, ok := errors.Cause(err).(*core.ValidationError); ok {
			return err
		}
		return errors.Wrap(err, "submitting result")
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *quizApi) sessionResults(ctx echo.Context) error {
	ses, err := api.getOwnedSession(ctx)
	if err != nil {
		return err
	}

	results, err := api.svc.SessionResults(ctx.Request().Context(), ses.ID)
	if err != nil {
		return errors.Wrap(err, "querying results")
	}
	if results == nil {
		results = []quiz.Result{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"results": results})
}

func (api *quizApi) generateBlueprint(ctx echo.Context) error {
	var data quiz.BlueprintRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BlueprintRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	bp, err := api.svc.GenerateBlueprint(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "generating blueprint")
	}
	return ctx.JSON(http.StatusOK, bp)
}

// profile serves the caller's most recently created processed document. Having
// none yet is a success with a null profile, not an error.
func (api *quizApi) profile(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	doc, err := api.docSvc.LatestProfile(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "getting latest profile")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "profile": doc})
}
