package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/document"
	"github.com/darasahq/darasa/core/user"
)

type documentApi struct {
	svc    document.ServiceInterface
	usrSvc user.ServiceInterface
}

func registerDocumentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc document.ServiceInterface, usrSvc user.ServiceInterface) {
	api := documentApi{svc: svc, usrSvc: usrSvc}

	ig := g.Group("/intake", jwt, authorizeMiddleware(core.RequireActive()))
	ig.POST("", api.submitIntake)
	ig.GET("", api.getIntake)

	// extraction payloads are appended by admins on behalf of a user
	dg := g.Group("/admin/users/:id/documents", jwt, adminMiddleware())
	dg.POST("", api.addDocument)
	dg.GET("", api.listDocuments)
}

// submitIntake upserts the caller's intake; resubmission overwrites the stored
// answers.
func (api *documentApi) submitIntake(ctx echo.Context) error {
	var data document.SubmitIntake
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitIntake")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	in, err := api.svc.SubmitIntake(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "submitting intake")
	}
	return ctx.JSON(http.StatusOK, in)
}

func (api *documentApi) getIntake(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	in, err := api.svc.GetIntake(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Cause(err) == document.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting intake")
	}
	return ctx.JSON(http.StatusOK, in)
}

func (api *documentApi) addDocument(ctx echo.Context) error {
	var data document.NewProcessedDocument
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProcessedDocument")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	// the target user must exist
	usr, err := api.usrSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting user")
	}

	doc, err := api.svc.AddProcessedDocument(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding processed document")
	}
	return ctx.JSON(http.StatusCreated, doc)
}

func (api *documentApi) listDocuments(ctx echo.Context) error {
	docs, err := api.svc.UserProcessedDocuments(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying processed documents")
	}
	if docs == nil {
		docs = []document.ProcessedDocument{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"documents": docs})
}
