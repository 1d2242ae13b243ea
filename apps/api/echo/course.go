package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/course"
)

type courseApi struct {
	svc course.ServiceInterface
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc course.ServiceInterface) {
	api := courseApi{svc: svc}

	// public catalogue: active rows only, in display order
	cg := g.Group("/courses")
	cg.GET("", api.list)
	cg.GET("/:id", api.retrieve)

	// admin management endpoints
	ag := g.Group("/admin/courses", jwt, adminMiddleware())
	ag.GET("", api.listAll)
	ag.POST("", api.create)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
	ag.POST("/:id/chapters", api.createChapter)

	chg := g.Group("/admin/chapters", jwt, adminMiddleware())
	chg.PUT("/:id", api.updateChapter)
	chg.DELETE("/:id", api.destroyChapter)
	chg.POST("/:id/videos", api.createVideo)

	vg := g.Group("/admin/videos", jwt, adminMiddleware())
	vg.PUT("/:id", api.updateVideo)
	vg.DELETE("/:id", api.destroyVideo)
}

func (api *courseApi) list(ctx echo.Context) error {
	courses, err := api.svc.ListCourses(ctx.Request().Context(), false /* includeInactive */)
	if err != nil {
		return errors.Wrap(err, "listing courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"courses": courses})
}

func (api *courseApi) listAll(ctx echo.Context) error {
	courses, err := api.svc.ListCourses(ctx.Request().Context(), true /* includeInactive */)
	if err != nil {
		return errors.Wrap(err, "listing courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"courses": courses})
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	detail, err := api.svc.GetCourseDetail(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting course detail")
	}
	return ctx.JSON(http.StatusOK, detail)
}

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	crs, err := api.svc.CreateCourse(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseApi) update(ctx echo.Context) error {
	var data course.UpdateCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	crs, err := api.svc.UpdateCourse(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	if err := api.svc.DeleteCourse(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) createChapter(ctx echo.Context) error {
	var data course.NewChapter
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewChapter")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	chp, err := api.svc.CreateChapter(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "creating chapter")
	}
	return ctx.JSON(http.StatusCreated, chp)
}

func (api *courseApi) updateChapter(ctx echo.Context) error {
	var data course.UpdateChapter
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateChapter")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	chp, err := api.svc.UpdateChapter(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating chapter")
	}
	return ctx.JSON(http.StatusOK, chp)
}

func (api *courseApi) destroyChapter(ctx echo.Context) error {
	if err := api.svc.DeleteChapter(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting chapter")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) createVideo(ctx echo.Context) error {
	var data course.NewVideo
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewVideo")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	vid, err := api.svc.CreateVideo(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "creating video")
	}
	return ctx.JSON(http.StatusCreated, vid)
}

func (api *courseApi) updateVideo(ctx echo.Context) error {
	var data course.UpdateVideo
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateVideo")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	vid, err := api.svc.UpdateVideo(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating video")
	}
	return ctx.JSON(http.StatusOK, vid)
}

func (api *courseApi) destroyVideo(ctx echo.Context) error {
	if err := api.svc.DeleteVideo(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting video")
	}
	return ctx.NoContent(http.StatusNoContent)
}
