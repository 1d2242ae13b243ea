package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/user"
	testutil "github.com/darasahq/darasa/tests"
)

func Test_courseApi_publicListing(t *testing.T) {
	resetDB(t)

	now := time.Now()
	second := testutil.CreateCourse(t, crsRepo, "Algebra II", 2, true)
	first := testutil.CreateCourse(t, crsRepo, "Algebra I", 1, true)
	testutil.CreateCourse(t, crsRepo, "Drafts", 3, false) // inactive, hidden
	// order ties break on creation time
	tieOld := testutil.CreateCourse(t, crsRepo, "Geometry", 4, true, now.Add(-time.Hour))
	tieNew := testutil.CreateCourse(t, crsRepo, "Trigonometry", 4, true, now)

	tt := httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, echo.Map{"courses": []course.Course{first, second, tieOld, tieNew}}),
	}
	req, rec := newRequest(http.MethodGet, "/v1/courses")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}

func Test_courseApi_detail(t *testing.T) {
	resetDB(t)

	crs := testutil.CreateCourse(t, crsRepo, "Algebra I", 1, true)
	chp1 := testutil.CreateChapter(t, crsRepo, crs.ID, "Basics", course.ModuleKeyIntro, 1, true)
	chp2 := testutil.CreateChapter(t, crsRepo, crs.ID, "Equations", course.ModuleKeyTheory, 2, true)
	testutil.CreateChapter(t, crsRepo, crs.ID, "WIP", course.ModuleKeyPractice, 3, false) // hidden
	vid := testutil.CreateVideo(t, crsRepo, chp1.ID, "Welcome", "asset-1", course.VideoStatusReady, 1, true)
	testutil.CreateVideo(t, crsRepo, chp1.ID, "Old Take", "asset-2", course.VideoStatusDeleted, 2, false) // hidden

	req, rec := newRequest(http.MethodGet, "/v1/courses/"+crs.ID)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("detail failed! code = %v; body = %s", rec.Code, rec.Body.String())
	}

	var detail course.CourseDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("unmarshalling detail: %v", err)
	}
	if detail.ID != crs.ID {
		t.Errorf("detail.ID = %q; want %q", detail.ID, crs.ID)
	}
	if len(detail.Chapters) != 2 {
		t.Fatalf("len(detail.Chapters) = %d; want 2", len(detail.Chapters))
	}
	if detail.Chapters[0].ID != chp1.ID || detail.Chapters[1].ID != chp2.ID {
		t.Error("chapters are not in display order")
	}
	if len(detail.Chapters[0].Videos) != 1 || detail.Chapters[0].Videos[0].ID != vid.ID {
		t.Error("inactive videos must be hidden from the detail")
	}

	// unknown course
	req, rec = newRequest(http.MethodGet, "/v1/courses/4242")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown course code = %v; want %v", rec.Code, http.StatusNotFound)
	}
}

func Test_courseApi_adminCRUD(t *testing.T) {
	resetDB(t)

	active := testutil.CreateUser(t, usrRepo, "Active", "active@test.cd", "", "", true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, true)
	adminToken := getToken(t, admin)

	body := marchallObj(t, echo.Map{"title": "Algebra I", "description": "intro algebra", "order": 1})

	// gating
	req, rec := newRequest(http.MethodPost, "/v1/admin/courses", body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous create code = %v; want %v", rec.Code, http.StatusUnauthorized)
	}
	req, rec = newAuthRequest(http.MethodPost, "/v1/admin/courses", getToken(t, active), body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("non-admin create code = %v; want %v", rec.Code, http.StatusUnauthorized)
	}

	// create
	req, rec = newAuthRequest(http.MethodPost, "/v1/admin/courses", adminToken, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed! code = %v; body = %s", rec.Code, rec.Body.String())
	}
	var crs course.Course
	if err := json.Unmarshal(rec.Body.Bytes(), &crs); err != nil {
		t.Fatalf("unmarshalling course: %v", err)
	}
	if !crs.Active() {
		t.Error("new course must be active")
	}

	// invalid module key on chapter create
	chBody := marchallObj(t, echo.Map{"title": "Basics", "module_key": "lol", "order": 1})
	req, rec = newAuthRequest(http.MethodPost, "/v1/admin/courses/"+crs.ID+"/chapters", adminToken, chBody)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid module key code = %v; want %v", rec.Code, http.StatusBadRequest)
	}

	// chapter under a missing course
	chBody = marchallObj(t, echo.Map{"title": "Basics", "module_key": course.ModuleKeyIntro, "order": 1})
	req, rec = newAuthRequest(http.MethodPost, "/v1/admin/courses/4242/chapters", adminToken, chBody)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("chapter under missing course code = %v; want %v", rec.Code, http.StatusNotFound)
	}

	// chapter + video create
	req, rec = newAuthRequest(http.MethodPost, "/v1/admin/courses/"+crs.ID+"/chapters", adminToken, chBody)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("chapter create failed! code = %v; body = %s", rec.Code, rec.Body.String())
	}
	var chp course.Chapter
	if err := json.Unmarshal(rec.Body.Bytes(), &chp); err != nil {
		t.Fatalf("unmarshalling chapter: %v", err)
	}

	vidBody := marchallObj(t, echo.Map{"title": "Welcome", "asset_id": "asset-1", "order": 1})
	req, rec = newAuthRequest(http.MethodPost, "/v1/admin/chapters/"+chp.ID+"/videos", adminToken, vidBody)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("video create failed! code = %v; body = %s", rec.Code, rec.Body.String())
	}
	var vid course.Video
	if err := json.Unmarshal(rec.Body.Bytes(), &vid); err != nil {
		t.Fatalf("unmarshalling video: %v", err)
	}
	if vid.Status != course.VideoStatusPreparing {
		t.Errorf("new video status = %q; want %q", vid.Status, course.VideoStatusPreparing)
	}

	// delete
	req, rec = newAuthRequest(http.MethodDelete, "/v1/admin/videos/"+vid.ID, adminToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("video delete code = %v; want %v", rec.Code, http.StatusNoContent)
	}
}
