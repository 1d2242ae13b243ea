package tests

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
	testutil "github.com/darasahq/darasa/tests"
)

func signBody(body []byte) string {
	mac := hmac.New(sha256.New, []byte(core.Conf.VideoHost.WebhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func Test_webhookApi_videoStatus(t *testing.T) {
	resetDB(t)

	crs := testutil.CreateCourse(t, crsRepo, "Algebra I", 1, true)
	chp := testutil.CreateChapter(t, crsRepo, crs.ID, "Basics", course.ModuleKeyIntro, 1, true)
	vid := testutil.CreateVideo(t, crsRepo, chp.ID, "Welcome", "asset-1", course.VideoStatusPreparing, 1, true)

	post := func(body []byte, signature string) *httptest.ResponseRecorder {
		req, rec := newRequest(http.MethodPost, "/v1/webhooks/video", body)
		if signature != "" {
			req.Header.Set("X-Webhook-Signature", signature)
		}
		app.ServeHTTP(rec, req)
		return rec
	}

	body := marchallObj(t, echo.Map{"asset_id": vid.AssetID, "status": course.VideoStatusReady})

	// missing and invalid signatures are rejected without touching the store
	for _, sig := range []string{"", "deadbeef"} {
		rec := post(body, sig)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("bad signature code = %v; want %v", rec.Code, http.StatusUnauthorized)
		}
	}
	stored, err := crsRepo.GetVideo(context.Background(), vid.ID)
	if err != nil {
		t.Fatalf("GetVideo(): %v", err)
	}
	if stored.Status != course.VideoStatusPreparing {
		t.Fatal("rejected webhook must not update the status")
	}

	// unknown asset
	unknown := marchallObj(t, echo.Map{"asset_id": "asset-404", "status": course.VideoStatusReady})
	if rec := post(unknown, signBody(unknown)); rec.Code != http.StatusNotFound {
		t.Errorf("unknown asset code = %v; want %v", rec.Code, http.StatusNotFound)
	}

	// unknown status value
	badStatus := marchallObj(t, echo.Map{"asset_id": vid.AssetID, "status": "lol"})
	if rec := post(badStatus, signBody(badStatus)); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown status code = %v; want %v", rec.Code, http.StatusBadRequest)
	}

	// valid callback moves the video to the reported status
	rec := post(body, signBody(body))
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, echo.Map{"success": true})}, rec)

	stored, err = crsRepo.GetVideo(context.Background(), vid.ID)
	if err != nil {
		t.Fatalf("GetVideo(): %v", err)
	}
	if stored.Status != course.VideoStatusReady {
		t.Errorf("video status = %q; want %q", stored.Status, course.VideoStatusReady)
	}
}
