package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa/core/quiz"
	testutil "github.com/darasahq/darasa/tests"
)

func Test_quizApi_sessions(t *testing.T) {
	resetDB(t)

	usr := testutil.CreateUser(t, usrRepo, "User", "awe@test.cd", "", "", true)
	other := testutil.CreateUser(t, usrRepo, "Other", "other@test.cd", "", "", true)
	token := getToken(t, usr)

	// start
	body := marchallObj(t, echo.Map{"question_ids": []string{"q1", "q2", "q3"}})
	req, rec := newAuthRequest(http.MethodPost, "/v1/quiz/sessions", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start session failed! code = %v; body = %s", rec.Code, rec.Body.String())
	}
	var ses quiz.Session
	if err := json.Unmarshal(rec.Body.Bytes(), &ses); err != nil {
		t.Fatalf("unmarshalling session: %v", err)
	}
	if ses.UserID != usr.ID {
		t.Errorf("session.UserID = %q; want %q", ses.UserID, usr.ID)
	}

	// empty question list is rejected
	req, rec = newAuthRequest(http.MethodPost, "/v1/quiz/sessions", token, marchallObj(t, echo.Map{"question_ids": []string{}}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty session code = %v; want %v", rec.Code, http.StatusBadRequest)
	}

	// another user's session reads as not found
	req, rec = newAuthRequest(http.MethodGet, "/v1/quiz/sessions/"+ses.ID, getToken(t, other))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("foreign session code = %v; want %v", rec.Code, http.StatusNotFound)
	}

	// owner retrieves it
	req, rec = newAuthRequest(http.MethodGet, "/v1/quiz/sessions/"+ses.ID, token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, ses)}, rec)
}

func Test_quizApi_results(t *testing.T) {
	resetDB(t)

	usr := testutil.CreateUser(t, usrRepo, "User", "awe@test.cd", "", "", true)
	other := testutil.CreateUser(t, usrRepo, "Other", "other@test.cd", "", "", true)
	ses := testutil.CreateSession(t, quizRepo, usr.ID, []string{"q1", "q2"})
	token := getToken(t, usr)

	submit := func(token string, body []byte) *http.Response {
		req, rec := newAuthRequest(http.MethodPost, "/v1/quiz/sessions/"+ses.ID+"/results", token, body)
		app.ServeHTTP(rec, req)
		return rec.Result()
	}

	// only the owner submits
	body := marchallObj(t, echo.Map{"question_id": "q1", "answer": "A", "correct": true, "score": 1.0, "time_spent": 12})
	if res := submit(getToken(t, other), body); res.StatusCode != http.StatusNotFound {
		t.Errorf("foreign submit code = %v; want %v", res.StatusCode, http.StatusNotFound)
	}

	// a question outside the session is rejected
	badBody := marchallObj(t, echo.Map{"question_id": "q9", "answer": "A"})
	if res := submit(token, badBody); res.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown question code = %v; want %v", res.StatusCode, http.StatusBadRequest)
	}

	if res := submit(token, body); res.StatusCode != http.StatusCreated {
		t.Fatalf("submit code = %v; want %v", res.StatusCode, http.StatusCreated)
	}

	// resubmission overwrites, not duplicates
	body = marchallObj(t, echo.Map{"question_id": "q1", "answer": "B", "correct": false, "score": 0.0, "time_spent": 30})
	if res := submit(token, body); res.StatusCode != http.StatusCreated {
		t.Fatalf("resubmit code = %v; want %v", res.StatusCode, http.StatusCreated)
	}

	req, rec := newAuthRequest(http.MethodGet, "/v1/quiz/sessions/"+ses.ID+"/results", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("results failed! code = %v; body = %s", rec.Code, rec.Body.String())
	}
	var data struct {
		Results []quiz.Result `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("unmarshalling results: %v", err)
	}
	if len(data.Results) != 1 {
		t.Fatalf("len(results) = %d; want 1", len(data.Results))
	}
	if res := data.Results[0]; res.Answer != "B" || res.Correct {
		t.Errorf("resubmission must overwrite the stored answer; got %+v", res)
	}
}

func Test_quizApi_blueprintMemoization(t *testing.T) {
	resetDB(t)

	usr := testutil.CreateUser(t, usrRepo, "User", "awe@test.cd", "", "", true)
	token := getToken(t, usr)

	generate := func(body []byte) quiz.Blueprint {
		req, rec := newAuthRequest(http.MethodPost, "/v1/quiz/blueprints", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("generate failed! code = %v; body = %s", rec.Code, rec.Body.String())
		}
		var bp quiz.Blueprint
		if err := json.Unmarshal(rec.Body.Bytes(), &bp); err != nil {
			t.Fatalf("unmarshalling blueprint: %v", err)
		}
		return bp
	}

	body := marchallObj(t, echo.Map{"category_counts": map[string]int{"algebra": 5, "geometry": 3}})
	// key ordering in the request must not change the content hash
	samePayload := marchallObj(t, echo.Map{"category_counts": map[string]int{"geometry": 3, "algebra": 5}})
	otherBody := marchallObj(t, echo.Map{"category_counts": map[string]int{"algebra": 5}})

	bp1 := generate(body)
	bp2 := generate(samePayload)
	bp3 := generate(otherBody)

	if bp1.ID != bp2.ID || bp1.ContentHash != bp2.ContentHash {
		t.Error("repeat generation requests must be memoized")
	}
	if bp1.ID == bp3.ID {
		t.Error("distinct requests must generate distinct blueprints")
	}
	if bp1.GeneratorVersion == "" {
		t.Error("blueprint must carry generator provenance")
	}
}

func Test_quizApi_profile(t *testing.T) {
	resetDB(t)

	usr := testutil.CreateUser(t, usrRepo, "User", "awe@test.cd", "", "", true)
	token := getToken(t, usr)

	// auth required
	req, rec := newRequest(http.MethodGet, "/v1/quiz/profile")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)

	// zero documents is a success with a null profile
	req, rec = newAuthRequest(http.MethodGet, "/v1/quiz/profile", token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, echo.Map{"success": true, "profile": nil}),
	}, rec)

	// the most recently created document wins
	now := time.Now()
	testutil.CreateProcessedDocument(t, docRepo, usr.ID, "summary", map[string]interface{}{"level": "novice"}, now.Add(-time.Hour))
	latest := testutil.CreateProcessedDocument(t, docRepo, usr.ID, "summary", map[string]interface{}{"level": "adept"}, now)

	req, rec = newAuthRequest(http.MethodGet, "/v1/quiz/profile", token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, echo.Map{"success": true, "profile": latest}),
	}, rec)
}
