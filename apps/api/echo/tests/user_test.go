package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa/core/user"
	testutil "github.com/darasahq/darasa/tests"
)

func Test_userApi_pending(t *testing.T) {
	resetDB(t)

	now := time.Now()
	pending1 := testutil.CreateUser(t, usrRepo, "Early Bird", "early@test.cd", "", "", false, now.Add(-2*time.Hour))
	pending2 := testutil.CreateUser(t, usrRepo, "Late Comer", "late@test.cd", "", "", false, now.Add(-1*time.Hour))
	active := testutil.CreateUser(t, usrRepo, "Active", "active@test.cd", "", "", true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, true)
	testutil.CreateUser(t, usrRepo, "Idle Admin", "idle-admin@test.cd", "", user.RoleAdmin, false) // excluded: admin role

	tests := []httpTest{
		{
			name: "Auth required", path: "/v1/admin/users/pending", wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Admin required", path: "/v1/admin/users/pending", token: getToken(t, active),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Newest first, admins and actives excluded", path: "/v1/admin/users/pending", token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marchallObj(t, echo.Map{"users": []user.User{pending2, pending1}}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_register(t *testing.T) {
	resetDB(t)

	body := marchallObj(t, echo.Map{
		"name":             "Jane Doe",
		"email":            "jane@test.cd",
		"password":         "s3kr3tawe",
		"password_confirm": "s3kr3tawe",
	})
	req, rec := newRequest(http.MethodPost, "/v1/users/register", body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed! code = %v; body = %s", rec.Code, rec.Body.String())
	}

	usr, err := usrRepo.GetUser(context.Background(), user.GetFilter{Email: "jane@test.cd"})
	if err != nil {
		t.Fatalf("GetUser(): %v", err)
	}
	if usr.Active() {
		t.Error("registered user must be inactive until approved")
	}
	if usr.Role != user.RoleUser {
		t.Errorf("registered user role = %q; want %q", usr.Role, user.RoleUser)
	}

	// duplicate email is rejected
	req, rec = newRequest(http.MethodPost, "/v1/users/register", body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate register code = %v; want %v", rec.Code, http.StatusBadRequest)
	}
}

func Test_userApi_activate(t *testing.T) {
	resetDB(t)

	pending := testutil.CreateUser(t, usrRepo, "Pending", "pending@test.cd", "s3kr3tawe", "", false)
	active := testutil.CreateUser(t, usrRepo, "Active", "active@test.cd", "", "", true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, true)

	login := func() *http.Response {
		body := marchallObj(t, echo.Map{"email": pending.Email, "password": "s3kr3tawe"})
		req, rec := newRequest(http.MethodPost, "/v1/users/login", body)
		app.ServeHTTP(rec, req)
		return rec.Result()
	}

	// login is denied while the account awaits approval
	if res := login(); res.StatusCode != http.StatusForbidden {
		t.Errorf("pre-activation login code = %v; want %v", res.StatusCode, http.StatusForbidden)
	}

	// activation is admin-gated and performs no mutation on deny
	req, rec := newAuthRequest(http.MethodPost, "/v1/admin/users/"+pending.ID+"/activate", getToken(t, active))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("non-admin activate code = %v; want %v", rec.Code, http.StatusUnauthorized)
	}
	usr, err := usrRepo.GetUser(context.Background(), user.GetFilter{ID: pending.ID})
	if err != nil {
		t.Fatalf("GetUser(): %v", err)
	}
	if usr.Active() {
		t.Fatal("denied activation must not flip the active flag")
	}

	// unknown user
	req, rec = newAuthRequest(http.MethodPost, "/v1/admin/users/4242/activate", getToken(t, admin))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown user activate code = %v; want %v", rec.Code, http.StatusNotFound)
	}

	// admin activation
	req, rec = newAuthRequest(http.MethodPost, "/v1/admin/users/"+pending.ID+"/activate", getToken(t, admin))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("activate failed! code = %v; body = %s", rec.Code, rec.Body.String())
	}
	usr, err = usrRepo.GetUser(context.Background(), user.GetFilter{ID: pending.ID})
	if err != nil {
		t.Fatalf("GetUser(): %v", err)
	}
	if !usr.Active() {
		t.Error("activation must flip the active flag")
	}

	// login now works
	if res := login(); res.StatusCode != http.StatusOK {
		t.Errorf("post-activation login code = %v; want %v", res.StatusCode, http.StatusOK)
	}
}

func Test_userApi_passwordReset(t *testing.T) {
	resetDB(t)

	usr := testutil.CreateUser(t, usrRepo, "User", "awe@test.cd", "0ldpassawe", "", true)
	success := marchallObj(t, echo.Map{"success": true})

	// the reply never discloses whether the email exists
	for _, email := range []string{"unknown@test.cd", usr.Email} {
		body := marchallObj(t, echo.Map{"email": email})
		req, rec := newRequest(http.MethodPost, "/v1/users/password-reset", body)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantData: success}
		checkCodeAndData(t, tt, rec)
	}

	// a single-use token with a future expiry is now stored
	usr, err := usrRepo.GetUser(context.Background(), user.GetFilter{ID: usr.ID})
	if err != nil {
		t.Fatalf("GetUser(): %v", err)
	}
	if usr.ResetToken == "" || usr.ResetExpiry == nil || !usr.ResetExpiry.After(time.Now()) {
		t.Fatal("reset token not stored")
	}

	confirm := func(token, pwd string) *httptest.ResponseRecorder {
		body := marchallObj(t, echo.Map{"token": token, "password": pwd})
		req, rec := newRequest(http.MethodPost, "/v1/users/password-reset-confirm", body)
		app.ServeHTTP(rec, req)
		return rec
	}

	// bogus token
	rec := confirm("not-a-token", "newpass1")
	checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "Invalid or expired token"})}, rec)

	// valid confirm overwrites the hash and clears the token in one save
	token := usr.ResetToken
	rec = confirm(token, "newpass1")
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: success}, rec)

	usr, err = usrRepo.GetUser(context.Background(), user.GetFilter{ID: usr.ID})
	if err != nil {
		t.Fatalf("GetUser(): %v", err)
	}
	if err := usr.CheckPassword("newpass1"); err != nil {
		t.Error("password was not updated")
	}
	if usr.ResetToken != "" || usr.ResetExpiry != nil {
		t.Error("token must be cleared on confirm")
	}

	// replaying the consumed token fails
	rec = confirm(token, "an0therpwd")
	checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "Invalid or expired token"})}, rec)

	// an expired token is rejected even when it still matches
	expiry := time.Now().UTC().Add(-time.Minute)
	usr.ResetToken = "expired-token"
	usr.ResetExpiry = &expiry
	if _, err := usrRepo.UpdateUser(context.Background(), usr); err != nil {
		t.Fatalf("UpdateUser(): %v", err)
	}
	rec = confirm("expired-token", "newpass1")
	checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "Invalid or expired token"})}, rec)
}

func Test_userApi_adminGating(t *testing.T) {
	resetDB(t)

	active := testutil.CreateUser(t, usrRepo, "Active", "active@test.cd", "", "", true)

	countUsers := func() int {
		users, err := usrRepo.QueryUsers(context.Background(), nil, nil)
		if err != nil {
			t.Fatalf("QueryUsers(): %v", err)
		}
		return len(users)
	}
	before := countUsers()

	body := marchallObj(t, echo.Map{
		"name":             "Sneaky",
		"email":            "sneaky@test.cd",
		"password":         "s3kr3tawe",
		"password_confirm": "s3kr3tawe",
		"role":             user.RoleAdmin,
	})

	tests := []httpTest{
		{name: "anonymous", token: "", wantCode: http.StatusUnauthorized},
		{name: "non-admin", token: getToken(t, active), wantCode: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users", tt.token, body)
			app.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %v; wantCode %v", rec.Code, tt.wantCode)
			}
			if got := countUsers(); got != before {
				t.Errorf("denied create must not mutate the store: count = %d; want %d", got, before)
			}
		})
	}
}

func Test_userApi_retrieveOwnerOrAdmin(t *testing.T) {
	resetDB(t)

	owner := testutil.CreateUser(t, usrRepo, "Owner", "owner@test.cd", "", "", true)
	other := testutil.CreateUser(t, usrRepo, "Other", "other@test.cd", "", "", true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, true)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Owner allowed", token: getToken(t, owner), wantCode: http.StatusOK,
			wantData: marchallObj(t, owner),
		},
		{
			name: "Admin allowed", token: getToken(t, admin), wantCode: http.StatusOK,
			wantData: marchallObj(t, owner),
		},
		{
			name: "Other denied", token: getToken(t, other), wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/users/"+owner.ID, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

// decode sanity check on the login payload
func Test_userApi_login(t *testing.T) {
	resetDB(t)

	usr := testutil.CreateUser(t, usrRepo, "User", "awe@test.cd", "s3kr3tawe", "", true)

	body := marchallObj(t, echo.Map{"email": usr.Email, "password": "s3kr3tawe"})
	req, rec := newRequest(http.MethodPost, "/v1/users/login", body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed! code = %v; body = %s", rec.Code, rec.Body.String())
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("unmarshalling login response: %v", err)
	}
	if data.Token == "" {
		t.Error("login must return a token")
	}

	// wrong password
	body = marchallObj(t, echo.Map{"email": usr.Email, "password": "wr0ngpwd"})
	req, rec = newRequest(http.MethodPost, "/v1/users/login", body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad-password login code = %v; want %v", rec.Code, http.StatusBadRequest)
	}
}
