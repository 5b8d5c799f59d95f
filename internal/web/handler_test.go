package web_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gradebook/internal/auth"
	"gradebook/internal/config"
	"gradebook/internal/identity"
	"gradebook/internal/notify"
	"gradebook/internal/queue"
	"gradebook/internal/records"
	"gradebook/internal/web"
)

type env struct {
	router  *gin.Engine
	users   *identity.Service
	teacher identity.User
	jane    identity.User
	bob     identity.User
}

// deadQueue refuses every publish, simulating a broken mail channel.
type deadQueue struct{}

func (deadQueue) Publish(context.Context, queue.Message) error {
	return errors.New("queue down")
}

func (deadQueue) Consume(context.Context) (<-chan queue.Message, error) {
	return nil, errors.New("queue down")
}

func newEnv(t *testing.T, q queue.Queue) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.App{
		JWTIssuer:     "gradebook-test",
		JWTSigningKey: "test-secret",
		SessionTTL:    time.Hour,
	}
	users := identity.NewService(identity.NewMemory())
	recs := records.NewService(records.NewMemory())
	if q == nil {
		q = queue.NewInMemory(16)
	}
	dispatch := notify.NewDispatcher(q, zap.NewNop())

	router := gin.New()
	web.NewHandler(cfg, users, recs, dispatch, nil, zap.NewNop()).RegisterRoutes(router)

	ctx := context.Background()
	teacher, err := users.Register(ctx, "smith@school.test", "teacherpw", identity.RoleTeacher)
	require.NoError(t, err)
	jane, err := users.Register(ctx, "jane@school.test", "janepw", identity.RoleStudent)
	require.NoError(t, err)
	bob, err := users.Register(ctx, "bob@school.test", "bobpw", identity.RoleStudent)
	require.NoError(t, err)

	return &env{router: router, users: users, teacher: teacher, jane: jane, bob: bob}
}

func (e *env) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	w := e.postForm(t, "/login", url.Values{"email": {email}, "password": {password}}, nil)
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())
	for _, ck := range w.Result().Cookies() {
		if ck.Name == auth.SessionCookie {
			return ck
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func (e *env) postForm(t *testing.T, path string, form url.Values, session *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if session != nil {
		req.AddCookie(session)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *env) get(t *testing.T, path string, session *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if session != nil {
		req.AddCookie(session)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestLogin(t *testing.T) {
	e := newEnv(t, nil)

	w := e.postForm(t, "/login", url.Values{"email": {"smith@school.test"}, "password": {"teacherpw"}}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Role     string `json:"role"`
		Redirect string `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "teacher", body.Role)
	assert.Equal(t, "/teacher/dashboard", body.Redirect)

	w = e.postForm(t, "/login", url.Values{"email": {"smith@school.test"}, "password": {"nope"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies(), "no session on failed login")
}

func TestRoleCheckFailuresAlwaysRedirect(t *testing.T) {
	e := newEnv(t, nil)
	studentSession := e.login(t, "jane@school.test", "janepw")
	teacherSession := e.login(t, "smith@school.test", "teacherpw")

	cases := []struct {
		name    string
		path    string
		session *http.Cookie
	}{
		{"anonymous on teacher route", "/teacher/students", nil},
		{"student on teacher route", "/teacher/students", studentSession},
		{"student on teacher results", "/teacher/results", studentSession},
		{"teacher on student route", "/student/results", teacherSession},
		{"garbage session", "/teacher/students", &http.Cookie{Name: auth.SessionCookie, Value: "garbage"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := e.get(t, tc.path, tc.session)
			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, "/login", w.Header().Get("Location"))
			assert.NotContains(t, w.Body.String(), "results", "redirect must not leak data")
		})
	}
}

func publishForm(subject, marks, total, grade string) url.Values {
	return url.Values{
		"subject":     {subject},
		"marks":       {marks},
		"total_marks": {total},
		"grade":       {grade},
	}
}

type resultsPayload struct {
	Results []struct {
		Subject       string          `json:"subject"`
		Grade         string          `json:"grade"`
		MarksObtained decimal.Decimal `json:"marks_obtained"`
		Percentage    string          `json:"percentage"`
	} `json:"results"`
}

func TestPublishResultUpsertEndToEnd(t *testing.T) {
	e := newEnv(t, nil)
	teacherSession := e.login(t, "smith@school.test", "teacherpw")

	resultsPath := "/teacher/students/" + e.jane.ID + "/results"
	w := e.postForm(t, resultsPath, publishForm("Math", "45", "50", "A-"), teacherSession)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.postForm(t, resultsPath, publishForm("Math", "48", "50", "A"), teacherSession)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	janeSession := e.login(t, "jane@school.test", "janepw")
	w = e.get(t, "/student/results", janeSession)
	require.Equal(t, http.StatusOK, w.Code)

	var payload resultsPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Len(t, payload.Results, 1, "exactly one Math entry after republish")
	assert.Equal(t, "Math", payload.Results[0].Subject)
	assert.Equal(t, "A", payload.Results[0].Grade)
	assert.Equal(t, "48", payload.Results[0].MarksObtained.String())
	assert.Equal(t, "96.00", payload.Results[0].Percentage)

	// the other student sees nothing
	bobSession := e.login(t, "bob@school.test", "bobpw")
	w = e.get(t, "/student/results", bobSession)
	require.Equal(t, http.StatusOK, w.Code)
	payload = resultsPayload{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Empty(t, payload.Results)
}

func TestPublishResultRejectsMalformedMarks(t *testing.T) {
	e := newEnv(t, nil)
	teacherSession := e.login(t, "smith@school.test", "teacherpw")

	w := e.postForm(t, "/teacher/students/"+e.jane.ID+"/results",
		publishForm("Math", "forty-five", "50", "A-"), teacherSession)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublishResultUnknownStudent(t *testing.T) {
	e := newEnv(t, nil)
	teacherSession := e.login(t, "smith@school.test", "teacherpw")

	w := e.postForm(t, "/teacher/students/no-such-id/results",
		publishForm("Math", "45", "50", "A-"), teacherSession)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBrokenMailChannelNeverBlocksTheWrite(t *testing.T) {
	e := newEnv(t, deadQueue{})
	teacherSession := e.login(t, "smith@school.test", "teacherpw")

	form := publishForm("Math", "45", "50", "A-")
	form.Set("send_email", "on")
	w := e.postForm(t, "/teacher/students/"+e.jane.ID+"/results", form, teacherSession)
	require.Equal(t, http.StatusOK, w.Code, "write must report success regardless of mail outcome")

	janeSession := e.login(t, "jane@school.test", "janepw")
	w = e.get(t, "/student/results", janeSession)
	require.Equal(t, http.StatusOK, w.Code)
	var payload resultsPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Len(t, payload.Results, 1)
	assert.Equal(t, "Math", payload.Results[0].Subject)
}

func TestAnnouncementVisibility(t *testing.T) {
	e := newEnv(t, nil)
	teacherSession := e.login(t, "smith@school.test", "teacherpw")

	w := e.postForm(t, "/teacher/announcements", url.Values{
		"title":    {"Exam week"},
		"content":  {"Starts Monday"},
		"priority": {"high"},
	}, teacherSession)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.postForm(t, "/teacher/students/"+e.jane.ID+"/announcements", url.Values{
		"title":    {"See me"},
		"content":  {"Office hours"},
		"priority": {"medium"},
	}, teacherSession)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	type annsPayload struct {
		Announcements []records.Announcement `json:"announcements"`
	}

	janeSession := e.login(t, "jane@school.test", "janepw")
	w = e.get(t, "/student/announcements", janeSession)
	require.Equal(t, http.StatusOK, w.Code)
	var janeAnns annsPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &janeAnns))
	assert.Len(t, janeAnns.Announcements, 2)

	bobSession := e.login(t, "bob@school.test", "bobpw")
	w = e.get(t, "/student/announcements", bobSession)
	require.Equal(t, http.StatusOK, w.Code)
	var bobAnns annsPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bobAnns))
	require.Len(t, bobAnns.Announcements, 1)
	assert.Equal(t, "Exam week", bobAnns.Announcements[0].Title)

	// the teacher list is partitioned
	w = e.get(t, "/teacher/announcements", teacherSession)
	require.Equal(t, http.StatusOK, w.Code)
	var teacherView struct {
		Announcements []records.Announcement `json:"announcements"`
		Global        []records.Announcement `json:"global_announcements"`
		Targeted      []records.Announcement `json:"student_specific_announcements"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &teacherView))
	assert.Len(t, teacherView.Announcements, 2)
	require.Len(t, teacherView.Global, 1)
	require.Len(t, teacherView.Targeted, 1)
	assert.Equal(t, "See me", teacherView.Targeted[0].Title)
}

func TestStudentDetailAndListing(t *testing.T) {
	e := newEnv(t, nil)
	teacherSession := e.login(t, "smith@school.test", "teacherpw")

	w := e.get(t, "/teacher/students", teacherSession)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Students []identity.User `json:"students"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Len(t, listing.Students, 2)

	w = e.get(t, "/teacher/students/"+e.jane.ID, teacherSession)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.get(t, "/teacher/students/"+e.teacher.ID, teacherSession)
	assert.Equal(t, http.StatusNotFound, w.Code, "teachers are not students")
}

func TestProfileUpdate(t *testing.T) {
	e := newEnv(t, nil)
	janeSession := e.login(t, "jane@school.test", "janepw")

	w := e.postForm(t, "/student/profile", url.Values{
		"full_name": {"Jane Doe"},
		"bio":       {"Mathlete"},
	}, janeSession)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.get(t, "/student/profile", janeSession)
	require.Equal(t, http.StatusOK, w.Code)
	var payload struct {
		User identity.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.NotNil(t, payload.User.FullName)
	assert.Equal(t, "Jane Doe", *payload.User.FullName)
	require.NotNil(t, payload.User.Bio)
	assert.Equal(t, "Mathlete", *payload.User.Bio)
}

func TestDashboards(t *testing.T) {
	e := newEnv(t, nil)

	teacherSession := e.login(t, "smith@school.test", "teacherpw")
	w := e.get(t, "/teacher/dashboard", teacherSession)
	assert.Equal(t, http.StatusOK, w.Code)

	janeSession := e.login(t, "jane@school.test", "janepw")
	w = e.get(t, "/student/dashboard", janeSession)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogout(t *testing.T) {
	e := newEnv(t, nil)
	session := e.login(t, "jane@school.test", "janepw")

	w := e.postForm(t, "/logout", url.Values{}, session)
	require.Equal(t, http.StatusOK, w.Code)
	var cleared bool
	for _, ck := range w.Result().Cookies() {
		if ck.Name == auth.SessionCookie && ck.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "logout must clear the session cookie")
}
