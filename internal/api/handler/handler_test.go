package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Mali8881/onboarding-backend/internal/dto"
	"github.com/Mali8881/onboarding-backend/internal/planner"
	"github.com/Mali8881/onboarding-backend/internal/service"
	"github.com/Mali8881/onboarding-backend/pkg/jwt"
	"github.com/Mali8881/onboarding-backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	logoutErr     error
	meResult      *dto.UserDetailResponse
	meErr         error
	changePassErr error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest, _ string) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ *jwt.Claims) error {
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ string) (*dto.UserDetailResponse, error) {
	return m.meResult, m.meErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock WeeklyPlanService ──

type mockWeeklyPlanService struct {
	submitResult     *dto.WeeklyPlanResponse
	submitErr        error
	myResult         []dto.WeeklyPlanResponse
	myTotal          int64
	myErr            error
	getResult        *dto.WeeklyPlanResponse
	getErr           error
	listResult       []dto.WeeklyPlanResponse
	listTotal        int64
	listErr          error
	decideResult     *dto.WeeklyPlanResponse
	decideErr        error
	changeLogsResult []dto.WeeklyPlanChangeLogResponse
	changeLogsTotal  int64
	changeLogsErr    error
	statusResult     *dto.WeeklyPlanSubmissionStatusResponse
	statusErr        error
}

func (m *mockWeeklyPlanService) Submit(_ context.Context, _ string, _ *dto.SubmitWeeklyPlanRequest) (*dto.WeeklyPlanResponse, error) {
	return m.submitResult, m.submitErr
}
func (m *mockWeeklyPlanService) My(_ context.Context, _ string, _ *dto.PaginationRequest) ([]dto.WeeklyPlanResponse, int64, error) {
	return m.myResult, m.myTotal, m.myErr
}
func (m *mockWeeklyPlanService) GetByID(_ context.Context, _ string) (*dto.WeeklyPlanResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockWeeklyPlanService) List(_ context.Context, _ *dto.WeeklyPlanListRequest) ([]dto.WeeklyPlanResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockWeeklyPlanService) Decide(_ context.Context, _ string, _ *dto.WeeklyPlanDecisionRequest, _ string) (*dto.WeeklyPlanResponse, error) {
	return m.decideResult, m.decideErr
}
func (m *mockWeeklyPlanService) ChangeLogs(_ context.Context, _ string, _ *dto.PaginationRequest) ([]dto.WeeklyPlanChangeLogResponse, int64, error) {
	return m.changeLogsResult, m.changeLogsTotal, m.changeLogsErr
}
func (m *mockWeeklyPlanService) SubmissionStatus(_ context.Context, _ string) (*dto.WeeklyPlanSubmissionStatusResponse, error) {
	return m.statusResult, m.statusErr
}

// ── Mock FeedService ──

type mockFeedService struct {
	feedResult string
	feedErr    error
}

func (m *mockFeedService) UserFeed(_ context.Context, _ string) (string, error) {
	return m.feedResult, m.feedErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportWeek(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupGin() (*gin.Engine, *gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, r := gin.CreateTestContext(w)
	return r, c, w
}

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", "admin")
	c.Set("claims", &jwt.Claims{UserID: "test-user-id", Role: "admin", TokenType: "access"})
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func submitBody() dto.SubmitWeeklyPlanRequest {
	start, end := "09:00", "17:00"
	return dto.SubmitWeeklyPlanRequest{
		WeekStart: "2025-03-10",
		Days: []planner.ShiftPayload{
			{Date: "2025-03-10", StartTime: &start, EndTime: &end, Mode: "office"},
		},
	}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "ivanov@corp.test",
		Password: "Test1234",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "ivanov@corp.test",
		Password: "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_RefreshToken_MissingToken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/refresh", jsonBody(map[string]string{}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", h.Me)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 10002 {
		t.Errorf("expected error code 10002, got %d", resp.Code)
	}
}

func TestAuthHandler_ChangePassword_WrongOld(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{changePassErr: service.ErrOldPasswordWrong})

	_, _, w := setupGin()
	req := httptest.NewRequest("PUT", "/auth/password", jsonBody(dto.ChangePasswordRequest{
		OldPassword: "Old12345",
		NewPassword: "New12345",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/auth/password", func(c *gin.Context) {
		setAuth(c)
		h.ChangePassword(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11004 {
		t.Errorf("expected error code 11004, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// WeeklyPlanHandler Tests
// ═══════════════════════════════════════════════════════════

func TestWeeklyPlanHandler_Submit_Success(t *testing.T) {
	mock := &mockWeeklyPlanService{
		submitResult: &dto.WeeklyPlanResponse{
			ID:          "plan-001",
			UserID:      "test-user-id",
			WeekStart:   "2025-03-10",
			OfficeHours: 40,
			Status:      "pending",
		},
	}
	h := NewWeeklyPlanHandler(mock, &mockFeedService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/weekly-plans/my", jsonBody(submitBody()))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/weekly-plans/my", func(c *gin.Context) {
		setAuth(c)
		h.Submit(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestWeeklyPlanHandler_Submit_RuleViolation(t *testing.T) {
	mock := &mockWeeklyPlanService{
		submitErr: &planner.ValidationError{Message: "2025-03-10：每个工作日总时长必须为 8 小时"},
	}
	h := NewWeeklyPlanHandler(mock, &mockFeedService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/weekly-plans/my", jsonBody(submitBody()))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/weekly-plans/my", func(c *gin.Context) {
		setAuth(c)
		h.Submit(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15001 {
		t.Errorf("expected error code 15001, got %d", resp.Code)
	}
	if !strings.Contains(resp.Details, "8 小时") {
		t.Errorf("expected rule message in details, got %q", resp.Details)
	}
}

func TestWeeklyPlanHandler_Submit_NotMonday(t *testing.T) {
	mock := &mockWeeklyPlanService{submitErr: service.ErrPlanWeekInvalid}
	h := NewWeeklyPlanHandler(mock, &mockFeedService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/weekly-plans/my", jsonBody(submitBody()))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/weekly-plans/my", func(c *gin.Context) {
		setAuth(c)
		h.Submit(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15002 {
		t.Errorf("expected error code 15002, got %d", resp.Code)
	}
}

func TestWeeklyPlanHandler_Decide_AlreadyReviewed(t *testing.T) {
	mock := &mockWeeklyPlanService{decideErr: service.ErrPlanAlreadyReviewed}
	h := NewWeeklyPlanHandler(mock, &mockFeedService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/weekly-plans/plan-001/decision", jsonBody(dto.WeeklyPlanDecisionRequest{
		Action: "approve",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/weekly-plans/:id/decision", func(c *gin.Context) {
		setAuth(c)
		h.Decide(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15004 {
		t.Errorf("expected error code 15004, got %d", resp.Code)
	}
}

func TestWeeklyPlanHandler_Decide_BadAction(t *testing.T) {
	h := NewWeeklyPlanHandler(&mockWeeklyPlanService{}, &mockFeedService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/weekly-plans/plan-001/decision", jsonBody(dto.WeeklyPlanDecisionRequest{
		Action: "escalate",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/weekly-plans/:id/decision", func(c *gin.Context) {
		setAuth(c)
		h.Decide(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestWeeklyPlanHandler_Get_ForbiddenForOtherEmployee(t *testing.T) {
	mock := &mockWeeklyPlanService{
		getResult: &dto.WeeklyPlanResponse{ID: "plan-001", UserID: "someone-else"},
	}
	h := NewWeeklyPlanHandler(mock, &mockFeedService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/weekly-plans/plan-001", nil)

	r := gin.New()
	r.GET("/weekly-plans/:id", func(c *gin.Context) {
		c.Set("user_id", "test-user-id")
		c.Set("role", "employee")
		h.Get(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestWeeklyPlanHandler_Feed_ContentType(t *testing.T) {
	feed := &mockFeedService{
		feedResult: "BEGIN:VCALENDAR\r\nMETHOD:PUBLISH\r\nEND:VCALENDAR\r\n",
	}
	h := NewWeeklyPlanHandler(&mockWeeklyPlanService{}, feed)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/weekly-plans/my/feed.ics", nil)

	r := gin.New()
	r.GET("/weekly-plans/my/feed.ics", func(c *gin.Context) {
		setAuth(c)
		h.Feed(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("expected text/calendar content type, got %s", ct)
	}
	if !strings.Contains(w.Body.String(), "BEGIN:VCALENDAR") {
		t.Error("expected ICS body")
	}
}

func TestWeeklyPlanHandler_SubmissionStatus_Success(t *testing.T) {
	mock := &mockWeeklyPlanService{
		statusResult: &dto.WeeklyPlanSubmissionStatusResponse{
			WeekStart:      "2025-03-10",
			TotalEmployees: 3,
			SubmittedCount: 2,
			Missing:        []dto.UserResponse{{ID: "user-003", Name: "Петров Пётр"}},
		},
	}
	h := NewWeeklyPlanHandler(mock, &mockFeedService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/weekly-plans/submission-status?week_start=2025-03-10", nil)

	r := gin.New()
	r.GET("/weekly-plans/submission-status", func(c *gin.Context) {
		setAuth(c)
		h.SubmissionStatus(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "user-003") {
		t.Error("expected missing user in body")
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_WeeklyPlans_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("xlsx-bytes"),
		filename: "weekly_plans_2025-03-10.xlsx",
	}
	h := NewExportHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/export/weekly-plans?week_start=2025-03-10", nil)

	r := gin.New()
	r.GET("/export/weekly-plans", h.WeeklyPlans)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "weekly_plans_2025-03-10.xlsx") {
		t.Errorf("expected filename in Content-Disposition, got %s", cd)
	}
}

func TestExportHandler_WeeklyPlans_MissingWeekStart(t *testing.T) {
	h := NewExportHandler(&mockExportService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/export/weekly-plans", nil)

	r := gin.New()
	r.GET("/export/weekly-plans", h.WeeklyPlans)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestExportHandler_WeeklyPlans_NoPlans(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportNoPlans})

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/export/weekly-plans?week_start=2025-03-10", nil)

	r := gin.New()
	r.GET("/export/weekly-plans", h.WeeklyPlans)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 16001 {
		t.Errorf("expected error code 16001, got %d", resp.Code)
	}
}
