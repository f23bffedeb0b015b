package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/project-votes/internal/models"
)

type fakeService struct {
	votes      []models.ProjectVotes
	vouchers   map[int64]models.Voucher
	redeemErr  error
	err        error
	storeCalls int
}

func (f *fakeService) Summary(context.Context) ([]models.ProjectVotes, error) {
	f.storeCalls++
	return f.votes, f.err
}

func (f *fakeService) Voucher(_ context.Context, code int64) (*models.Voucher, error) {
	f.storeCalls++
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.vouchers[code]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (f *fakeService) Echo(code, projectID int64) models.VoteEcho {
	return models.VoteEcho{VoucherCode: code, ProjectID: projectID}
}

func (f *fakeService) Redeem(_ context.Context, code, projectID int64) (*models.Redemption, error) {
	f.storeCalls++
	if f.redeemErr != nil {
		return nil, models.Wrap("redeem", f.redeemErr)
	}
	return &models.Redemption{
		Voucher: models.Voucher{Code: code, Used: true, ProjectID: &projectID},
		Project: models.Project{ID: projectID, VoteCount: 8},
	}, nil
}

type fakeHealth map[string]string

func (f fakeHealth) Health(context.Context) map[string]string { return f }

func newTestRouter(svc VotingService, health HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc, health)

	r := gin.New()
	r.GET("/health", h.Health.Health)
	r.GET("/projects/votes-summary/", h.Project.GetVotesSummary)
	r.GET("/voucher/:code", h.Voucher.GetVoucher)
	r.POST("/voucher/vote/:code", h.Voucher.EchoVote)
	r.POST("/vote/", h.Voucher.Vote)
	return r
}

func serve(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

var expiry = time.Date(2025, 1, 31, 23, 59, 0, 0, time.UTC)

func TestGetVotesSummary(t *testing.T) {
	svc := &fakeService{votes: []models.ProjectVotes{
		{ProjectName: "Clean Water", ProjectCountry: "Kenya", IconCode: "water", GraphColour: "#1f77b4", VoteCount: 12},
		{ProjectName: "Reforest", ProjectCountry: "Nepal", IconCode: "tree", GraphColour: "#2ca02c", VoteCount: 3},
	}}
	w := serve(newTestRouter(svc, nil), http.MethodGet, "/projects/votes-summary/")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
		{"ProjectName":"Clean Water","ProjectCountry":"Kenya","IconCode":"water","GraphColour":"#1f77b4","VoteCount":12},
		{"ProjectName":"Reforest","ProjectCountry":"Nepal","IconCode":"tree","GraphColour":"#2ca02c","VoteCount":3}
	]`, w.Body.String())
}

func TestGetVotesSummaryEmpty(t *testing.T) {
	svc := &fakeService{votes: []models.ProjectVotes{}}
	w := serve(newTestRouter(svc, nil), http.MethodGet, "/projects/votes-summary/")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGetVotesSummaryFailure(t *testing.T) {
	svc := &fakeService{err: models.Wrap("summary", errors.New("connection refused"))}
	w := serve(newTestRouter(svc, nil), http.MethodGet, "/projects/votes-summary/")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch projects"}`, w.Body.String())
}

func TestGetVoucher(t *testing.T) {
	projectID := int64(2)
	svc := &fakeService{vouchers: map[int64]models.Voucher{
		48213: {ID: 1, Code: 48213, ExpiryDate: expiry},
		77001: {ID: 2, Code: 77001, ExpiryDate: expiry, Used: true, ProjectID: &projectID},
	}}
	r := newTestRouter(svc, nil)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "unused voucher",
			path:           "/voucher/48213",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"VoucherID":1,"Voucher":48213,"ExpiryDate":"2025-01-31T23:59:00Z","Used":false,"ProjectID":null}`,
		},
		{
			name:           "redeemed voucher",
			path:           "/voucher/77001",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"VoucherID":2,"Voucher":77001,"ExpiryDate":"2025-01-31T23:59:00Z","Used":true,"ProjectID":2}`,
		},
		{
			name:           "unknown code is null",
			path:           "/voucher/11111",
			expectedStatus: http.StatusOK,
			expectedBody:   `null`,
		},
		{
			name:           "non integer code",
			path:           "/voucher/abc",
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"error":"code must be an integer"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, tt.path)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestGetVoucherFailure(t *testing.T) {
	svc := &fakeService{err: models.Wrap("get voucher", errors.New("timeout"))}
	w := serve(newTestRouter(svc, nil), http.MethodGet, "/voucher/1")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestEchoVote(t *testing.T) {
	svc := &fakeService{}
	r := newTestRouter(svc, nil)

	w := serve(r, http.MethodPost, "/voucher/vote/48213?proj_id=3")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"VoucherCode":48213,"ProjectId":3}`, w.Body.String())

	w = serve(r, http.MethodPost, "/voucher/vote/48213")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"proj_id is required"}`, w.Body.String())

	w = serve(r, http.MethodPost, "/voucher/vote/48213?proj_id=three")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = serve(r, http.MethodPost, "/voucher/vote/x?proj_id=3")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	assert.Zero(t, svc.storeCalls, "echo must not reach storage")
}

func TestVote(t *testing.T) {
	tests := []struct {
		name           string
		redeemErr      error
		expectedStatus int
		expectedError  string
	}{
		{"recorded", nil, http.StatusOK, ""},
		{"voucher not found", models.ErrVoucherNotFound, http.StatusNotFound, "voucher not found"},
		{"project not found", models.ErrProjectNotFound, http.StatusNotFound, "project not found"},
		{"already used", models.ErrVoucherUsed, http.StatusConflict, "voucher has already been used"},
		{"expired", models.ErrVoucherExpired, http.StatusGone, "voucher has expired"},
		{"storage failure", errors.New("deadlock"), http.StatusInternalServerError, "Failed to record vote"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{redeemErr: tt.redeemErr}
			w := serve(newTestRouter(svc, nil), http.MethodPost, "/vote/?voucher_code=48213&project_id=5")

			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, body["error"])
				return
			}
			assert.Equal(t, "Vote recorded", body["message"])
			assert.Equal(t, 48213.0, body["VoucherCode"])
			assert.Equal(t, 5.0, body["ProjectId"])
			assert.Equal(t, 8.0, body["VoteCount"])
		})
	}
}

func TestVoteMissingParams(t *testing.T) {
	svc := &fakeService{}
	r := newTestRouter(svc, nil)

	w := serve(r, http.MethodPost, "/vote/?project_id=5")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"voucher_code is required"}`, w.Body.String())

	w = serve(r, http.MethodPost, "/vote/?voucher_code=1&project_id=five")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Zero(t, svc.storeCalls)
}

func TestHealth(t *testing.T) {
	w := serve(newTestRouter(&fakeService{}, fakeHealth{"status": "up"}), http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(newTestRouter(&fakeService{}, fakeHealth{"status": "down", "error": "db down"}), http.MethodGet, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"down","error":"db down"}`, w.Body.String())

	w = serve(newTestRouter(&fakeService{}, nil), http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
}
