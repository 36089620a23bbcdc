package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"shortdrama/constant"
	"shortdrama/dto"
	"shortdrama/entities"
	"shortdrama/pkg/token"
	"shortdrama/service"
)

const workerToken = "worker-token-1"

type testServer struct {
	router  *gin.Engine
	jobs    *MockJobs
	viewer  *MockViewer
	catalog *MockCatalog
	auth    *MockAuth
	limiter *MockLimiter
	tokens  *token.Service
}

func newTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)
	s := &testServer{
		jobs:    new(MockJobs),
		viewer:  new(MockViewer),
		catalog: new(MockCatalog),
		auth:    new(MockAuth),
		limiter: new(MockLimiter),
		tokens:  token.NewService("user-secret-123", "admin-secret-123", workerToken),
	}
	h := New(Dependencies{Jobs: s.jobs, Viewer: s.viewer, Catalog: s.catalog, Auth: s.auth})

	s.router = gin.New()
	s.router.Use(RequestLogger(zerolog.Nop()))
	h.Register(s.router, s.tokens, s.limiter)

	t.Cleanup(func() {
		s.jobs.AssertExpectations(t)
		s.viewer.AssertExpectations(t)
		s.catalog.AssertExpectations(t)
		s.auth.AssertExpectations(t)
		s.limiter.AssertExpectations(t)
	})
	return s
}

func (s *testServer) do(method, path, body, bearer string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) userToken(t *testing.T, id uuid.UUID) string {
	raw, err := s.tokens.IssueUser(id)
	require.NoError(t, err)
	return raw
}

func (s *testServer) adminToken(t *testing.T) string {
	raw, err := s.tokens.IssueAdmin()
	require.NoError(t, err)
	return raw
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestWorkerRoutes_RequireWorkerToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/worker/jobs/claim", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "worker_unauthorized", decode(t, w)["error"])

	w = s.do(http.MethodPost, "/worker/jobs/claim", "", s.adminToken(t))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	s.jobs.AssertNotCalled(t, "Claim", mock.Anything)
}

func TestClaimJob(t *testing.T) {
	s := newTestServer(t)
	jobId := uuid.New()
	s.jobs.On("Claim", mock.Anything).Return(nil, nil).Once()
	s.jobs.On("Claim", mock.Anything).Return(&dto.ClaimedJob{
		Id: jobId, Kind: constant.JobKindSplitSeries, RawBucket: "raw", RawKey: "raw/full.mp4", Attempt: 2,
	}, nil).Once()

	w := s.do(http.MethodPost, "/worker/jobs/claim", "", workerToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"job":null}`, w.Body.String())

	w = s.do(http.MethodPost, "/worker/jobs/claim", "", workerToken)
	require.Equal(t, http.StatusOK, w.Code)
	job := decode(t, w)["job"].(map[string]any)
	assert.Equal(t, jobId.String(), job["id"])
	assert.Equal(t, "SPLIT_SERIES", job["kind"])
	assert.Equal(t, float64(2), job["attempt"])
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestJobProgress_ValidatesBody(t *testing.T) {
	s := newTestServer(t)
	jobId := uuid.New()

	w := s.do(http.MethodPost, "/worker/jobs/"+jobId.String()+"/progress", `{"progressPct":150,"stage":"encode"}`, workerToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode(t, w)["error"])
	s.jobs.AssertNotCalled(t, "ReportProgress", mock.Anything, mock.Anything, mock.Anything)

	s.jobs.On("ReportProgress", mock.Anything, jobId, mock.MatchedBy(func(req dto.ProgressRequest) bool {
		return *req.ProgressPct == 0 && req.Stage == "download" && req.Attempt != nil && *req.Attempt == 1
	})).Return(nil)

	w = s.do(http.MethodPost, "/worker/jobs/"+jobId.String()+"/progress", `{"progressPct":0,"stage":"download","attempt":1}`, workerToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestCompleteJob_Responses(t *testing.T) {
	s := newTestServer(t)
	split, terminal, stale := uuid.New(), uuid.New(), uuid.New()

	s.jobs.On("Complete", mock.Anything, split, mock.MatchedBy(func(req dto.CompleteRequest) bool {
		return req.IsSplit() && len(req.Segments) == 2
	})).Return(&dto.CompleteResult{Mode: "split", Episodes: 2}, nil)
	s.jobs.On("Complete", mock.Anything, terminal, mock.Anything).Return(&dto.CompleteResult{AlreadyTerminal: true}, nil)
	s.jobs.On("Complete", mock.Anything, stale, mock.Anything).Return(nil, service.ErrStaleAttempt)

	body := `{"segments":[{"episodeNumber":1,"videoKey":"a.m3u8","thumbnailKey":"a.jpg"},{"episodeNumber":2,"videoKey":"b.m3u8","thumbnailKey":"b.jpg"}]}`
	w := s.do(http.MethodPost, "/worker/jobs/"+split.String()+"/complete", body, workerToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"mode":"split","episodes":2}`, w.Body.String())

	w = s.do(http.MethodPost, "/worker/jobs/"+terminal.String()+"/complete", `{"videoKey":"v","thumbnailKey":"t"}`, workerToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"alreadyTerminal":true}`, w.Body.String())

	w = s.do(http.MethodPost, "/worker/jobs/"+stale.String()+"/complete", `{"videoKey":"v","thumbnailKey":"t","attempt":1}`, workerToken)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "stale_attempt", decode(t, w)["error"])
}

func TestFailJob_UnknownJob(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/worker/jobs/not-a-uuid/fail", `{"error":"boom"}`, workerToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "job_not_found", decode(t, w)["error"])

	jobId := uuid.New()
	s.jobs.On("Fail", mock.Anything, jobId, dto.FailRequest{Error: "ffmpeg crashed"}).Return(nil, service.ErrJobNotFound)
	w = s.do(http.MethodPost, "/worker/jobs/"+jobId.String()+"/fail", `{"error":"ffmpeg crashed"}`, workerToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnlock(t *testing.T) {
	s := newTestServer(t)
	userId, episodeId := uuid.New(), uuid.New()
	bearer := s.userToken(t, userId)

	s.viewer.On("Unlock", mock.Anything, userId, episodeId, constant.UnlockMethodCoins).
		Return(nil, service.ErrInsufficientCoins).Once()
	w := s.do(http.MethodPost, "/episode/"+episodeId.String()+"/unlock", `{"method":"coins"}`, bearer)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "insufficient_coins", decode(t, w)["error"])

	coins, granted := 15, 5
	s.viewer.On("Unlock", mock.Anything, userId, episodeId, constant.UnlockMethodAd).
		Return(&dto.UnlockResult{Unlocked: true, Coins: &coins, Granted: &granted}, nil).Once()
	w = s.do(http.MethodPost, "/episode/"+episodeId.String()+"/unlock", `{"method":"ad"}`, bearer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"unlocked":true,"coins":15,"granted":5}`, w.Body.String())
}

func TestViewerRoutes_RequireUserToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/feed/home", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", decode(t, w)["error"])

	w = s.do(http.MethodGet, "/feed/home", "", s.adminToken(t))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	seriesId := uuid.New().String()
	for _, path := range []string{"/feed/series", "/series/" + seriesId, "/series/" + seriesId + "/episodes"} {
		w = s.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestCatalogRoutes_WithUserToken(t *testing.T) {
	s := newTestServer(t)
	bearer := s.userToken(t, uuid.New())
	seriesId := uuid.New()

	s.catalog.On("FeedSeries", mock.Anything).Return([]dto.SeriesCard{}, nil)
	w := s.do(http.MethodGet, "/feed/series", "", bearer)
	assert.Equal(t, http.StatusOK, w.Code)

	s.catalog.On("GetSeries", mock.Anything, seriesId).Return(nil, service.ErrSeriesNotFound)
	w = s.do(http.MethodGet, "/series/"+seriesId.String(), "", bearer)
	assert.Equal(t, http.StatusNotFound, w.Code)

	s.catalog.On("PublishedEpisodes", mock.Anything, seriesId).Return([]*entities.Episode{}, nil)
	w = s.do(http.MethodGet, "/series/"+seriesId.String()+"/episodes", "", bearer)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateSeries_AcceptsPutAndPatch(t *testing.T) {
	s := newTestServer(t)
	bearer := s.adminToken(t)
	seriesId := uuid.New()
	series := &entities.Series{ID: seriesId, Title: "Salt Harbor", Language: "en"}

	s.catalog.On("UpdateSeries", mock.Anything, seriesId, mock.Anything).Return(series, nil).Twice()
	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		w := s.do(method, "/admin/series/"+seriesId.String(), `{"title":"Salt Harbor"}`, bearer)
		assert.Equal(t, http.StatusOK, w.Code, method)
	}
}

func TestProgress(t *testing.T) {
	s := newTestServer(t)
	userId, episodeId := uuid.New(), uuid.New()
	bearer := s.userToken(t, userId)

	w := s.do(http.MethodPost, "/episode/"+episodeId.String()+"/progress", `{}`, bearer)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.viewer.On("RecordProgress", mock.Anything, userId, episodeId, false).Return(nil)
	w = s.do(http.MethodPost, "/episode/"+episodeId.String()+"/progress", `{"watched":false}`, bearer)
	assert.Equal(t, http.StatusOK, w.Code)

	s.viewer.On("MarkViewed", mock.Anything, userId, episodeId).Return(service.ErrEpisodeNotFound)
	w = s.do(http.MethodPost, "/episode/"+episodeId.String()+"/viewed", "", bearer)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublish(t *testing.T) {
	s := newTestServer(t)
	bearer := s.adminToken(t)
	ready, failed := uuid.New(), uuid.New()

	s.catalog.On("SetPublished", mock.Anything, ready, true).Return(nil)
	w := s.do(http.MethodPost, "/admin/episodes/"+ready.String()+"/publish", "", bearer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"published":true}`, w.Body.String())

	jobErr := "ffmpeg exited 1"
	s.catalog.On("SetPublished", mock.Anything, failed, true).Return(service.ErrEpisodeNotReady.WithDetails(map[string]any{
		"episodeStatus": constant.EpisodeStatusFailed,
		"jobStatus":     constant.JobStatusFailed,
		"jobError":      &jobErr,
	}))
	w = s.do(http.MethodPost, "/admin/episodes/"+failed.String()+"/publish", `{"published":true}`, bearer)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"episode_not_ready","episodeStatus":"FAILED","jobStatus":"FAILED","jobError":"ffmpeg exited 1"}`, w.Body.String())
}

func TestAutoSplit_AppliesPolicyDefaults(t *testing.T) {
	s := newTestServer(t)
	seriesId, jobId, episodeId := uuid.New(), uuid.New(), uuid.New()

	s.jobs.On("CreateSplitJob", mock.Anything, seriesId, dto.SplitPolicy{
		RawKey: "raw/full.mp4", EpisodeDurationSec: 180, FreeEpisodes: 0, DefaultCoinCost: 5, MaxEpisodes: 50,
	}).Return(&dto.SplitResult{JobId: jobId, EpisodeId: episodeId, SeriesId: seriesId, Reused: true}, nil)

	w := s.do(http.MethodPost, "/admin/series/"+seriesId.String()+"/auto-split", `{"rawKey":"raw/full.mp4","freeEpisodes":0}`, s.adminToken(t))
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, jobId.String(), body["jobId"])
	assert.Equal(t, true, body["reused"])
}

func TestTriggerEncode_MissingRaw(t *testing.T) {
	s := newTestServer(t)
	episodeId := uuid.New()
	s.jobs.On("CreateEncodeJob", mock.Anything, episodeId).Return(nil, service.ErrMissingRawSource)

	w := s.do(http.MethodPost, "/admin/trigger-ai", `{"episodeId":"`+episodeId.String()+`"}`, s.adminToken(t))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "missing_raw", body["error"])
	assert.NotEmpty(t, body["hint"])

	jobId := uuid.New()
	s.jobs.On("CreateEncodeJob", mock.Anything, jobId).Return(&entities.AiJob{ID: uuid.New()}, nil)
	w = s.do(http.MethodPost, "/admin/episodes/"+jobId.String()+"/retry-ai", "", s.adminToken(t))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminErrors(t *testing.T) {
	s := newTestServer(t)
	bearer := s.adminToken(t)

	w := s.do(http.MethodGet, "/admin/series", "", s.userToken(t, uuid.New()))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "admin_unauthorized", decode(t, w)["error"])

	s.catalog.On("ListSeries", mock.Anything).Return(nil, errors.New("connection refused"))
	w = s.do(http.MethodGet, "/admin/series", "", bearer)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal_error"}`, w.Body.String())

	s.catalog.On("PresignUpload", mock.Anything, dto.UploadRequest{Filename: "a.mp4"}).Return(nil, service.ErrStorageUnavailable)
	w = s.do(http.MethodPost, "/admin/upload", `{"filename":"a.mp4"}`, bearer)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = s.do(http.MethodPost, "/admin/series", `{"title":"x"}`, bearer)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode(t, w)["error"])
}

func TestGuest_RateLimited(t *testing.T) {
	s := newTestServer(t)
	userId := uuid.New()
	s.auth.On("Guest", mock.Anything).Return(&dto.GuestSession{Token: "tok", User: dto.GuestUser{Id: userId, Coins: 50}}, nil).Twice()
	s.limiter.On("Allow", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "guest:")
	})).Return(true, nil).Once()
	s.limiter.On("Allow", mock.Anything, mock.Anything).Return(false, nil).Once()
	s.limiter.On("Allow", mock.Anything, mock.Anything).Return(true, errors.New("redis down")).Once()

	w := s.do(http.MethodPost, "/auth/guest", "", "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(50), decode(t, w)["user"].(map[string]any)["coins"])

	w = s.do(http.MethodPost, "/auth/guest", "", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limited", decode(t, w)["error"])

	w = s.do(http.MethodPost, "/auth/guest", "", "")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAdminLogin(t *testing.T) {
	s := newTestServer(t)
	s.auth.On("AdminLogin", mock.Anything, "ops@example.com", "nope").Return("", service.ErrInvalidCredentials)
	s.auth.On("AdminLogin", mock.Anything, "ops@example.com", "hunter22").Return("signed", nil)

	w := s.do(http.MethodPost, "/admin/login", `{"email":"ops@example.com","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_credentials", decode(t, w)["error"])

	w = s.do(http.MethodPost, "/admin/login", `{"email":"ops@example.com","password":"hunter22"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token":"signed"}`, w.Body.String())
}
