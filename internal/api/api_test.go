package api

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maiconbalke/MVP-Review-Tools/internal/config"
	"github.com/maiconbalke/MVP-Review-Tools/internal/model"
	"github.com/maiconbalke/MVP-Review-Tools/internal/queue"
)

func newTestServer(t *testing.T) (*httptest.Server, *queue.Store) {
	t.Helper()
	store, err := queue.NewStore(t.TempDir(), nil)
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	srv := httptest.NewServer(NewServer(store, cfg, nil).Router())
	t.Cleanup(srv.Close)
	return srv, store
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestAnalyzeCreatesQueuedJob(t *testing.T) {
	srv, store := newTestServer(t)

	resp := postJSON(t, srv.URL+"/analyze", `{"repoUrl": "https://example.com/x"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	jobID := body["jobId"]
	require.NotEmpty(t, jobID)

	job, err := store.Get(jobID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusQueued, job.Status)
	assert.Equal(t, "standard", job.PolicyProfile, "missing policy param defaults to standard")
	assert.Equal(t, "https://example.com/x", job.Body.RepoURL)
	assert.Empty(t, job.Body.UploadPath)
}

func TestAnalyzeRejectsMissingRepoURL(t *testing.T) {
	srv, store := newTestServer(t)

	for _, body := range []string{`{}`, `{"repoUrl": ""}`, `{"repoUrl": "   "}`, `not json`} {
		resp := postJSON(t, srv.URL+"/analyze", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body %q", body)

		var errBody map[string]string
		decodeBody(t, resp, &errBody)
		assert.Equal(t, "missing_repoUrl", errBody["error"], "body %q", body)
	}

	jobs, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, jobs, "no job record may be created on rejection")
}

func TestAnalyzePolicyProfileSelection(t *testing.T) {
	srv, store := newTestServer(t)

	tests := []struct {
		query    string
		header   string
		expected string
	}{
		{"?policy=strict", "", "strict"},
		{"?policy=bogus", "", "standard"},
		{"", "security", "security"},
		{"?policy=strict", "security", "strict"}, // query wins
	}
	for _, tt := range tests {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/analyze"+tt.query,
			strings.NewReader(`{"repoUrl": "https://example.com/x"}`))
		require.NoError(t, err)
		if tt.header != "" {
			req.Header.Set("X-Policy-Profile", tt.header)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)

		var body map[string]string
		decodeBody(t, resp, &body)
		job, err := store.Get(body["jobId"])
		require.NoError(t, err)
		assert.Equal(t, tt.expected, job.PolicyProfile, "query %q header %q", tt.query, tt.header)
	}
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func zipBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("README.md")
	require.NoError(t, err)
	_, err = w.Write([]byte("# x"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestUploadCreatesQueuedJob(t *testing.T) {
	srv, store := newTestServer(t)

	body, contentType := multipartUpload(t, "file", "repo.zip", zipBytes(t))
	resp, err := http.Post(srv.URL+"/analyze/upload?policy=security", contentType, body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var respBody map[string]string
	decodeBody(t, resp, &respBody)
	jobID := respBody["jobId"]
	require.NotEmpty(t, jobID)

	job, err := store.Get(jobID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusQueued, job.Status)
	assert.Equal(t, "security", job.PolicyProfile)
	assert.Empty(t, job.Body.RepoURL)
	assert.Contains(t, job.Body.UploadPath, jobID+".zip")
}

func TestUploadRejectsNonZip(t *testing.T) {
	srv, store := newTestServer(t)

	body, contentType := multipartUpload(t, "file", "repo.tar.gz", []byte("data"))
	resp, err := http.Post(srv.URL+"/analyze/upload", contentType, body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errBody map[string]string
	decodeBody(t, resp, &errBody)
	assert.Equal(t, "invalid_file", errBody["error"])

	jobs, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, jobs, "no job record may be created on rejection")
}

func TestUploadRejectsWrongFieldName(t *testing.T) {
	srv, _ := newTestServer(t)

	body, contentType := multipartUpload(t, "archive", "repo.zip", zipBytes(t))
	resp, err := http.Post(srv.URL+"/analyze/upload", contentType, body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errBody map[string]string
	decodeBody(t, resp, &errBody)
	assert.Equal(t, "invalid_field", errBody["error"])
}

func TestUploadRejectsMissingFile(t *testing.T) {
	srv, _ := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/analyze/upload", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errBody map[string]string
	decodeBody(t, resp, &errBody)
	assert.Equal(t, "missing_file", errBody["error"])
}

func TestStatusUnknownJob(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/jobs/nope/status")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Equal(t, "not_found", body["status"])
	assert.Equal(t, false, body["hasResult"])
	assert.Equal(t, "nope", body["jobId"])
}

func TestStatusQueuedJob(t *testing.T) {
	srv, store := newTestServer(t)

	resp := postJSON(t, srv.URL+"/analyze", `{"repoUrl": "https://example.com/x"}`)
	var created map[string]string
	decodeBody(t, resp, &created)
	jobID := created["jobId"]

	resp, err := http.Get(srv.URL + "/jobs/" + jobID + "/status")
	require.NoError(t, err)

	var status map[string]any
	decodeBody(t, resp, &status)
	assert.Equal(t, "queued", status["status"])
	assert.Equal(t, false, status["hasResult"])
	assert.Equal(t, "standard", status["policyProfile"])
	assert.NotEmpty(t, status["createdAt"])

	// hasResult flips independently once a result file exists.
	require.NoError(t, store.WriteResult(model.AnalysisResult{JobID: jobID}))
	resp, err = http.Get(srv.URL + "/jobs/" + jobID + "/status")
	require.NoError(t, err)
	decodeBody(t, resp, &status)
	assert.Equal(t, "queued", status["status"])
	assert.Equal(t, true, status["hasResult"])
}

func TestResultNotFoundUntilWritten(t *testing.T) {
	srv, store := newTestServer(t)

	resp, err := http.Get(srv.URL + "/jobs/job-1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errBody map[string]string
	decodeBody(t, resp, &errBody)
	assert.Equal(t, "not_found", errBody["error"])

	require.NoError(t, store.WriteResult(model.AnalysisResult{
		JobID: "job-1",
		Score: 85,
		Grade: model.GradeB,
	}))

	resp, err = http.Get(srv.URL + "/jobs/job-1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result model.AnalysisResult
	decodeBody(t, resp, &result)
	assert.Equal(t, 85, result.Score)
	assert.Equal(t, model.GradeB, result.Grade)
}

func TestListJobsSortedAndCapped(t *testing.T) {
	srv, store := newTestServer(t)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		require.NoError(t, store.Enqueue(model.Job{
			JobID:         fmt.Sprintf("job-%02d", i),
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
			Body:          model.JobBody{RepoURL: "https://example.com/x"},
			Status:        model.StatusQueued,
			PolicyProfile: "standard",
		}))
	}

	resp, err := http.Get(srv.URL + "/jobs")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var jobs []model.JobSummary
	decodeBody(t, resp, &jobs)
	require.Len(t, jobs, 20, "listing is capped")
	assert.Equal(t, "job-24", jobs[0].JobID, "newest first")
	for i := 1; i < len(jobs); i++ {
		assert.False(t, jobs[i].CreatedAt.After(jobs[i-1].CreatedAt), "descending order")
	}
}

func TestListJobsEmpty(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/jobs")
	require.NoError(t, err)

	var jobs []model.JobSummary
	decodeBody(t, resp, &jobs)
	assert.Empty(t, jobs)
}
