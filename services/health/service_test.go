package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quatro-backend/pkg/config"
	"quatro-backend/services/recurring"
	"quatro-backend/services/task"
	"quatro-backend/services/testutil"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
	gin.SetMode(gin.TestMode)
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	db := testutil.NewTestDB(t, &recurring.RecurringConfig{}, &task.Task{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := recurring.NewService(recurring.Params{
		Configs: recurring.NewRepository(db),
		Tasks:   task.NewRepository(db),
		Node:    node,
		Config:  &config.Config{},
	})

	return NewService(Params{DB: db, Recurring: svc})
}

func perform(handler gin.HandlerFunc, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, path, nil)
	handler(c)
	return rec
}

func TestLiveness(t *testing.T) {
	svc := newTestService(t)

	rec := perform(svc.Liveness, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "healthy", body.Status)
}

func TestReadinessReportsDatabase(t *testing.T) {
	svc := newTestService(t)

	rec := perform(svc.Readiness, http.MethodGet, "/readyz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "healthy", body.Status)
	require.Len(t, body.Deps, 1)
	require.Equal(t, "database", body.Deps[0].Name)
}

func TestLastCycleBeforeAndAfterFirstRun(t *testing.T) {
	svc := newTestService(t)

	rec := perform(svc.LastCycle, http.MethodGet, "/recurring/last-cycle")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = perform(svc.RunCycle, http.MethodPost, "/recurring/run")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = perform(svc.LastCycle, http.MethodGet, "/recurring/last-cycle")
	require.Equal(t, http.StatusOK, rec.Code)

	var report recurring.CycleReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Zero(t, report.Total)
}

func TestRunCycleHandlerReturnsReport(t *testing.T) {
	svc := newTestService(t)

	rec := perform(svc.RunCycle, http.MethodPost, "/recurring/run")
	require.Equal(t, http.StatusOK, rec.Code)

	var report recurring.CycleReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Zero(t, report.Created)
	require.NotNil(t, report.CreatedTaskIDs)
}
