//go:build e2e

package e2e

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/godilite/studio-insights/internal/grpc"
	"github.com/godilite/studio-insights/internal/httpapi"
	"github.com/godilite/studio-insights/internal/observability"
	"github.com/godilite/studio-insights/internal/records"
	"github.com/godilite/studio-insights/internal/repository"
	"github.com/godilite/studio-insights/internal/service"
	"github.com/godilite/studio-insights/tests/e2e/mocks"
	dbbuilder "github.com/godilite/studio-insights/pkg/database"
)

const sessionsExport = `ID,Date,Month,Day of Week,Trainer,Location,Class Format,Capacity,Booked,Checked In,Cancelled,New Clients,Revenue
S1,2025-01-04,Jan 2025,Saturday,Anisha,Kwality House,Barre,20,18,15,3,2,"₹3,000"
S2,2025-01-05,Jan 2025,Sunday,,Supreme HQ,Cycle,12,4,0,4,0,-
S3,2025-02-01,Feb 2025,Saturday,Rohan,Supreme HQ,Cycle,12,12,11,1,1,2200.50
`

const membershipsExport = `member_id,name,email,membership_type,location,status,start_date,end_date,paid,sessions_left
m1,Asha,asha@x.io,Studio Annual,Kwality House,Active,2024-01-01,2025-01-01,"₹45,000",12
m2,Dev,dev@x.io,Studio 8 Class Package,Supreme HQ,Churned,2024-03-01,2024-06-01,8000,0
m3,Maya,maya@x.io,Studio 8 Class Package,Supreme HQ,Churned,2024-04-01,2024-07-01,8000,2
`

func setupTestDB(t *testing.T) (*sql.DB, *repository.SnapshotRepository) {
	t.Helper()
	ctx := context.Background()

	db, err := dbbuilder.New(ctx,
		dbbuilder.WithDriver("sqlite3"),
		dbbuilder.WithDataSource(":memory:"),
		dbbuilder.WithMaxOpenConns(1),
	)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.NewSnapshotRepository(db)
	require.NoError(t, repo.EnsureSchema(ctx))

	importer := repository.NewImporter(db)
	_, err = importer.Import(ctx, records.DatasetSessions, strings.NewReader(sessionsExport))
	require.NoError(t, err)
	_, err = importer.Import(ctx, records.DatasetMemberships, strings.NewReader(membershipsExport))
	require.NoError(t, err)

	return db, repo
}

func TestE2E_QueryOverGRPCHandlers(t *testing.T) {
	_, repo := setupTestDB(t)
	logger := zap.NewNop()

	svc := service.NewDashboardService(repo, logger)
	cached := service.NewCachedDashboard(svc, &mocks.InMemoryCache{}, repo, time.Minute, nil, logger)
	handler := grpc.NewDashboardHandlers(cached, logger, 5*time.Second)

	req, err := structpb.NewStruct(map[string]any{"view": "sessions.trainers"})
	require.NoError(t, err)

	resp, err := handler.Query(context.Background(), req)
	require.NoError(t, err)

	got := resp.AsMap()
	rows := got["rows"].([]any)
	require.Len(t, rows, 3)

	first := rows[0].(map[string]any)
	assert.Equal(t, "Anisha", first["name"])
	assert.Equal(t, 75.0, first["metrics"].(map[string]any)["fill_rate"])
	assert.Equal(t, records.Unknown, rows[2].(map[string]any)["name"])

	req, err = structpb.NewStruct(map[string]any{"view": "sessions.trainers", "sort_by": "nope"})
	require.NoError(t, err)
	_, err = handler.Query(context.Background(), req)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestE2E_CachedResultsSurviveAndInvalidate(t *testing.T) {
	db, repo := setupTestDB(t)
	ctx := context.Background()
	logger := zap.NewNop()

	tracking := mocks.NewTrackingCache()
	cached := service.NewCachedDashboard(service.NewDashboardService(repo, logger), tracking, repo, time.Minute, nil, logger)

	first, err := cached.Records(ctx, service.RecordsQuery{Dataset: records.DatasetMemberships, Filters: map[string]string{"status": "Churned"}})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Total)

	require.Eventually(t, func() bool {
		_, sets := tracking.Calls()
		return sets == 1
	}, time.Second, 10*time.Millisecond)

	again, err := cached.Records(ctx, service.RecordsQuery{Dataset: records.DatasetMemberships, Filters: map[string]string{"status": "Churned"}})
	require.NoError(t, err)
	assert.Equal(t, first, again)

	_, err = repository.NewImporter(db).Import(ctx, records.DatasetMemberships, strings.NewReader(
		"member_id,name,status\nm9,Zoe,Churned\n"))
	require.NoError(t, err)

	fresh, err := cached.Records(ctx, service.RecordsQuery{Dataset: records.DatasetMemberships, Filters: map[string]string{"status": "Churned"}})
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Total, "a new snapshot version must not serve the old entry")
}

func TestE2E_HTTPAPI(t *testing.T) {
	_, repo := setupTestDB(t)
	logger := zap.NewNop()

	svc := service.NewDashboardService(repo, logger)
	router := httpapi.NewRouter(httpapi.NewHandler(svc, logger), httpapi.RouterConfig{
		Logger:    logger,
		Metrics:   observability.NewMetrics(),
		RateLimit: 100,
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	fetch := func(path string, dest any) int {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		if dest != nil && resp.StatusCode == http.StatusOK {
			require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
		}
		return resp.StatusCode
	}

	var view service.View
	require.Equal(t, http.StatusOK, fetch("/api/v1/views/sessions.formats?sort=sessions&f.location="+url.QueryEscape("Supreme HQ"), &view))
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "Cycle", view.Rows[0].Name)
	assert.Equal(t, 2.0, view.Rows[0].Totals["sessions"])

	var bucket service.Bucket
	require.Equal(t, http.StatusOK, fetch("/api/v1/views/sessions.trainers/buckets/Anisha?records=true", &bucket))
	assert.Len(t, bucket.Records, 1)

	var overview service.Overview
	require.Equal(t, http.StatusOK, fetch("/api/v1/overview", &overview))
	assert.Len(t, overview.Cards, 6)

	assert.Equal(t, http.StatusNotFound, fetch("/api/v1/views/sessions.nope", nil))
	assert.Equal(t, http.StatusNotFound, fetch("/api/v1/views/sessions.trainers/buckets/Zed", nil))
	assert.Equal(t, http.StatusBadRequest, fetch("/api/v1/datasets/memberships/records?limit=5000", nil))
}
