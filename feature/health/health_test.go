package health

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"registry-sync/core/metrics"
	"registry-sync/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}
	return gormDB, mock
}

func setupTestApp(db *gorm.DB, m *metrics.Metrics) *fiber.App {
	app := fiber.New()
	_ = NewFeature(db, m, zap.NewNop()).Load(app)
	return app
}

func TestHeartbeat(t *testing.T) {
	t.Run("Up", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectPing()

		resp, err := setupTestApp(db, nil).Test(httptest.NewRequest("GET", "/heartbeat", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "ok", body["status"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Down", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectPing().WillReturnError(assert.AnError)

		resp, err := setupTestApp(db, nil).Test(httptest.NewRequest("GET", "/heartbeat", nil))
		require.NoError(t, err)
		assert.Equal(t, 503, resp.StatusCode)
	})

	t.Run("NoDatabase", func(t *testing.T) {
		resp, err := setupTestApp(nil, nil).Test(httptest.NewRequest("GET", "/heartbeat", nil))
		require.NoError(t, err)
		assert.Equal(t, 503, resp.StatusCode)
	})
}

func TestMetricsRoute(t *testing.T) {
	m := metrics.New()
	m.Observe("npm", metrics.StatusSuccess, &reconcile.Batch{}, reconcile.Stats{}, time.Second)

	resp, err := setupTestApp(nil, m).Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = setupTestApp(nil, nil).Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
