package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	trcfg "tradify/internal/config"
	"tradify/internal/store/sqlite"
)

type staticRate struct{ rate float64 }

func (s staticRate) FetchRate(ctx context.Context, base, display string) (float64, error) {
	return s.rate, nil
}

func testConfig() *trcfg.Config {
	cfg := trcfg.Default()
	cfg.App.HTTPAddr = ":0"
	cfg.Database.RateHistoryPath = ""
	cfg.Strategy.PresetsPath = ""
	return cfg
}

func memoryStore(t *testing.T) *sqlite.SqliteStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	st, err := sqlite.NewSqliteStoreFromDB(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestAppBuilder_Build(t *testing.T) {
	builder := NewAppBuilder(testConfig(),
		WithStore(memoryStore(t)),
		WithRateSource(staticRate{rate: 15500}),
	)
	application, err := builder.Build(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, application.Journal())
	assert.NotNil(t, application.http)
	assert.NotNil(t, application.currency)
	assert.Nil(t, application.presets)
	require.NotNil(t, application.Summary)
	assert.Equal(t, "USD/IDR", application.Summary.CurrencyPair)
}

func TestAppBuilder_NilConfig(t *testing.T) {
	_, err := NewAppBuilder(nil).Build(context.Background())
	require.Error(t, err)
}

func TestNewApp_NilConfig(t *testing.T) {
	_, err := NewApp(nil)
	require.Error(t, err)
}
