package postgres

import (
	"context"
	"strings"
	"testing"
	"time"

	"verifiedMarket/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// sqlRecorder keeps every statement gorm renders.
type sqlRecorder struct {
	statements []string
}

func (r *sqlRecorder) LogMode(gormlogger.LogLevel) gormlogger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{})     {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})     {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{})    {}

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.statements = append(r.statements, sql)
}

func (r *sqlRecorder) last(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, r.statements)
	return r.statements[len(r.statements)-1]
}

// newDryRunDB renders postgres SQL without a server: nothing is executed and
// every statement affects zero rows.
func newDryRunDB(t *testing.T) (*gorm.DB, *sqlRecorder) {
	t.Helper()

	rec := &sqlRecorder{}
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 user=verified dbname=verified sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               rec,
	})
	require.NoError(t, err)

	return db, rec
}

func TestSellerRepository_FindVerifiedByBusinessName_SQL(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewSellerRepository(db)

	_, err := repo.FindVerifiedByBusinessName(context.Background(), "ACME corp")
	require.NoError(t, err)

	var query string
	for _, s := range rec.statements {
		if strings.Contains(s, "business_name") {
			query = s
		}
	}
	require.NotEmpty(t, query)

	assert.Contains(t, query, `FROM "seller_profiles"`)
	assert.Contains(t, query, "LOWER(business_name) = LOWER('ACME corp')")
	assert.Contains(t, query, "is_verified = true")
	assert.Contains(t, query, "ORDER BY id")
	assert.Contains(t, query, "LIMIT 1")
}

func TestSellerRepository_UpdateVerification_SQL(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewSellerRepository(db)

	err := repo.UpdateVerification(context.Background(), 7, true, false)

	query := rec.last(t)
	assert.Contains(t, query, `UPDATE "seller_profiles" SET`)
	assert.Contains(t, query, `"is_verified"=true`)
	assert.Contains(t, query, `"notified"=false`)
	assert.Contains(t, query, "id = 7")

	// no row touched means no such seller
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, msgSellerNotFound, err.Error())
}

func TestSellerRepository_MarkNotified_SQL(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewSellerRepository(db)

	marked, err := repo.MarkNotified(context.Background(), 7, false)
	require.NoError(t, err)
	assert.False(t, marked)

	query := rec.last(t)
	assert.Contains(t, query, `UPDATE "seller_profiles" SET "notified"=true`)
	assert.Contains(t, query, "id = 7")
	assert.Contains(t, query, "is_verified = false")
}
