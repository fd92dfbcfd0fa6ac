//go:build integration

package persistence

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	financeapp "github.com/erp/distribution/internal/application/finance"
	"github.com/erp/distribution/internal/domain/approval"
	"github.com/erp/distribution/internal/domain/field"
	"github.com/erp/distribution/internal/domain/finance"
	"github.com/erp/distribution/internal/domain/identity"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/erp/distribution/internal/infrastructure/migration"
	"github.com/erp/distribution/migrations"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type pgFixture struct {
	db       *gorm.DB
	sqlDB    *sql.DB
	migrator *migration.Migrator
}

func newPostgres(t *testing.T) *pgFixture {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("distribution_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.NewFromFS(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	return &pgFixture{db: db, sqlDB: sqlDB, migrator: m}
}

func (f *pgFixture) seedAgent(t *testing.T) (uuid.UUID, uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	tenant, err := identity.NewTenant("T"+uuid.NewString()[:8], "Test tenant")
	require.NoError(t, err)
	require.NoError(t, NewGormTenantRepository(f.db).Create(ctx, tenant))

	agent, err := field.NewAgent(tenant.ID, "AG-1", "Field agent", field.AgentTypeFieldAgent)
	require.NoError(t, err)
	require.NoError(t, NewGormAgentRepository(f.db).Create(ctx, agent))
	return tenant.ID, agent.ID
}

func TestPostgres_MigrationsRoundTrip(t *testing.T) {
	f := newPostgres(t)

	version, dirty, err := f.migrator.Version()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.NotZero(t, version)

	var seeded int64
	require.NoError(t, f.db.Model(&approval.EntityType{}).Count(&seeded).Error)
	assert.Equal(t, int64(4), seeded)

	require.NoError(t, f.migrator.Down())
	require.NoError(t, f.migrator.Up())
}

func TestPostgres_OneActiveCashSessionPerAgent(t *testing.T) {
	f := newPostgres(t)
	ctx := context.Background()
	tenantID, agentID := f.seedAgent(t)
	repo := NewGormCashSessionRepository(f.db)

	first, err := finance.NewCashSession(tenantID, agentID, time.Now(), decimal.Zero, "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	second, err := finance.NewCashSession(tenantID, agentID, time.Now(), decimal.Zero, "")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, second), shared.ErrAlreadyExists)

	active, err := repo.ExistsActiveForAgent(ctx, tenantID, agentID)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestPostgres_CashSessionLifecycle(t *testing.T) {
	f := newPostgres(t)
	ctx := context.Background()
	tenantID, agentID := f.seedAgent(t)

	svc := financeapp.NewCashSessionService(financeapp.CashSessionServiceDeps{
		Sessions:    NewGormCashSessionRepository(f.db),
		Collections: NewGormCashCollectionRepository(f.db),
		Deposits:    NewGormBankDepositRepository(f.db),
		Agents:      NewGormAgentRepository(f.db),
		TxScope:     NewGormTransactionScope(f.db).ForFinance(),
	})

	s, err := svc.Open(ctx, tenantID, financeapp.OpenCashSessionRequest{AgentID: agentID})
	require.NoError(t, err)
	_, err = svc.RecordCollection(ctx, tenantID, s.ID, financeapp.RecordCollectionRequest{Amount: decimal.NewFromInt(1000)})
	require.NoError(t, err)

	pending, err := svc.Close(ctx, tenantID, s.ID, financeapp.CloseCashSessionRequest{ActualCash: decimal.NewFromInt(970)})
	require.NoError(t, err)
	assert.Equal(t, "pending_approval", pending.Status)
	require.NotNil(t, pending.ApprovalRequestID)

	requests := NewGormApprovalRequestRepository(f.db)
	r, err := requests.FindPendingForEntity(ctx, tenantID, approval.EntityCashSession, s.ID)
	require.NoError(t, err)
	assert.Equal(t, *pending.ApprovalRequestID, r.ID)

	closed, err := svc.Approve(ctx, tenantID, s.ID, financeapp.ApproveCashSessionRequest{ApprovedBy: "manager"})
	require.NoError(t, err)
	assert.Equal(t, "closed", closed.Status)

	_, err = requests.FindPendingForEntity(ctx, tenantID, approval.EntityCashSession, s.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	d, err := svc.Deposit(ctx, tenantID, financeapp.CreateDepositRequest{SessionIDs: []uuid.UUID{s.ID}, BankName: "Bank"})
	require.NoError(t, err)
	assert.Equal(t, "970.00", d.Amount.StringFixed(2))

	loaded, err := svc.GetDeposit(ctx, tenantID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{s.ID}, loaded.SessionIDs)

	_, err = svc.Deposit(ctx, tenantID, financeapp.CreateDepositRequest{SessionIDs: []uuid.UUID{s.ID}, BankName: "Bank"})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	other := uuid.New()
	_, err = svc.GetByID(ctx, other, s.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPostgres_ConcurrentCollectionsAllCount(t *testing.T) {
	f := newPostgres(t)
	ctx := context.Background()
	tenantID, agentID := f.seedAgent(t)

	svc := financeapp.NewCashSessionService(financeapp.CashSessionServiceDeps{
		Sessions:    NewGormCashSessionRepository(f.db),
		Collections: NewGormCashCollectionRepository(f.db),
		Deposits:    NewGormBankDepositRepository(f.db),
		Agents:      NewGormAgentRepository(f.db),
		TxScope:     NewGormTransactionScope(f.db).ForFinance(),
	})
	start := decimal.NewFromInt(100)
	s, err := svc.Open(ctx, tenantID, financeapp.OpenCashSessionRequest{AgentID: agentID, StartingBalance: &start})
	require.NoError(t, err)

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordCollection(ctx, tenantID, s.ID, financeapp.RecordCollectionRequest{Amount: decimal.NewFromInt(10)})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := svc.GetByID(ctx, tenantID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "180.00", got.ExpectedCash.StringFixed(2))
}
