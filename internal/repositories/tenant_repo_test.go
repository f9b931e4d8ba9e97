package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"notesapp/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var tenantCols = []string{"id", "slug", "display_name", "plan", "created_at", "updated_at"}

type TenantRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    TenantRepository
	context context.Context
}

func (suite *TenantRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewTenantRepo(mock)
	suite.context = context.Background()
}

func (suite *TenantRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestTenantRepoTestSuite(t *testing.T) {
	suite.Run(t, new(TenantRepoTestSuite))
}

func (suite *TenantRepoTestSuite) TestCreateIfAbsent_Inserted() {
	tenant := &models.Tenant{ID: uuid.New(), Slug: "acme", DisplayName: "Acme Corp", Plan: models.PlanFree}
	now := time.Now()

	suite.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tenants")).
		WithArgs(tenant.ID, "acme", "Acme Corp", "FREE").
		WillReturnRows(pgxmock.NewRows(tenantCols).AddRow(tenant.ID, "acme", "Acme Corp", "FREE", now, now))

	stored, created, err := suite.repo.CreateIfAbsent(suite.context, tenant)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), created)
	assert.Equal(suite.T(), tenant.ID, stored.ID)
	assert.Equal(suite.T(), models.PlanFree, stored.Plan)
}

func (suite *TenantRepoTestSuite) TestCreateIfAbsent_SlugTakenReturnsExisting() {
	tenant := &models.Tenant{ID: uuid.New(), Slug: "acme", DisplayName: "Other Name", Plan: models.PlanFree}
	existingID := uuid.New()
	now := time.Now()

	suite.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tenants")).
		WithArgs(tenant.ID, "acme", "Other Name", "FREE").
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectQuery(regexp.QuoteMeta("FROM tenants WHERE slug = $1")).
		WithArgs("acme").
		WillReturnRows(pgxmock.NewRows(tenantCols).AddRow(existingID, "acme", "Acme Corp", "PRO", now, now))

	stored, created, err := suite.repo.CreateIfAbsent(suite.context, tenant)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), created)
	assert.Equal(suite.T(), existingID, stored.ID)
	assert.Equal(suite.T(), "Acme Corp", stored.DisplayName)
	assert.Equal(suite.T(), models.PlanPro, stored.Plan)
}

func (suite *TenantRepoTestSuite) TestCreateIfAbsent_UniqueViolationIsConflict() {
	tenant := &models.Tenant{ID: uuid.New(), Slug: "acme", DisplayName: "Acme", Plan: models.PlanFree}

	suite.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tenants")).
		WithArgs(tenant.ID, "acme", "Acme", "FREE").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, _, err := suite.repo.CreateIfAbsent(suite.context, tenant)
	assert.ErrorIs(suite.T(), err, ErrConflict)
}

func (suite *TenantRepoTestSuite) TestGetBySlug_NotFound() {
	suite.mock.ExpectQuery(regexp.QuoteMeta("FROM tenants WHERE slug = $1")).
		WithArgs("nobody").
		WillReturnError(pgx.ErrNoRows)

	tenant, err := suite.repo.GetBySlug(suite.context, "nobody")
	assert.Nil(suite.T(), tenant)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *TenantRepoTestSuite) TestGetByID_Success() {
	id := uuid.New()
	now := time.Now()
	suite.mock.ExpectQuery(regexp.QuoteMeta("FROM tenants WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(tenantCols).AddRow(id, "globex", "Globex Inc", "FREE", now, now))

	tenant, err := suite.repo.GetByID(suite.context, id)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "globex", tenant.Slug)
}

func (suite *TenantRepoTestSuite) TestGetByID_UnknownPlanRejected() {
	id := uuid.New()
	now := time.Now()
	suite.mock.ExpectQuery(regexp.QuoteMeta("FROM tenants WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(tenantCols).AddRow(id, "globex", "Globex Inc", "ENTERPRISE", now, now))

	tenant, err := suite.repo.GetByID(suite.context, id)
	assert.Nil(suite.T(), tenant)
	require.Error(suite.T(), err)
	assert.NotErrorIs(suite.T(), err, ErrNotFound)
	assert.Contains(suite.T(), err.Error(), "ENTERPRISE")
}

func (suite *TenantRepoTestSuite) TestUpdatePlan() {
	id := uuid.New()
	suite.mock.ExpectExec(regexp.QuoteMeta("UPDATE tenants SET plan = $1")).
		WithArgs("PRO", id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(suite.T(), suite.repo.UpdatePlan(suite.context, id, models.PlanPro))
}

func (suite *TenantRepoTestSuite) TestUpdatePlan_NotFound() {
	id := uuid.New()
	suite.mock.ExpectExec(regexp.QuoteMeta("UPDATE tenants SET plan = $1")).
		WithArgs("PRO", id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.ErrorIs(suite.T(), suite.repo.UpdatePlan(suite.context, id, models.PlanPro), ErrNotFound)
}

func (suite *TenantRepoTestSuite) TestList() {
	now := time.Now()
	suite.mock.ExpectQuery(regexp.QuoteMeta("FROM tenants ORDER BY created_at ASC")).
		WithArgs(100, 0).
		WillReturnRows(pgxmock.NewRows(tenantCols).
			AddRow(uuid.New(), "acme", "Acme Corp", "FREE", now, now).
			AddRow(uuid.New(), "globex", "Globex Inc", "PRO", now, now))

	tenants, err := suite.repo.List(suite.context, 100, 0)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), tenants, 2)
	assert.Equal(suite.T(), models.PlanPro, tenants[1].Plan)
}

func (suite *TenantRepoTestSuite) TestDeleteAll_Error() {
	suite.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tenants")).
		WillReturnError(errors.New("connection reset"))

	assert.Error(suite.T(), suite.repo.DeleteAll(suite.context))
}
