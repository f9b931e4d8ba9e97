package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"notesapp/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var userCols = []string{"id", "tenant_id", "email", "password_hash", "role", "created_at", "updated_at"}

type UserRepoTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	repo     UserRepository
	tenantID uuid.UUID
	context  context.Context
}

func (suite *UserRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewUserRepo(mock)
	suite.tenantID = uuid.New()
	suite.context = context.Background()
}

func (suite *UserRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestUserRepoTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepoTestSuite))
}

func (suite *UserRepoTestSuite) newUser() *models.User {
	return &models.User{
		ID:           uuid.New(),
		TenantID:     suite.tenantID,
		Email:        "admin@acme.test",
		PasswordHash: "$2a$10$hash",
		Role:         models.RoleAdmin,
	}
}

func (suite *UserRepoTestSuite) TestCreate_Success() {
	user := suite.newUser()
	now := time.Now()

	suite.mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (email, tenant_id) DO NOTHING")).
		WithArgs(user.ID, user.TenantID, user.Email, user.PasswordHash, "ADMIN").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(suite.T(), suite.repo.Create(suite.context, user))
	assert.Equal(suite.T(), now, user.CreatedAt)
}

func (suite *UserRepoTestSuite) TestCreate_DuplicateIsConflict() {
	user := suite.newUser()

	suite.mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (email, tenant_id) DO NOTHING")).
		WithArgs(user.ID, user.TenantID, user.Email, user.PasswordHash, "ADMIN").
		WillReturnError(pgx.ErrNoRows)

	assert.ErrorIs(suite.T(), suite.repo.Create(suite.context, user), ErrConflict)
}

func (suite *UserRepoTestSuite) TestUpsert_ReturnsStoredRow() {
	user := suite.newUser()
	storedID := uuid.New()
	now := time.Now()

	suite.mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (email, tenant_id) DO UPDATE")).
		WithArgs(user.ID, user.TenantID, user.Email, user.PasswordHash, "ADMIN").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(storedID, suite.tenantID, user.Email, user.PasswordHash, "ADMIN", now, now))

	stored, err := suite.repo.Upsert(suite.context, user)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), storedID, stored.ID)
	assert.Equal(suite.T(), models.RoleAdmin, stored.Role)
}

func (suite *UserRepoTestSuite) TestGetByEmail_Success() {
	id := uuid.New()
	now := time.Now()
	suite.mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE tenant_id = $1 AND email = $2")).
		WithArgs(suite.tenantID, "user@acme.test").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(id, suite.tenantID, "user@acme.test", "hash", "MEMBER", now, now))

	user, err := suite.repo.GetByEmail(suite.context, suite.tenantID, "user@acme.test")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), id, user.ID)
	assert.Equal(suite.T(), models.RoleMember, user.Role)
	assert.Equal(suite.T(), "hash", user.PasswordHash)
}

func (suite *UserRepoTestSuite) TestGetByEmail_NotFound() {
	suite.mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE tenant_id = $1 AND email = $2")).
		WithArgs(suite.tenantID, "ghost@acme.test").
		WillReturnError(pgx.ErrNoRows)

	user, err := suite.repo.GetByEmail(suite.context, suite.tenantID, "ghost@acme.test")
	assert.Nil(suite.T(), user)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}
