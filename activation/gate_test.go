package activation

import (
	"fmt"
	"testing"
	"time"

	"propfund/config"
	"propfund/database"
	"propfund/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	config.AppConfig = &config.Config{
		RequiredRegistrationFee: 500,
		RequiredTeamSize:        20,
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type seedOpts struct {
	feePaid     float64
	kycVerified bool
	leadsTeam   bool
	memberCount int
}

func seedUser(t *testing.T, db *gorm.DB, opts seedOpts) *models.User {
	t.Helper()

	user := models.User{
		Name:                "Ravi",
		Email:               fmt.Sprintf("%s@example.com", t.Name()),
		Password:            "irrelevant",
		Status:              models.UserStatusInactive,
		RegistrationFeePaid: opts.feePaid,
		LeadsTeam:           opts.leadsTeam,
	}
	require.NoError(t, db.Create(&user).Error)

	if opts.kycVerified {
		now := time.Now()
		kyc := models.UserKYC{
			UserID:     user.ID,
			IsVerified: true,
			VerifiedAt: &now,
		}
		require.NoError(t, db.Create(&kyc).Error)
		require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
			Update("kyc_id", kyc.ID).Error)
	}

	if opts.leadsTeam {
		team := models.Team{
			Name:        "Alpha",
			LeaderID:    user.ID,
			MemberCount: opts.memberCount,
			Status:      models.TeamStatusInactive,
		}
		require.NoError(t, db.Create(&team).Error)
	}

	return &user
}

func TestEligibleUserActivatesWithTeam(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, seedOpts{feePaid: 500, kycVerified: true, leadsTeam: true, memberCount: 20})
	gate := NewGate(db)

	result, err := gate.Evaluate(user.ID)
	require.NoError(t, err)
	assert.True(t, result.Eligible)
	assert.True(t, result.Active)
	assert.Empty(t, result.Reasons)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, models.UserStatusActive, reloaded.Status)
	assert.True(t, reloaded.RegistrationApproved)

	var team models.Team
	require.NoError(t, db.Where("leader_id = ?", user.ID).First(&team).Error)
	assert.Equal(t, models.TeamStatusActive, team.Status)
}

func TestSecondEvaluationIsNoOp(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, seedOpts{feePaid: 500, kycVerified: true})
	gate := NewGate(db)

	_, err := gate.Evaluate(user.ID)
	require.NoError(t, err)

	result, err := gate.Evaluate(user.ID)
	require.NoError(t, err)
	assert.True(t, result.Active)
	assert.Empty(t, result.Reasons)
}

func TestUndersizedTeamBlocksActivation(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, seedOpts{feePaid: 500, kycVerified: true, leadsTeam: true, memberCount: 15})
	gate := NewGate(db)

	result, err := gate.Evaluate(user.ID)
	require.NoError(t, err)
	assert.False(t, result.Eligible)
	assert.Contains(t, result.Reasons, "team must have at least 20 members")

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, models.UserStatusInactive, reloaded.Status)

	var team models.Team
	require.NoError(t, db.Where("leader_id = ?", user.ID).First(&team).Error)
	assert.Equal(t, models.TeamStatusInactive, team.Status)
}

func TestAllBlockingReasonsReported(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, seedOpts{feePaid: 200, kycVerified: false, leadsTeam: true, memberCount: 3})
	gate := NewGate(db)

	result, err := gate.Evaluate(user.ID)
	require.NoError(t, err)
	assert.False(t, result.Eligible)
	assert.Len(t, result.Reasons, 3)
	assert.Contains(t, result.Reasons, "registration fee of at least 500 must be paid")
	assert.Contains(t, result.Reasons, "kyc verification is not complete")
	assert.Contains(t, result.Reasons, "team must have at least 20 members")
}

func TestNonLeaderSkipsTeamCheck(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, seedOpts{feePaid: 500, kycVerified: true})
	gate := NewGate(db)

	result, err := gate.Evaluate(user.ID)
	require.NoError(t, err)
	assert.True(t, result.Active)
}

func TestPartialFeeBlocksActivation(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, seedOpts{feePaid: 499.99, kycVerified: true})
	gate := NewGate(db)

	result, err := gate.Evaluate(user.ID)
	require.NoError(t, err)
	assert.False(t, result.Eligible)
	assert.Contains(t, result.Reasons, "registration fee of at least 500 must be paid")
}
