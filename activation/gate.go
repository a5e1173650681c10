// Package activation evaluates whether a user (and their team) may flip
// from inactive to active. The transition is one-way and applied exactly
// once.
package activation

import (
	"fmt"

	"propfund/config"
	"propfund/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TeamProvider supplies team membership facts. Kept behind an interface so
// the gate stays testable without team CRUD in scope.
type TeamProvider interface {
	TeamLedBy(userID uint) (*models.Team, error)
}

// DBTeamProvider reads teams from the shared database.
type DBTeamProvider struct {
	Db *gorm.DB
}

func (p DBTeamProvider) TeamLedBy(userID uint) (*models.Team, error) {
	var team models.Team
	if err := p.Db.Where("leader_id = ? AND is_deleted = false", userID).First(&team).Error; err != nil {
		return nil, fmt.Errorf("team led by user %d: %w", userID, err)
	}
	return &team, nil
}

// Result reports the outcome of an eligibility evaluation.
type Result struct {
	Eligible bool     `json:"eligible"`
	Active   bool     `json:"active"`
	Reasons  []string `json:"reasons"`
}

// Gate performs the eligibility evaluation and the one-time transition.
type Gate struct {
	db    *gorm.DB
	teams TeamProvider
	log   *logrus.Logger
}

func NewGate(db *gorm.DB) *Gate {
	return &Gate{db: db, teams: DBTeamProvider{Db: db}, log: logrus.StandardLogger()}
}

// NewGateWithTeams wires an alternative team source.
func NewGateWithTeams(db *gorm.DB, teams TeamProvider) *Gate {
	return &Gate{db: db, teams: teams, log: logrus.StandardLogger()}
}

// Evaluate checks every condition and returns all blocking reasons at once
// rather than short-circuiting on the first failure. An empty reason list
// activates the user (and their team, if they lead one) exactly once.
// Re-invoking on an already-active user is a no-op success.
func (g *Gate) Evaluate(userID uint) (*Result, error) {
	var user models.User
	if err := g.db.Where("id = ? AND is_deleted = false", userID).First(&user).Error; err != nil {
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}

	if user.Status == models.UserStatusActive {
		return &Result{Eligible: true, Active: true}, nil
	}

	cfg := config.AppConfig
	var reasons []string

	if user.RegistrationFeePaid < cfg.RequiredRegistrationFee {
		reasons = append(reasons, fmt.Sprintf(
			"registration fee of at least %.0f must be paid", cfg.RequiredRegistrationFee))
	}

	var kyc models.UserKYC
	kycVerified := g.db.Where("user_id = ? AND is_verified = true AND is_deleted = false", userID).
		First(&kyc).Error == nil
	if !kycVerified {
		reasons = append(reasons, "kyc verification is not complete")
	}

	var team *models.Team
	if user.LeadsTeam {
		var err error
		team, err = g.teams.TeamLedBy(userID)
		if err != nil {
			return nil, err
		}
		if team.MemberCount < cfg.RequiredTeamSize {
			reasons = append(reasons, fmt.Sprintf(
				"team must have at least %d members", cfg.RequiredTeamSize))
		}
	}

	if len(reasons) > 0 {
		return &Result{Eligible: false, Reasons: reasons}, nil
	}

	// All conditions met: apply the one-way transition. The guarded update
	// keeps a concurrent second evaluation from re-applying it.
	res := g.db.Model(&models.User{}).
		Where("id = ? AND status = ?", userID, models.UserStatusInactive).
		Updates(map[string]interface{}{
			"status":                models.UserStatusActive,
			"registration_approved": true,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("activate user %d: %w", userID, res.Error)
	}

	if res.RowsAffected > 0 && team != nil {
		if err := g.db.Model(&models.Team{}).Where("id = ?", team.ID).
			Update("status", models.TeamStatusActive).Error; err != nil {
			return nil, fmt.Errorf("activate team %d: %w", team.ID, err)
		}
	}

	if res.RowsAffected > 0 {
		g.log.WithField("userId", userID).Info("user activated")
	}

	return &Result{Eligible: true, Active: true}, nil
}
