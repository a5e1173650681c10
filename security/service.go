// Package security provides the cryptographic and account-protection
// surface used by the ledger and activation layers.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"propfund/config"
	"propfund/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrAccountLocked is returned when an operation hits a locked account.
// Unlocking requires an administrator.
var ErrAccountLocked = errors.New("account is locked")

// Service bundles the security operations that need persistence access.
type Service struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, log: logrus.StandardLogger()}
}

// gcmCipher derives a 256-bit key from the configured secret.
func gcmCipher() (cipher.AEAD, error) {
	key := sha256.Sum256([]byte(config.AppConfig.EncryptionKey))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// EncryptValue serializes any JSON-encodable value and encrypts it with
// AES-256-GCM. The result is base64 with the nonce prepended.
func EncryptValue(v interface{}) (string, error) {
	plain, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode value: %w", err)
	}

	gcm, err := gcmCipher()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, plain, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptValue reverses EncryptValue into out.
func DecryptValue(encoded string, out interface{}) error {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("decode ciphertext: %w", err)
	}

	gcm, err := gcmCipher()
	if err != nil {
		return err
	}
	if len(sealed) < gcm.NonceSize() {
		return errors.New("ciphertext too short")
	}

	nonce, body := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, body, nil)
	if err != nil {
		return fmt.Errorf("decrypt value: %w", err)
	}
	return json.Unmarshal(plain, out)
}

// HashPassword produces a one-way bcrypt hash.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), config.AppConfig.SaltRound)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether password matches the stored hash.
func VerifyPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

// GenerateToken returns a random hex token of the requested byte length.
func GenerateToken(n int) (string, error) {
	if n <= 0 {
		n = 32
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// GenerateAPIKey returns a prefixed API key, e.g. "pf_live_<uuid>".
func GenerateAPIKey(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// GenerateReference builds a reference number with a caller-supplied
// prefix, e.g. "DEP-20260831-4F9A2C".
func GenerateReference(prefix string) string {
	short := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102"), short)
}

// LockAccount locks a user with a persisted reason and records the event.
func (s *Service) LockAccount(userID uint, reason string) error {
	res := s.db.Model(&models.User{}).
		Where("id = ? AND is_deleted = false", userID).
		Updates(map[string]interface{}{
			"is_locked":     true,
			"locked_reason": reason,
		})
	if res.Error != nil {
		return fmt.Errorf("lock user %d: %w", userID, res.Error)
	}

	event := models.SecurityEvent{
		EventType:  models.EventAccountLocked,
		UserID:     userID,
		OccurredAt: time.Now(),
	}
	s.db.Create(&event)

	s.log.WithFields(logrus.Fields{"userId": userID, "reason": reason}).Warn("account locked")
	return nil
}

// UnlockAccount clears the lock. Admin-only at the calling layer.
func (s *Service) UnlockAccount(userID uint) error {
	res := s.db.Model(&models.User{}).
		Where("id = ? AND is_deleted = false", userID).
		Updates(map[string]interface{}{
			"is_locked":             false,
			"locked_reason":         "",
			"locked_until":          nil,
			"failed_login_attempts": 0,
		})
	if res.Error != nil {
		return fmt.Errorf("unlock user %d: %w", userID, res.Error)
	}
	return nil
}

// SuspiciousActivity describes what the detector found for one subject.
type SuspiciousActivity struct {
	Flagged  bool
	Reason   string
	Count    int64
	AutoLock bool
}

// DetectSuspiciousActivity inspects the security-event trail for one user
// within a trailing window. At or above the configured event threshold the
// subject is flagged as high frequency; at or above the failed-login
// threshold the account is locked automatically.
func (s *Service) DetectSuspiciousActivity(userID uint, eventType models.SecurityEventType, window time.Duration) (*SuspiciousActivity, error) {
	since := time.Now().Add(-window)

	var count int64
	err := s.db.Model(&models.SecurityEvent{}).
		Where("user_id = ? AND event_type = ? AND occurred_at >= ?", userID, eventType, since).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("count events for user %d: %w", userID, err)
	}

	activity := &SuspiciousActivity{Count: count}

	if eventType == models.EventLoginFailed && count >= int64(config.AppConfig.FailedLoginLockThreshold) {
		activity.Flagged = true
		activity.AutoLock = true
		activity.Reason = "repeated failed logins"
		if err := s.LockAccount(userID, activity.Reason); err != nil {
			return nil, err
		}
		return activity, nil
	}

	if count >= int64(config.AppConfig.SuspiciousEventThreshold) {
		activity.Flagged = true
		activity.Reason = "high frequency"
	}
	return activity, nil
}

// RecordFailedLogin appends a failed-login event and runs the detector over
// the last 15 minutes.
func (s *Service) RecordFailedLogin(userID uint, ip, userAgent string) (*SuspiciousActivity, error) {
	event := models.SecurityEvent{
		EventType:  models.EventLoginFailed,
		IPAddress:  ip,
		UserAgent:  userAgent,
		Path:       "/auth/login",
		Method:     "POST",
		UserID:     userID,
		OccurredAt: time.Now(),
	}
	if err := s.db.Create(&event).Error; err != nil {
		return nil, fmt.Errorf("record failed login: %w", err)
	}
	return s.DetectSuspiciousActivity(userID, models.EventLoginFailed, 15*time.Minute)
}
