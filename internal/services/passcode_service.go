package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/pitchlog/internal/models"
	"github.com/terraincognita07/pitchlog/internal/security"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasscodeNotSet   = errors.New("passcode not set")
	ErrPasscodeMismatch = errors.New("passcode mismatch")
)

const temporaryPasscodeLength = 12

type SettingRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key string, value string) error
}

// PasscodeService guards the single-user journal with one bcrypt hash kept in
// the settings table.
type PasscodeService struct {
	settings SettingRepository
	cost     int
}

func NewPasscodeService(settings SettingRepository) *PasscodeService {
	return &PasscodeService{settings: settings, cost: bcrypt.DefaultCost}
}

func (service *PasscodeService) IsConfigured(ctx context.Context) (bool, error) {
	hash, found, err := service.settings.Get(ctx, models.SettingPasscodeHash)
	if err != nil {
		return false, storageError("load passcode", err)
	}
	return found && strings.TrimSpace(hash) != "", nil
}

func (service *PasscodeService) Set(ctx context.Context, passcode string) error {
	if err := ValidatePasscodeStrength(passcode); err != nil {
		return err
	}
	return service.store(ctx, passcode)
}

func (service *PasscodeService) Verify(ctx context.Context, passcode string) error {
	hash, found, err := service.settings.Get(ctx, models.SettingPasscodeHash)
	if err != nil {
		return storageError("load passcode", err)
	}
	hash = strings.TrimSpace(hash)
	if !found || hash == "" {
		return ErrPasscodeNotSet
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(passcode)) != nil {
		return ErrPasscodeMismatch
	}
	return nil
}

// Fingerprint identifies the current passcode hash without exposing it.
// Sessions carry it so that changing the passcode ends them.
func (service *PasscodeService) Fingerprint(ctx context.Context) (string, error) {
	hash, found, err := service.settings.Get(ctx, models.SettingPasscodeHash)
	if err != nil {
		return "", storageError("load passcode", err)
	}
	hash = strings.TrimSpace(hash)
	if !found || hash == "" {
		return "", ErrPasscodeNotSet
	}
	sum := sha256.Sum256([]byte(hash))
	return hex.EncodeToString(sum[:8]), nil
}

// Reset replaces the passcode with a random temporary one and returns it.
func (service *PasscodeService) Reset(ctx context.Context) (string, error) {
	temporary, err := security.TemporaryPasscode(temporaryPasscodeLength)
	if err != nil {
		return "", fmt.Errorf("generate temporary passcode: %w", err)
	}
	if err := service.store(ctx, temporary); err != nil {
		return "", err
	}
	return temporary, nil
}

func (service *PasscodeService) store(ctx context.Context, passcode string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), service.cost)
	if err != nil {
		return fmt.Errorf("hash passcode: %w", err)
	}
	if err := service.settings.Put(ctx, models.SettingPasscodeHash, string(hash)); err != nil {
		return storageError("save passcode", err)
	}
	return nil
}
