package users

import (
	"context"
	"errors"

	goAuth "github.com/MrEthical07/goAuth"
)

// Provider adapts the users table to the auth engine's UserProvider
// interface, the same way the original wired its ORM into the hosted auth
// library. The engine owns hashing and session issuance; this adapter only
// moves account rows.
type Provider struct {
	repo Store
}

func NewProvider(repo Store) *Provider {
	return &Provider{repo: repo}
}

var _ goAuth.UserProvider = (*Provider)(nil)

func toEngineRecord(rec Record) goAuth.UserRecord {
	return goAuth.UserRecord{
		UserID:            rec.ID,
		Identifier:        rec.Email,
		PasswordHash:      rec.PasswordHash,
		Status:            goAuth.AccountStatus(rec.Status),
		Role:              rec.Role,
		PermissionVersion: rec.PermVersion,
		RoleVersion:       rec.RoleVersion,
		AccountVersion:    rec.AccountVersion,
	}
}

func (p *Provider) GetUserByIdentifier(identifier string) (goAuth.UserRecord, error) {
	rec, err := p.repo.GetByEmail(context.Background(), identifier)
	if err != nil {
		return goAuth.UserRecord{}, err
	}
	return toEngineRecord(rec), nil
}

func (p *Provider) GetUserByID(userID string) (goAuth.UserRecord, error) {
	rec, err := p.repo.GetByID(context.Background(), userID)
	if err != nil {
		return goAuth.UserRecord{}, err
	}
	return toEngineRecord(rec), nil
}

func (p *Provider) UpdatePasswordHash(userID string, newHash string) error {
	return p.repo.UpdatePasswordHash(context.Background(), userID, newHash)
}

func (p *Provider) CreateUser(ctx context.Context, input goAuth.CreateUserInput) (goAuth.UserRecord, error) {
	rec, err := p.repo.Create(ctx, CreateInput{
		Email:          input.Identifier,
		PasswordHash:   input.PasswordHash,
		Status:         int16(input.Status),
		Role:           input.Role,
		PermVersion:    input.PermissionVersion,
		RoleVersion:    input.RoleVersion,
		AccountVersion: input.AccountVersion,
	})
	if errors.Is(err, ErrEmailTaken) {
		return goAuth.UserRecord{}, goAuth.ErrAccountExists
	}
	if err != nil {
		return goAuth.UserRecord{}, err
	}
	return toEngineRecord(rec), nil
}

func (p *Provider) UpdateAccountStatus(ctx context.Context, userID string, status goAuth.AccountStatus) (goAuth.UserRecord, error) {
	rec, err := p.repo.UpdateStatus(ctx, userID, int16(status))
	if err != nil {
		return goAuth.UserRecord{}, err
	}
	return toEngineRecord(rec), nil
}

// TOTP and backup codes are not provisioned in this application; the engine
// treats "not configured" as MFA-disabled for every account.

func (p *Provider) GetTOTPSecret(context.Context, string) (*goAuth.TOTPRecord, error) {
	return nil, goAuth.ErrTOTPNotConfigured
}

func (p *Provider) EnableTOTP(context.Context, string, []byte) error {
	return goAuth.ErrTOTPFeatureDisabled
}

func (p *Provider) DisableTOTP(context.Context, string) error {
	return goAuth.ErrTOTPFeatureDisabled
}

func (p *Provider) MarkTOTPVerified(context.Context, string) error {
	return goAuth.ErrTOTPFeatureDisabled
}

func (p *Provider) UpdateTOTPLastUsedCounter(context.Context, string, int64) error {
	return goAuth.ErrTOTPFeatureDisabled
}

func (p *Provider) GetBackupCodes(context.Context, string) ([]goAuth.BackupCodeRecord, error) {
	return nil, nil
}

func (p *Provider) ReplaceBackupCodes(context.Context, string, []goAuth.BackupCodeRecord) error {
	return goAuth.ErrTOTPFeatureDisabled
}

func (p *Provider) ConsumeBackupCode(context.Context, string, [32]byte) (bool, error) {
	return false, nil
}
