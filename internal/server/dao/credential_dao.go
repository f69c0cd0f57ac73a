package dao

import (
	"context"
	"errors"

	"flowline/internal/common"
	"flowline/internal/server/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CredentialDao interface {
	Upsert(ctx context.Context, credential *model.Credential) error
	Find(ctx context.Context, userID, platform string) (*model.Credential, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Credential, error)
	Delete(ctx context.Context, userID, platform string) error
}

type credentialDAO struct {
}

func NewCredentialDao() CredentialDao {
	return &credentialDAO{}
}

func (d *credentialDAO) Upsert(ctx context.Context, credential *model.Credential) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Credential
		err := tx.Where("user_id = ? AND platform = ?", credential.UserID, credential.Platform).
			Take(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				credential.ID = uuid.NewString()
				return tx.Create(credential).Error
			}
			return err
		}
		existing.Data = credential.Data
		return tx.Save(&existing).Error
	})
}

func (d *credentialDAO) Find(ctx context.Context, userID, platform string) (*model.Credential, error) {
	var credential model.Credential
	err := db.WithContext(ctx).
		Where("user_id = ? AND platform = ?", userID, platform).
		Take(&credential).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewErrNo(common.CredentialNotExists)
		}
		return nil, err
	}
	return &credential, nil
}

func (d *credentialDAO) ListByUser(ctx context.Context, userID string) ([]*model.Credential, error) {
	var credentials []*model.Credential
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Find(&credentials).Error; err != nil {
		return nil, err
	}
	return credentials, nil
}

func (d *credentialDAO) Delete(ctx context.Context, userID, platform string) error {
	res := db.WithContext(ctx).
		Where("user_id = ? AND platform = ?", userID, platform).
		Delete(&model.Credential{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.NewErrNo(common.CredentialNotExists)
	}
	return nil
}
