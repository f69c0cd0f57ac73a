package dao

import (
	"context"
	"errors"

	"flowline/internal/common"
	"flowline/internal/server/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserDAO interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

type userDAO struct {
}

func NewUserDAO() UserDAO {
	return &userDAO{}
}

func (d *userDAO) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.NewErrNo(common.UserExists)
		}
		return err
	}
	return nil
}

func (d *userDAO) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := db.WithContext(ctx).Where("id = ?", id).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewErrNo(common.UserNotExists)
		}
		return nil, err
	}
	return &user, nil
}

func (d *userDAO) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := db.WithContext(ctx).Where("username = ?", username).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewErrNo(common.UserNotExists)
		}
		return nil, err
	}
	return &user, nil
}
