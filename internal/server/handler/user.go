package handler

import (
	"flowline/internal/common"
	"flowline/internal/server/dao"
	"flowline/internal/server/middleware"
	"flowline/internal/server/model"
	"flowline/pkg/api"

	"github.com/gin-gonic/gin"
)

func UserRegister(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, common.NewErrNo(common.RequestInvalid))
		return
	}

	user := &model.User{
		Username: req.Username,
		Password: common.HashPassword(req.Password),
	}
	if err := dao.NewUserDAO().Create(c, user); err != nil {
		common.Error(c, err)
		return
	}
	common.Success(c, nil)
}

func UserLogin(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, common.NewErrNo(common.RequestInvalid))
		return
	}

	user, err := dao.NewUserDAO().GetByUsername(c, req.Username)
	if err != nil {
		common.Error(c, err)
		return
	}
	if user.Password != common.HashPassword(req.Password) {
		common.Error(c, common.NewErrNo(common.PasswordErr))
		return
	}

	token, err := middleware.GenerateJWT(user.ID)
	if err != nil {
		common.Error(c, err)
		return
	}
	c.Header("Authorization", "Bearer "+token)
	common.Success(c, api.LoginResponse{Token: token})
}
