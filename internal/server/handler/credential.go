package handler

import (
	"encoding/json"

	"flowline/internal/common"
	"flowline/internal/server/dao"
	"flowline/internal/server/middleware"
	"flowline/internal/server/model"
	"flowline/pkg/api"

	"github.com/gin-gonic/gin"
)

func UpsertCredential(c *gin.Context) {
	var req api.CredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, common.NewErrNo(common.RequestInvalid))
		return
	}

	raw, err := json.Marshal(req.Data)
	if err != nil {
		common.Error(c, common.NewErrNo(common.RequestInvalid))
		return
	}
	credential := &model.Credential{
		UserID:   middleware.UserID(c),
		Platform: req.Platform,
		Data:     string(raw),
	}
	if err := dao.NewCredentialDao().Upsert(c, credential); err != nil {
		common.Error(c, err)
		return
	}
	common.Success(c, nil)
}

// ListCredentials returns which platforms have credentials stored, never the
// credential data itself.
func ListCredentials(c *gin.Context) {
	credentials, err := dao.NewCredentialDao().ListByUser(c, middleware.UserID(c))
	if err != nil {
		common.Error(c, err)
		return
	}
	summaries := make([]api.CredentialSummary, 0, len(credentials))
	for _, credential := range credentials {
		summaries = append(summaries, api.CredentialSummary{
			Platform:  credential.Platform,
			UpdatedAt: credential.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	common.Success(c, summaries)
}

func DeleteCredential(c *gin.Context) {
	platform := c.Param("platform")
	if err := dao.NewCredentialDao().Delete(c, middleware.UserID(c), platform); err != nil {
		common.Error(c, err)
		return
	}
	common.Success(c, nil)
}
