package common

import (
	"errors"
	"fmt"
)

type ErrNo struct {
	ErrCode int    `json:"err_code"`
	ErrMsg  string `json:"err_msg"`
}

const (
	SuccessCode = 0
	ServiceErr  = iota + 10000
	RequestInvalid
	TokenInvalid
	PasswordErr
	UserNotExists
	UserExists
	DefinitionInvalid
	GraphInvalid
	WorkflowNotExists
	WorkflowDisabled
	CredentialNotExists
	RunNotExists
	EnqueueFail
	ScheduleInvalid
	GetHistoryFail
	WebhookInvalid
)

var errorMsg = map[int]string{
	SuccessCode:         "success",
	ServiceErr:          "service error",
	RequestInvalid:      "request invalid",
	TokenInvalid:        "token invalid",
	PasswordErr:         "password error",
	UserNotExists:       "user not exists",
	UserExists:          "user already exists",
	DefinitionInvalid:   "workflow definition invalid",
	GraphInvalid:        "workflow graph invalid",
	WorkflowNotExists:   "workflow not exists",
	WorkflowDisabled:    "workflow disabled",
	CredentialNotExists: "credential not exists",
	RunNotExists:        "run not exists",
	EnqueueFail:         "enqueue execution fail",
	ScheduleInvalid:     "schedule invalid",
	GetHistoryFail:      "get history fail",
	WebhookInvalid:      "webhook invalid",
}

func (e ErrNo) Error() string {
	return fmt.Sprintf("err_code=%d, err_msg=%s", e.ErrCode, e.ErrMsg)
}

func NewErrNo(errCode int) error {
	return ErrNo{
		ErrCode: errCode,
		ErrMsg:  errorMsg[errCode],
	}
}

func ConvertErr(err error) ErrNo {
	e := ErrNo{}
	if errors.As(err, &e) {
		return e
	}
	e = ErrNo{
		ErrCode: ServiceErr,
		ErrMsg:  err.Error(),
	}
	return e
}
