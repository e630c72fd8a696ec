package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"circle_pipeline/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ResponseData 本地接口统一响应
// 业务结果一律走 HTTP 200，由 Code 区分；鉴权失败由中间件直接返回 401
type ResponseData struct {
	Code int `json:"code"`
	Msg  any `json:"msg"`
	Data any `json:"data,omitempty"`
}

func writeEnvelope(c *gin.Context, code int, msg any, data any) {
	c.JSON(http.StatusOK, ResponseData{Code: code, Msg: msg, Data: data})
}

// HandleSuccess 返回成功响应
func HandleSuccess(c *gin.Context, data any) {
	writeEnvelope(c, errorx.CodeSuccess, "success", data)
}

// HandleError 业务错误原样返回错误码，其余错误记录后按服务繁忙处理
//
//	if err := h.relationSvc.CacheProfile(u); err != nil {
//	    HandleError(c, err)
//	    return
//	}
func HandleError(c *gin.Context, err error) {
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) {
		if codeErr.Code == errorx.CodeCacheError || codeErr.Code == errorx.CodeNotifyError {
			zap.L().Warn("request failed", zap.String("path", c.FullPath()), zap.Int("code", codeErr.Code), zap.Error(err))
		}
		writeEnvelope(c, codeErr.Code, codeErr.Msg, nil)
		return
	}

	zap.L().Error("system error",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	writeEnvelope(c, errorx.ErrServerBusy.Code, errorx.ErrServerBusy.Msg, nil)
}

// HandleParamError 处理绑定失败
// 校验错误按字段翻译，请求体格式错误给出简短说明
func HandleParamError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && Trans != nil {
		writeEnvelope(c, errorx.CodeInvalidParam, trimStructPrefix(validationErrs.Translate(Trans)), nil)
		return
	}

	msg := errorx.ErrInvalidParam.Msg
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		msg = "请求体不是合法的 JSON"
	case errors.As(err, &typeErr):
		msg = "字段 " + typeErr.Field + " 类型错误"
	}
	zap.L().Debug("param bind error", zap.String("path", c.FullPath()), zap.Error(err))
	writeEnvelope(c, errorx.CodeInvalidParam, msg, nil)
}
