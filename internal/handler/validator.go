package handler

import (
	"fmt"
	"reflect"
	"strings"

	"circle_pipeline/internal/gateway/pipeline"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// Trans 参数错误翻译器，InitTrans 之后可用
var Trans ut.Translator

// tagAuthCookie 推送凭据格式校验，用于 SetCredentialsRequest.AuthCookie
const tagAuthCookie = "authcookie"

var authCookieMessages = map[string]string{
	"zh": "{0}必须是形如 auth=<值> 的 Cookie",
	"en": "{0} must be a cookie of the form auth=<value>",
}

// InitTrans 在 gin 的校验引擎上注册字段命名、自定义标签与对应语言的翻译
// locale 取 "zh" 或 "en"，其他值按英文处理
func InitTrans(locale string) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	v.RegisterTagNameFunc(requestFieldName)
	if err := v.RegisterValidation(tagAuthCookie, validAuthCookie); err != nil {
		return fmt.Errorf("register %s: %w", tagAuthCookie, err)
	}

	enT := en.New()
	uni := ut.New(enT, enT, zh.New())
	trans, found := uni.GetTranslator(locale)
	if !found {
		locale = "en"
		trans, _ = uni.GetTranslator(locale)
	}

	var err error
	if locale == "zh" {
		err = zh_translations.RegisterDefaultTranslations(v, trans)
	} else {
		err = en_translations.RegisterDefaultTranslations(v, trans)
	}
	if err != nil {
		return fmt.Errorf("register %s translations: %w", locale, err)
	}

	msg := authCookieMessages[locale]
	err = v.RegisterTranslation(tagAuthCookie, trans,
		func(t ut.Translator) error { return t.Add(tagAuthCookie, msg, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tagAuthCookie, fe.Field())
			return s
		})
	if err != nil {
		return fmt.Errorf("register %s translation: %w", tagAuthCookie, err)
	}

	Trans = trans
	return nil
}

// requestFieldName 错误信息里使用请求中的字段名
// JSON 请求体取 json tag，查询参数取 form tag
func requestFieldName(fld reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func validAuthCookie(fl validator.FieldLevel) bool {
	return pipeline.ValidateAuthCookie(fl.Field().String()) == nil
}

// trimStructPrefix 去掉翻译结果键上的请求结构体名
// "SetCredentialsRequest.authCookie" -> "authCookie"
func trimStructPrefix(fields map[string]string) map[string]string {
	res := make(map[string]string, len(fields))
	for field, msg := range fields {
		res[field[strings.Index(field, ".")+1:]] = msg
	}
	return res
}
