package course

import (
	"github.com/go-playground/validator/v10"

	"github.com/darasahq/darasa/core"
)

var (
	moduleKeyTag  = "modulekey"
	moduleKeyText = "invalid module key"

	videoStatusTag  = "videostatus"
	videoStatusText = "invalid video status"
)

func init() {
	_ = core.Validate.RegisterValidation(moduleKeyTag, inListValidation(AllModuleKeys))
	core.RegisterCustomTranslation(moduleKeyTag, moduleKeyText)

	_ = core.Validate.RegisterValidation(videoStatusTag, inListValidation(AllVideoStatuses))
	core.RegisterCustomTranslation(videoStatusTag, videoStatusText)
}

func inListValidation(list []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		for _, item := range list {
			if val == item {
				return true
			}
		}
		return false
	}
}
