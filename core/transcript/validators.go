package transcript

import (
	"github.com/go-playground/validator/v10"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
)

var (
	resultStatusTag  = "resultstatus"
	resultStatusText = "must be PASS or FAIL"
)

// InitValidators registers the transcript validations on v.
func InitValidators(v *core.Validator) {
	_ = v.Validate.RegisterValidation(resultStatusTag, resultStatusValidation)
	v.RegisterCustomTranslation(resultStatusTag, resultStatusText)
}

// resultStatusValidation only accepts the statuses a transcript can be published with.
func resultStatusValidation(fl validator.FieldLevel) bool {
	switch ResultStatus(fl.Field().String()) {
	case StatusPass, StatusFail:
		return true
	}
	return false
}
