package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/stemsi/progresspoint/internal/model"
)

// TagAttendanceStatus validates a model.AttendanceStatus field.
const TagAttendanceStatus = "attendance_status"

var trans ut.Translator

// Setup registers the custom rules and English translations on Gin's binding
// engine. Call once during application startup.
func Setup() error {
	v, ok := binding.Validator.Engine().(*govalidator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return register(v)
}

func register(v *govalidator.Validate) error {
	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation(TagAttendanceStatus, validAttendanceStatus); err != nil {
		return err
	}

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return err
	}

	return v.RegisterTranslation(TagAttendanceStatus, trans,
		func(ut ut.Translator) error {
			return ut.Add(TagAttendanceStatus, "{0} must be either present or absent", true)
		},
		func(ut ut.Translator, fe govalidator.FieldError) string {
			msg, _ := ut.T(TagAttendanceStatus, fe.Field())
			return msg
		},
	)
}

var standalone = sync.OnceValues(func() (*govalidator.Validate, error) {
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	if err := v.RegisterValidation(TagAttendanceStatus, validAttendanceStatus); err != nil {
		return nil, err
	}
	return v, nil
})

// Date checks a YYYY-MM-DD date taken from outside a request body, such as
// a path parameter or a console argument.
func Date(date string) error {
	return checkVar(date, "required,datetime=2006-01-02")
}

// Status checks an attendance status taken from outside a request body.
func Status(status string) error {
	return checkVar(status, "required,"+TagAttendanceStatus)
}

func checkVar(value string, tag string) error {
	v, err := standalone()
	if err != nil {
		return err
	}
	return v.Var(value, tag)
}

func validAttendanceStatus(fl govalidator.FieldLevel) bool {
	return model.AttendanceStatus(fl.Field().String()).Valid()
}

// TranslateErrors maps a binding error to field name -> message. Errors
// that are not validation errors (malformed JSON) land under "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fieldPath(fe)] = fe.Translate(trans)
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

// fieldPath drops the root struct name so nested entries read
// "entries[0].status".
func fieldPath(fe govalidator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
