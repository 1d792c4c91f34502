package emsbuild

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// BuildOptions are the resolved flags of a single build invocation.
type BuildOptions struct {
	Platform           string
	App                string   `validate:"required,ident"`
	Logging            bool
	DebugOutput        bool
	Speed              string   `validate:"required,speed"`
	PerformanceLogging bool
	// UploadOptions is passed to the upload rules. Nil means no upload.
	UploadOptions *string
	// ExtraDefs are written verbatim into the generated Makefile.
	ExtraDefs []string `validate:"dive,singleline"`
	// Verbose sends the output of external tools to the terminal
	// instead of the build log.
	Verbose bool
}

// Upload reports whether the build is uploaded after building.
func (o BuildOptions) Upload() bool {
	return o.UploadOptions != nil
}

// TraceInputs are the input files of the trace generator.
type TraceInputs struct {
	CarData string `validate:"required,file"`
	Cycle   string `validate:"required,file"`
}

var identPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func newValidator(reg *Registry) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("speed", func(fl validator.FieldLevel) bool {
		return reg != nil && reg.ValidSpeed(fl.Field().String())
	})
	v.RegisterValidation("ident", func(fl validator.FieldLevel) bool {
		return identPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("singleline", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "\r\n")
	})
	return v
}

// Validate checks opts against reg. It never touches the filesystem.
func Validate(reg *Registry, opts BuildOptions) error {
	if _, err := reg.Lookup(opts.Platform); err != nil {
		return err
	}
	return validationError(newValidator(reg).Struct(opts), reg)
}

// ValidateInputs checks the trace generator input files exist.
func ValidateInputs(inputs TraceInputs) error {
	return validationError(newValidator(nil).Struct(inputs), nil)
}

var fieldDescriptions = map[string]string{
	"CarData": "car data file",
	"Cycle":   "driving cycle file",
}

func validationError(err error, reg *Registry) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	field := fe.Field()
	if desc, ok := fieldDescriptions[field]; ok {
		field = desc
	}
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: field, Reason: "missing value"}
	case "file":
		return &ValidationError{Reason: fmt.Sprintf("%s does not exist: %v", field, fe.Value())}
	case "speed":
		return &ValidationError{Field: field, Reason: fmt.Sprintf("invalid speed %q, choose from %s", fe.Value(), strings.Join(reg.Speeds(), ", "))}
	case "ident":
		return &ValidationError{Field: field, Reason: fmt.Sprintf("invalid name %q", fe.Value())}
	case "singleline":
		return &ValidationError{Field: field, Reason: fmt.Sprintf("definition %q spans multiple lines", fe.Value())}
	}
	return &ValidationError{Field: field, Reason: fmt.Sprintf("failed on %q", fe.Tag())}
}
