// Package inputval validates form input structs using struct tags.
//
//	type submitInput struct {
//	    Name     string `validate:"required,max=200" label:"Resource name"`
//	    Website  string `validate:"omitempty,httpurl" label:"Website"`
//	}
//
//	if res := inputval.Validate(in); res.HasErrors() {
//	    // show res.First() inline
//	}
//
// Besides the stock go-playground rules, the following tags are registered:
// emailaddr, httpurl, imageref, objectid, category, pendingcategory.
package inputval

import (
	"errors"
	"fmt"
	"net/mail"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/dalemusser/compass/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldError is one failed rule on one field.
type FieldError struct {
	Field   string
	Message string
}

// Result holds every failed rule, in struct field order.
type Result struct {
	Errors []FieldError
}

func (r *Result) HasErrors() bool { return r != nil && len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if !r.HasErrors() {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	if !r.HasErrors() {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

var (
	once sync.Once
	v    *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			return f.Name
		})
		must(v.RegisterValidation("emailaddr", func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		}))
		must(v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
			return IsValidHTTPURL(fl.Field().String())
		}))
		must(v.RegisterValidation("imageref", func(fl validator.FieldLevel) bool {
			return IsValidImageRef(fl.Field().String())
		}))
		must(v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return IsValidObjectID(fl.Field().String())
		}))
		must(v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return models.Category(fl.Field().String()).Valid()
		}))
		must(v.RegisterValidation("pendingcategory", func(fl validator.FieldLevel) bool {
			return models.PendingCategory(fl.Field().String()).Valid()
		}))
	})
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Validate checks s (a struct or pointer to struct) against its validate tags.
// It never returns nil.
func Validate(s any) *Result {
	res := &Result{}
	err := engine().Struct(s)
	if err == nil {
		return res
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.Errors = append(res.Errors, FieldError{Message: err.Error()})
		return res
	}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{Field: fe.StructField(), Message: message(fe)})
	}
	return res
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "emailaddr", "email":
		return "A valid email address is required."
	case "httpurl":
		return label + " must be a valid http(s) URL."
	case "imageref":
		return label + " must be an http(s) URL or an inline image."
	case "objectid":
		return label + " is not a valid ID."
	case "category", "pendingcategory", "oneof":
		return "Please choose a " + strings.ToLower(label) + " from the list."
	case "eqfield":
		return label + " does not match."
	}
	return label + " is invalid."
}

// IsValidEmail accepts a bare address (no display name) that parses per RFC 5322.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && addr.Name == ""
}

// IsValidHTTPURL reports whether s is an absolute http or https URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && urlutil.IsValidAbsHTTPURL(s)
}

// dataImage matches a base64 inline image in one of the raster formats
// browsers display. SVG is excluded because it can carry script.
var dataImage = regexp.MustCompile(`(?i)^data:image/(png|jpeg|jpg|gif|webp);base64,[a-z0-9+/]+={0,2}$`)

// IsValidImageRef accepts an http(s) URL or an inline base64 PNG, JPEG, GIF or
// WebP payload.
func IsValidImageRef(s string) bool {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(s), "data:") {
		return dataImage.MatchString(s)
	}
	return IsValidHTTPURL(s)
}

// IsValidObjectID reports whether s is a 24-character hex ObjectID.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}
