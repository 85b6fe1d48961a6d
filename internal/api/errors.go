package api

import (
	"digital_wallet/internal/domain" // Importing domain models
	"encoding/json"                  // JSON decoding errors
	"errors"                         // Error inspection
	"net/http"                       // HTTP status codes
	"reflect"                        // Struct tag lookup
	"strings"                        // String manipulation
	"sync"                           // One-time validator setup

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/gin-gonic/gin/binding"       // Gin validator engine
	"github.com/go-playground/validator/v10" // Validation errors
	"github.com/sirupsen/logrus"             // Logging library
)

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report json field names
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindingErrors converts a ShouldBindJSON failure into field errors
func bindingErrors(err error) *domain.ValidationError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := &domain.ValidationError{}
		for _, fe := range verrs {
			out.Fields = append(out.Fields, domain.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		return out
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return domain.NewFieldError(typeErr.Field, "must be a "+typeErr.Type.String())
	}
	return domain.NewFieldError("body", "must be a valid JSON object")
}

// fieldMessage renders one validator failure
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "alphanum":
		return "must contain only letters and digits"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}

// respondError maps domain errors to HTTP responses
func respondError(c *gin.Context, err error, logFields logrus.Fields) {
	var verr *domain.ValidationError
	var dup *domain.DuplicateError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, verr.Fields)
	case errors.As(err, &dup) && dup.Field != "":
		c.JSON(http.StatusBadRequest, gin.H{"message": strings.ToUpper(dup.Field[:1]) + dup.Field[1:] + " already exists"})
	case errors.Is(err, domain.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Already exists"})
	case errors.Is(err, domain.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Insufficient funds"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.Status(http.StatusUnauthorized)
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	default:
		// Log the error with context
		logrus.WithFields(logFields).WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}
