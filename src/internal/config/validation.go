package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/maksimkurb/urlresolver/src/internal/render"
	"github.com/maksimkurb/urlresolver/src/internal/resolver/upstreams"
)

var (
	filterNameRegexp = regexp.MustCompile(`^[^\s{}"';#]+$`)
	chainNameRegexp  = regexp.MustCompile(`^[A-Za-z0-9_-]{1,28}$`)
)

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "gte":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "dialect":
		return fmt.Sprintf("must be one of: %s", strings.Join(render.DialectNames(), ", "))
	case "filter_name":
		return "must not be empty or contain whitespace, braces, quotes, ';' or '#'"
	case "dns_server":
		return "must be a valid DNS server (ip[:port], udp://ip[:port], tcp://ip[:port], doh://host/path or https://host/path)"
	case "duration":
		return "must be a non-negative duration like 500ms or 5s"
	case "chain_name":
		return "must be 1-28 characters of [A-Za-z0-9_-]"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// ValidationError represents a single validation error with context
type ValidationError struct {
	FieldPath string // Dot-notation field path (e.g., "output.filter_name", "dns.server")
	Message   string // Human-readable error message
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed with %d error(s):\n", len(ve)))
	for i, err := range ve {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.FieldPath, err.Message))
	}
	return sb.String()
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validators
	if err := validate.RegisterValidation("dialect", validateDialect); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("filter_name", validateFilterName); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("dns_server", validateDNSServer); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("duration", validateDuration); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("chain_name", validateChainName); err != nil {
		panic(err)
	}

	// Register function to get field name from "toml" tag
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validator: known output dialect
func validateDialect(fl validator.FieldLevel) bool {
	_, err := render.ParseDialect(fl.Field().String())
	return err == nil
}

// Custom validator: prefix-list name usable in every dialect
func validateFilterName(fl validator.FieldLevel) bool {
	return filterNameRegexp.MatchString(fl.Field().String())
}

// Custom validator: DNS server override or empty
func validateDNSServer(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	u, err := upstreams.ParseUpstream(value)
	if err != nil {
		return false
	}
	_ = u.Close()
	return true
}

// Custom validator: non-negative Go duration
func validateDuration(fl validator.FieldLevel) bool {
	d, err := time.ParseDuration(fl.Field().String())
	return err == nil && d >= 0
}

// Custom validator: iptables chain name
func validateChainName(fl validator.FieldLevel) bool {
	return chainNameRegexp.MatchString(fl.Field().String())
}
