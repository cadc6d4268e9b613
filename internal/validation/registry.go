// Package validation checks request payloads against a fixed set of schemas
// and reports every violation at once.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/hottakes/hottakes-api/internal/apperr"
)

// ErrSchemaNotFound is returned for a SchemaID the registry does not know.
// It is a programming error, not a client one.
var ErrSchemaNotFound = errors.New("schema not found")

// Registry decodes and validates payloads by schema.
type Registry struct {
	validate *validator.Validate
	schemas  map[SchemaID]func() any
	policy   PasswordPolicy
}

// NewRegistry builds the registry and verifies that every SchemaID has a
// schema.
func NewRegistry(policy PasswordPolicy) (*Registry, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	if err := v.RegisterValidation("strongpassword", policy.validatorFunc()); err != nil {
		return nil, fmt.Errorf("register strongpassword: %w", err)
	}
	if err := v.RegisterValidation("objectid", objectIDFunc); err != nil {
		return nil, fmt.Errorf("register objectid: %w", err)
	}
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, fmt.Errorf("register notblank: %w", err)
	}
	if err := v.RegisterValidation("maxbytes", maxBytesFunc); err != nil {
		return nil, fmt.Errorf("register maxbytes: %w", err)
	}

	r := &Registry{validate: v, schemas: defaultSchemas(), policy: policy}
	for _, id := range SchemaIDs {
		if _, ok := r.schemas[id]; !ok {
			return nil, fmt.Errorf("schema %q: %w", id, ErrSchemaNotFound)
		}
	}
	return r, nil
}

// MustRegistry is NewRegistry that panics on error.
func MustRegistry(policy PasswordPolicy) *Registry {
	r, err := NewRegistry(policy)
	if err != nil {
		panic(err)
	}
	return r
}

// Validate decodes raw JSON into a fresh value of the schema and validates it.
// Properties the schema does not declare are dropped. On failure it returns
// an apperr validation error listing every offending field.
func (r *Registry) Validate(id SchemaID, raw []byte) (any, error) {
	newValue, ok := r.schemas[id]
	if !ok {
		return nil, ErrSchemaNotFound
	}
	target := newValue()

	var fields []apperr.FieldError
	typeErrPaths := map[string]bool{}
	if err := json.Unmarshal(raw, target); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, apperr.Validation(apperr.FieldError{
				Location: "body",
				Path:     "",
				Message:  "must be a well-formed JSON object",
			})
		}
		// the decoder keeps going past type mismatches but only reports the
		// first one, so each declared property is checked on its own
		mismatches := typeMismatches(raw, target)
		if len(mismatches) == 0 {
			mismatches = []apperr.FieldError{{
				Path:    pointer(typeErr.Field),
				Message: "must be of type " + jsonType(typeErr.Type),
			}}
		}
		for _, fe := range mismatches {
			fe.Location = "body"
			typeErrPaths[fe.Path] = true
			fields = append(fields, fe)
		}
	}

	if err := r.validate.Struct(target); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, fmt.Errorf("validate %s: %w", id, err)
		}
		for _, fe := range verrs {
			path := pointer(trimRoot(fe.Namespace()))
			if typeErrPaths[path] {
				continue
			}
			fields = append(fields, apperr.FieldError{
				Location: "body",
				Path:     path,
				Message:  r.message(fe),
			})
		}
	}

	if len(fields) > 0 {
		return nil, apperr.Validation(fields...)
	}
	return target, nil
}

// Decode is Validate with a typed result.
func Decode[T any](r *Registry, id SchemaID, raw []byte) (*T, error) {
	v, err := r.Validate(id, raw)
	if err != nil {
		return nil, err
	}
	out, ok := v.(*T)
	if !ok {
		return nil, fmt.Errorf("schema %q decodes to %T, not %T", id, v, out)
	}
	return out, nil
}

func (r *Registry) message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "strongpassword":
		return r.policy.describe()
	case "objectid":
		return "must be a 24 character hex identifier"
	case "notblank":
		return "must not be blank"
	case "maxbytes":
		return fmt.Sprintf("must be at most %s bytes long", fe.Param())
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}

// typeMismatches decodes every top-level property of raw into the type of the
// matching field of target and lists those that do not fit.
func typeMismatches(raw []byte, target any) []apperr.FieldError {
	var props map[string]json.RawMessage
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil
	}
	t := reflect.TypeOf(target)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var out []apperr.FieldError
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := jsonName(f)
		value, ok := props[name]
		if !ok || name == "" || !f.IsExported() {
			continue
		}
		err := json.Unmarshal(value, reflect.New(f.Type).Interface())
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			out = append(out, apperr.FieldError{
				Path:    pointer(name),
				Message: "must be of type " + jsonType(f.Type),
			})
		}
	}
	return out
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// trimRoot drops the struct type name from a validator namespace.
func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func pointer(dotted string) string {
	if dotted == "" {
		return ""
	}
	return "/" + strings.ReplaceAll(dotted, ".", "/")
}

func jsonType(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	}
	return "object"
}
