// Package httpx holds the JSON envelope helpers shared by HTTP handlers and the
// single place where application errors become HTTP responses.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"go.uber.org/zap"

	"org-membership-service/internal/platform/apperr"
	"org-membership-service/internal/platform/validate"
)

// MaxBodyBytes bounds request bodies decoded by DecodeJSON.
const MaxBodyBytes = 1 << 20

const (
	statusSuccess    = "success"
	statusBadRequest = "Bad request"
	statusError      = "error"
)

// SuccessResponse is the envelope for successful responses.
type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the envelope for classified failures.
type ErrorResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// ValidationResponse lists every field-level failure.
type ValidationResponse struct {
	Errors []apperr.FieldError `json:"errors"`
}

// WriteJSON writes data as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes {status:"success", message, data}.
func WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	_ = WriteJSON(w, status, SuccessResponse{Status: statusSuccess, Message: message, Data: data})
}

// WriteError translates err into a response. Unclassified errors and KindInternal are
// logged with their cause and rendered as a generic 500.
func WriteError(w http.ResponseWriter, log *zap.Logger, err error) {
	ae, ok := apperr.As(err)
	if !ok || ae.Kind == apperr.KindInternal {
		if log != nil {
			log.Error("request failed", zap.Error(err))
		}
		_ = WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Status:     statusError,
			Message:    "Internal server error",
			StatusCode: http.StatusInternalServerError,
		})
		return
	}
	status := ae.Kind.Status()
	if ae.Kind == apperr.KindValidation {
		_ = WriteJSON(w, status, ValidationResponse{Errors: ae.Fields})
		return
	}
	_ = WriteJSON(w, status, ErrorResponse{Status: statusBadRequest, Message: ae.Message, StatusCode: status})
}

// DecodeJSON decodes the request body into dst. An empty body leaves dst zero-valued
// so validation can report each missing field. Malformed JSON, trailing data, and
// oversized bodies are reported against "body". When fields have the wrong JSON type,
// the remaining fields are still decoded and validated, and every failure is returned
// together as one KindValidation error; a mistyped field is not also reported as missing.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return bodyError(err)
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return bodyError(err)
	}

	err := json.Unmarshal(raw, dst)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return bodyError(err)
	}
	fields := fieldTypeErrors(raw, dst)
	if len(fields) == 0 {
		return apperr.Validation([]apperr.FieldError{{Field: "body", Message: typeMessage(typeErr)}})
	}
	return mergeFieldErrors(dst, fields, validate.Default().Struct(dst))
}

// bodyError classifies a failure to read the body as a single JSON value.
func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperr.Validation([]apperr.FieldError{{Field: "body", Message: "Request body too large"}})
	}
	return apperr.Validation([]apperr.FieldError{{Field: "body", Message: "Invalid JSON"}})
}

// fieldTypeErrors decodes each top-level member of raw into its own struct field and
// reports every type mismatch, keyed by JSON name. It returns nil when dst is not a
// pointer to a struct or raw is not an object.
func fieldTypeErrors(raw json.RawMessage, dst interface{}) []apperr.FieldError {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return nil
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil
	}

	var fields []apperr.FieldError
	t := rv.Elem().Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := jsonName(f)
		if !f.IsExported() || name == "" {
			continue
		}
		val, ok := member(members, name)
		if !ok {
			continue
		}
		err := json.Unmarshal(val, reflect.New(f.Type).Interface())
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			fields = append(fields, apperr.FieldError{Field: name, Message: typeMessage(typeErr)})
		}
	}
	return fields
}

// member finds name in members the way encoding/json matches keys: exact first, then case-insensitive.
func member(members map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	if v, ok := members[name]; ok {
		return v, true
	}
	for k, v := range members {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

// mergeFieldErrors combines type errors with the struct validation result, dropping
// validation entries for fields that already failed on type. Entries follow struct field order.
func mergeFieldErrors(dst interface{}, typeErrs []apperr.FieldError, validationErr error) error {
	seen := make(map[string]bool, len(typeErrs))
	out := append([]apperr.FieldError(nil), typeErrs...)
	for _, fe := range typeErrs {
		seen[fe.Field] = true
	}
	if ae, ok := apperr.As(validationErr); ok && ae.Kind == apperr.KindValidation {
		for _, fe := range ae.Fields {
			if !seen[fe.Field] {
				out = append(out, fe)
			}
		}
	}

	order := map[string]int{}
	t := reflect.TypeOf(dst).Elem()
	for i := 0; i < t.NumField(); i++ {
		order[jsonName(t.Field(i))] = i
	}
	sort.SliceStable(out, func(i, j int) bool { return order[out[i].Field] < order[out[j].Field] })
	return apperr.Validation(out)
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	default:
		return name
	}
}

func typeMessage(e *json.UnmarshalTypeError) string {
	return fmt.Sprintf("Expected %s, received %s", expectedType(e.Type), receivedType(e.Value))
}

// receivedType maps encoding/json's description of the offending value onto the
// same vocabulary expectedType uses.
func receivedType(value string) string {
	switch {
	case strings.HasPrefix(value, "number"):
		return "number"
	case value == "bool":
		return "boolean"
	case value == "":
		return "value"
	default:
		return value
	}
}

func expectedType(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	default:
		return strings.ToLower(t.Kind().String())
	}
}
