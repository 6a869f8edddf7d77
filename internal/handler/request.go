package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/voyage-planner/voyage/internal/domain"
	"github.com/voyage-planner/voyage/internal/middleware"
)

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and validates it. On failure it writes
// the 422 response and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
		case errors.Is(err, io.EOF):
			requestError(w, "request body is required")
		default:
			requestError(w, "malformed request body: "+err.Error())
		}
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		requestError(w, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs[i] = fe.Field() + " is required"
		case "min", "gte":
			msgs[i] = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		case "max", "lte":
			msgs[i] = fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
		case "email":
			msgs[i] = fe.Field() + " must be a valid email address"
		case "oneof":
			msgs[i] = fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
		default:
			msgs[i] = fe.Field() + " is invalid"
		}
	}
	return strings.Join(msgs, "; ")
}

// userID returns the caller set by the authentication middleware. Without
// one it writes 401 and returns false.
func userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
	}
	return id, ok
}

// pathID parses the {id} URL parameter. A malformed id cannot name an owned
// record, so it is reported as not found.
func pathID(w http.ResponseWriter, r *http.Request, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", entity+" not found or unauthorized")
		return uuid.Nil, false
	}
	return id, true
}

// query reads optional typed query parameters, remembering the first
// malformed one.
type query struct {
	values map[string][]string
	err    error
}

func newQuery(r *http.Request) *query {
	return &query{values: r.URL.Query()}
}

func (q *query) str(key string) string {
	if v, ok := q.values[key]; ok && len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

func (q *query) int(key string) *int {
	raw := q.str(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		q.fail(fmt.Errorf("%s must be an integer", key))
		return nil
	}
	return &n
}

func (q *query) date(key string) *time.Time {
	raw := q.str(key)
	if raw == "" {
		return nil
	}
	t, err := domain.ParseDate(raw)
	if err != nil {
		q.fail(fmt.Errorf("%s must be a date (YYYY-MM-DD)", key))
		return nil
	}
	return &t
}

func (q *query) fail(err error) {
	if q.err == nil {
		q.err = err
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
