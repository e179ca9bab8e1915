package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"marketplace-booking/internal/delivery/http/middleware"
	"marketplace-booking/internal/domain/entity"
	"marketplace-booking/pkg/apperror"
	"marketplace-booking/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// writeError maps domain errors onto their status; anything else is a 500 with the fallback message.
func writeError(w http.ResponseWriter, log *logrus.Logger, err error, fallback string) {
	if appErr, ok := apperror.As(err); ok {
		response.Error(w, appErr.HTTPStatus(), appErr.Message, appErr.Kind)
		return
	}
	log.Errorf("%s: %+v", fallback, err)
	response.InternalServerError(w, fallback)
}

func actorOrUnauthorized(w http.ResponseWriter, r *http.Request) (entity.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not found in context")
	}
	return actor, ok
}

func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+label+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

// decodeOptionalBody decodes JSON into dst; an empty body leaves dst untouched.
func decodeOptionalBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// queryErrors collects parse failures for query parameters, keyed by parameter name.
type queryErrors map[string]string

func (q queryErrors) intParam(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q[name] = name + " must be an integer"
	}
	return v
}

func (q queryErrors) floatParam(r *http.Request, name string) *float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		q[name] = name + " must be a number"
		return nil
	}
	return &v
}

func (q queryErrors) uuidParam(r *http.Request, name string) *uuid.UUID {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := uuid.Parse(raw)
	if err != nil {
		q[name] = name + " must be a valid UUID"
		return nil
	}
	return &v
}

// timeParam accepts RFC 3339 timestamps or plain YYYY-MM-DD dates (UTC midnight).
func (q queryErrors) timeParam(r *http.Request, name string) *time.Time {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if v, err := time.Parse(layout, raw); err == nil {
			return &v
		}
	}
	q[name] = name + " must be a valid ISO 8601 date"
	return nil
}
