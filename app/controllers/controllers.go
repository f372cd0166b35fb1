// Package controllers maps HTTP requests onto the workflow services:
// binding and validating inputs, translating workflow errors into the
// response envelope, and nothing else.
package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/kirana/app/repositories"
	"github.com/shashiranjanraj/kirana/pkg/logger"
	"github.com/shashiranjanraj/kirana/pkg/response"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// objectIDParam parses a URL parameter as an ObjectID. On failure it writes
// a 400 and returns false.
func objectIDParam(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+name)
		return primitive.NilObjectID, false
	}
	return oid, true
}

// fail translates an unexpected workflow error: not-found becomes a 404,
// anything else is logged in full and surfaced as a sanitized 500.
func fail(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w, notFoundMsg)
		return
	}
	logger.WithCtx(r.Context()).Error("request failed",
		"path", r.URL.Path, "error", err.Error())
	response.Error(w, http.StatusInternalServerError, "Something went wrong")
}
