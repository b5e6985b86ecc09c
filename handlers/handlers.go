// Package handlers provides HTTP handlers for different services across the application.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pix-rail/pix-key-api/errors"
	log "github.com/sirupsen/logrus"
)

// handleError is a helper function for unified HTTP error handling.
// Rule engine failures carry a typed kind which decides the status
// code; everything else is an opaque internal error.
func handleError(rw http.ResponseWriter, err error) {
	log.WithFields(log.Fields{"error": err}).Warn("Error while handling request")

	if kind, ok := errors.KindOf(err); ok {
		status := http.StatusUnprocessableEntity
		if kind == errors.NotFound {
			status = http.StatusNotFound
		}
		http.Error(rw, err.Error(), status)
		return
	}

	if reqErr, ok := err.(*errors.RequestError); ok {
		http.Error(rw, reqErr.Error(), reqErr.StatusCode)
		return
	}

	// Do not send data regarding unknown errors
	http.Error(rw, "Error", http.StatusInternalServerError)
}

// handleJsonResponse is a helper function for unified JSON response handling.
func handleJsonResponse(rw http.ResponseWriter, status int, res interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	if err := json.NewEncoder(rw).Encode(res); err != nil {
		log.WithFields(log.Fields{"error": err}).Warn("Error while encoding response")
	}
}
