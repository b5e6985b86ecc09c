package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pix-rail/pix-key-api/errors"
	"github.com/pix-rail/pix-key-api/pixkeys"
)

// List returns all PIX keys.
func (s *PixKeys) ListFunc(rw http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.FormValue("limit"))
	if err != nil {
		limit = 0
	}

	offset, err := strconv.Atoi(r.FormValue("offset"))
	if err != nil {
		offset = 0
	}

	res, err := s.service.List(limit, offset)
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

// Create registers a new PIX key.
func (s *PixKeys) CreateFunc(rw http.ResponseWriter, r *http.Request) {
	var candidate pixkeys.PixKey
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		handleError(rw, &errors.RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("invalid body"),
		})
		return
	}

	res, err := s.service.Create(candidate)
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusCreated, res)
}

// Amend partially updates an existing PIX key.
// It reads the id for the wanted key from URL.
func (s *PixKeys) AmendFunc(rw http.ResponseWriter, r *http.Request) {
	id, err := parseKeyId(r)
	if err != nil {
		handleError(rw, err)
		return
	}

	var patch pixkeys.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		handleError(rw, &errors.RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("invalid body"),
		})
		return
	}

	res, err := s.service.Amend(id, patch)
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

// Deactivate marks a PIX key inactive. The record is retained.
func (s *PixKeys) DeactivateFunc(rw http.ResponseWriter, r *http.Request) {
	id, err := parseKeyId(r)
	if err != nil {
		handleError(rw, err)
		return
	}

	res, err := s.service.Deactivate(id)
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

// Details returns details regarding a PIX key.
func (s *PixKeys) DetailsFunc(rw http.ResponseWriter, r *http.Request) {
	id, err := parseKeyId(r)
	if err != nil {
		handleError(rw, err)
		return
	}

	res, err := s.service.Details(id)
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

// ByType returns the active PIX keys of the given type.
func (s *PixKeys) ByTypeFunc(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	res, err := s.service.ListByType(vars["keyType"])
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, filterActive(res))
}

// ByAccount returns the active PIX keys registered to a branch/account
// pair, both read from query parameters.
func (s *PixKeys) ByAccountFunc(rw http.ResponseWriter, r *http.Request) {
	branch, err := strconv.Atoi(r.FormValue("branch"))
	if err != nil {
		handleError(rw, &errors.RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("invalid branch number"),
		})
		return
	}

	account, err := strconv.Atoi(r.FormValue("account"))
	if err != nil {
		handleError(rw, &errors.RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("invalid account number"),
		})
		return
	}

	res, err := s.service.ListByAccount(branch, account)
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, filterActive(res))
}

// ByHolderName returns the active PIX keys whose holder first name
// contains the given substring, case-insensitively.
func (s *PixKeys) ByHolderNameFunc(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	res, err := s.service.ListByHolderName(vars["name"])
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, filterActive(res))
}

// ByPeriod returns the active PIX keys created within the given
// RFC3339 time range.
func (s *PixKeys) ByPeriodFunc(rw http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(time.RFC3339, r.FormValue("start"))
	if err != nil {
		handleError(rw, &errors.RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("invalid start time, expected RFC3339"),
		})
		return
	}

	end, err := time.Parse(time.RFC3339, r.FormValue("end"))
	if err != nil {
		handleError(rw, &errors.RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("invalid end time, expected RFC3339"),
		})
		return
	}

	res, err := s.service.ListByCreatedRange(start, end)
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, filterActive(res))
}

// Active returns all active PIX keys.
func (s *PixKeys) ActiveFunc(rw http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.FormValue("limit"))
	if err != nil {
		limit = 0
	}

	offset, err := strconv.Atoi(r.FormValue("offset"))
	if err != nil {
		offset = 0
	}

	res, err := s.service.ListActive(limit, offset)
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

// Inactive returns all deactivated PIX keys.
func (s *PixKeys) InactiveFunc(rw http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.FormValue("limit"))
	if err != nil {
		limit = 0
	}

	offset, err := strconv.Atoi(r.FormValue("offset"))
	if err != nil {
		offset = 0
	}

	res, err := s.service.ListInactive(limit, offset)
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

func parseKeyId(r *http.Request) (uuid.UUID, error) {
	vars := mux.Vars(r)

	id, err := uuid.Parse(vars["id"])
	if err != nil {
		return uuid.Nil, &errors.RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("invalid key id"),
		}
	}

	return id, nil
}

func filterActive(kk []pixkeys.PixKey) []pixkeys.PixKey {
	active := make([]pixkeys.PixKey, 0, len(kk))
	for _, k := range kk {
		if k.Active() {
			active = append(active, k)
		}
	}
	return active
}
