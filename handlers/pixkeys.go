package handlers

import (
	"net/http"

	"github.com/pix-rail/pix-key-api/pixkeys"
)

// PixKeys is a HTTP server for PIX key management.
// It provides create, amend, deactivate and query APIs.
// It uses a pixkeys service to interface with data.
type PixKeys struct {
	service *pixkeys.Service
}

// NewPixKeys initiates a new PIX keys server.
func NewPixKeys(service *pixkeys.Service) *PixKeys {
	return &PixKeys{service}
}

func (s *PixKeys) List() http.Handler {
	return http.HandlerFunc(s.ListFunc)
}

func (s *PixKeys) Create() http.Handler {
	h := http.HandlerFunc(s.CreateFunc)
	return UseJson(h)
}

func (s *PixKeys) Amend() http.Handler {
	h := http.HandlerFunc(s.AmendFunc)
	return UseJson(h)
}

func (s *PixKeys) Deactivate() http.Handler {
	return http.HandlerFunc(s.DeactivateFunc)
}

func (s *PixKeys) Details() http.Handler {
	return http.HandlerFunc(s.DetailsFunc)
}

func (s *PixKeys) ByType() http.Handler {
	return http.HandlerFunc(s.ByTypeFunc)
}

func (s *PixKeys) ByAccount() http.Handler {
	return http.HandlerFunc(s.ByAccountFunc)
}

func (s *PixKeys) ByHolderName() http.Handler {
	return http.HandlerFunc(s.ByHolderNameFunc)
}

func (s *PixKeys) ByPeriod() http.Handler {
	return http.HandlerFunc(s.ByPeriodFunc)
}

func (s *PixKeys) Active() http.Handler {
	return http.HandlerFunc(s.ActiveFunc)
}

func (s *PixKeys) Inactive() http.Handler {
	return http.HandlerFunc(s.InactiveFunc)
}
