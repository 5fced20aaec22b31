package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"carclub/paddock/internal/auth"
	"carclub/paddock/internal/common"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// principal returns the caller, answering 401 itself when there is none.
func principal(w http.ResponseWriter, r *http.Request) (*auth.Principal, bool) {
	p := auth.GetPrincipal(r.Context())
	if p == nil {
		common.RespondUnauthorized(w, "Unauthorized: missing principal")
		return nil, false
	}
	return p, true
}

// decode binds a JSON body. An empty body leaves dst untouched.
func decode(w http.ResponseWriter, r *http.Request, initTime time.Time, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	common.RespondBadRequest(w, initTime, "invalid JSON body")
	return false
}
