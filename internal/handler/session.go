package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/nazmulrahman/young-star-app/internal/auth"
	"github.com/nazmulrahman/young-star-app/internal/identity"
)

// providerSecretHeader carries the auth provider's shared secret; without
// it anyone could mint a token for any principal.
const providerSecretHeader = "X-Provider-Secret"

type mintSessionRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

func (p *Portal) mintSession(w http.ResponseWriter, r *http.Request) {
	presented := r.Header.Get(providerSecretHeader)
	if subtle.ConstantTimeCompare([]byte(presented), []byte(p.providerSecret)) != 1 {
		writeErrorStatus(w, http.StatusUnauthorized, "invalid provider secret")
		return
	}

	var req mintSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" || req.Email == "" {
		writeErrorStatus(w, http.StatusBadRequest, "userId and email are required")
		return
	}
	token, err := auth.NewSessionToken(p.secret, p.issuer, p.sessionTTL, identity.Principal{
		ID:    req.UserID,
		Email: req.Email,
	})
	if err != nil {
		writeError(w, r, p.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
