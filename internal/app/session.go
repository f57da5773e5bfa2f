package app

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/selimyuksel/cinema-booking-system/internal/domain"
)

const (
	SessionKeyUserId   = "userId"
	SessionKeyUserRole = "userRole"
)

func contextGetUserId(sessionManager *scs.SessionManager, r *http.Request) int {
	return sessionManager.GetInt(r.Context(), SessionKeyUserId)
}

func contextGetUserRole(sessionManager *scs.SessionManager, r *http.Request) domain.Role {
	return domain.Role(sessionManager.GetString(r.Context(), SessionKeyUserRole))
}
