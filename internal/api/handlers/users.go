package handlers

import (
	"net/http"

	apierrors "github.com/HansenBerlin/printfiles/internal/api/errors"
)

// GetUserByMail: GET /api/users/{mail}.
func (h *APIHandler) GetUserByMail(w http.ResponseWriter, r *http.Request) {
	mail, err := stringPathParam(r, "mail")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	id, err := h.users.IDByMail(r.Context(), mail)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := userIDResponse{Status: statusSuccess}
	resp.Data.ID = id
	writeJSON(w, http.StatusOK, resp)
}

// ListUsers: GET /api/users.
func (h *APIHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.pageParam(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	users, err := h.users.List(r.Context(), page)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	items := make([]userDTO, 0, len(users))
	for _, u := range users {
		mails := u.Mails
		if mails == nil {
			mails = []string{}
		}
		items = append(items, userDTO{ID: u.ID, UserName: u.UserName, Mails: mails})
	}
	writeJSON(w, http.StatusOK, userListResponse{Status: statusSuccess, Results: len(items), Users: items})
}

// CreateUser: POST /api/users.
func (h *APIHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		apierrors.ValidationError(w, "некорректное тело запроса: "+err.Error())
		return
	}

	id, err := h.users.Create(r.Context(), req.UserName, req.Mail)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := userIDResponse{Status: statusSuccess}
	resp.Data.ID = id
	writeJSON(w, http.StatusCreated, resp)
}
