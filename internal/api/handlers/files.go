// files.go содержит обработчики файлов: выборки по режимам видимости,
// создание, чтение, частичное обновление, удаление и выдачу прав.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	apierrors "github.com/HansenBerlin/printfiles/internal/api/errors"
	"github.com/HansenBerlin/printfiles/internal/domain/model"
	"github.com/HansenBerlin/printfiles/internal/service"
)

// ListPublicFiles: GET /api/files/public.
func (h *APIHandler) ListPublicFiles(w http.ResponseWriter, r *http.Request) {
	page, err := h.pageParam(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	recs, err := h.visibility.PublicListing(r.Context(), page)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newFileListResponse(recs))
}

// ListPrivateFiles: GET /api/files/private/{userId}.
func (h *APIHandler) ListPrivateFiles(w http.ResponseWriter, r *http.Request) {
	userID, err := uuidPathParam(r, "userId")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	page, err := h.pageParam(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	recs, err := h.visibility.PrivateListing(r.Context(), userID, page)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newFileListResponse(recs))
}

// ListUserFiles: GET /api/files/user/{userId} (устаревший режим).
func (h *APIHandler) ListUserFiles(w http.ResponseWriter, r *http.Request) {
	userID, err := uuidPathParam(r, "userId")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	page, err := h.pageParam(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	recs, err := h.visibility.ByUserOrOrphan(r.Context(), userID, page)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newFileListResponse(recs))
}

// CreateFile: POST /api/files.
func (h *APIHandler) CreateFile(w http.ResponseWriter, r *http.Request) {
	var req createFileRequest
	if err := decodeJSON(r, &req); err != nil {
		apierrors.ValidationError(w, "некорректное тело запроса: "+err.Error())
		return
	}
	if _, err := parseUUID("ownerUserId", req.OwnerUserID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	rec, err := h.files.Create(r.Context(), model.NewFile{
		Fullname:       req.Fullname,
		SizeBytes:      req.SizeBytes,
		OwnerUserID:    req.OwnerUserID,
		IsDownloadable: req.IsDownloadable,
		IsPublic:       req.IsPublic,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newFileDataResponse(rec))
}

// GetFile: GET /api/files/{id}.
func (h *APIHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuidPathParam(r, "id")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	rec, err := h.files.Get(r.Context(), fileID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newFileDataResponse(rec))
}

// GetFileForViewer: GET /api/files/{id}/{userId}.
func (h *APIHandler) GetFileForViewer(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuidPathParam(r, "id")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	userID, err := uuidPathParam(r, "userId")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	rec, err := h.visibility.GetForViewer(r.Context(), fileID, userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newFileDataResponse(rec))
}

// GetFileOwner: GET /api/files/{id}/owner.
func (h *APIHandler) GetFileOwner(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuidPathParam(r, "id")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	owner, err := h.visibility.OwnerOf(r.Context(), fileID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := ownerDataResponse{Status: statusSuccess}
	resp.Data.Owner = owner
	writeJSON(w, http.StatusOK, resp)
}

// UpdateFile: PATCH /api/files/{id}. Применяются только переданные поля.
func (h *APIHandler) UpdateFile(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuidPathParam(r, "id")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var req updateFileRequest
	if err := decodeJSON(r, &req); err != nil {
		apierrors.ValidationError(w, "некорректное тело запроса: "+err.Error())
		return
	}

	rec, err := h.files.Update(r.Context(), fileID, model.FilePatch{
		Fullname:      req.Fullname,
		Downloads:     req.Downloads,
		AverageRating: req.AverageRating,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newFileDataResponse(rec))
}

// DeleteFile: DELETE /api/files/{id}.
func (h *APIHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuidPathParam(r, "id")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if err := h.files.Delete(r.Context(), fileID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GrantPermission: POST /api/files/{id}/permissions.
func (h *APIHandler) GrantPermission(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuidPathParam(r, "id")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var req grantPermissionRequest
	if err := decodeJSON(r, &req); err != nil {
		apierrors.ValidationError(w, "некорректное тело запроса: "+err.Error())
		return
	}
	if _, err := parseUUID("userId", req.UserID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	p, err := h.files.GrantPermission(r.Context(), model.Permission{
		FileID: fileID,
		UserID: req.UserID,
		Role:   model.Role(req.Role),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := permissionDataResponse{Status: statusSuccess}
	resp.Data.Permission = permissionDTO{FileID: p.FileID, UserID: p.UserID, Role: string(p.Role)}
	writeJSON(w, http.StatusCreated, resp)
}

// parseUUID проверяет UUID из тела запроса.
func parseUUID(field, value string) (string, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return "", fmt.Errorf("%w: поле %s должно быть UUID", service.ErrValidation, field)
	}
	return id.String(), nil
}
