package handlers

import (
	"time"

	"github.com/HansenBerlin/printfiles/internal/domain/model"
)

// fileDTO: файл в ответах API.
type fileDTO struct {
	ID             string    `json:"id"`
	Fullname       string    `json:"fullname"`
	Created        time.Time `json:"created"`
	SizeBytes      int64     `json:"sizebytes"`
	Downloads      int32     `json:"downloads"`
	AverageRating  float32   `json:"averageRating"`
	IsDownloadable bool      `json:"isDownloadable"`
	IsPublic       bool      `json:"isPublic"`
	Owner          string    `json:"owner"`
	Permission     *string   `json:"permission,omitempty"`
}

func toFileDTO(rec *model.FileRecord) fileDTO {
	dto := fileDTO{
		ID:             rec.ID,
		Fullname:       rec.Fullname,
		Created:        rec.Created,
		SizeBytes:      rec.SizeBytes,
		Downloads:      rec.Downloads,
		AverageRating:  rec.AverageRating,
		IsDownloadable: rec.IsDownloadable,
		IsPublic:       rec.IsPublic,
		Owner:          rec.Owner,
	}
	if rec.Permission != nil {
		p := string(*rec.Permission)
		dto.Permission = &p
	}
	return dto
}

type fileListResponse struct {
	Status  string    `json:"status"`
	Results int       `json:"results"`
	Files   []fileDTO `json:"files"`
}

func newFileListResponse(recs []*model.FileRecord) fileListResponse {
	files := make([]fileDTO, 0, len(recs))
	for _, rec := range recs {
		files = append(files, toFileDTO(rec))
	}
	return fileListResponse{Status: statusSuccess, Results: len(files), Files: files}
}

type fileDataResponse struct {
	Status string `json:"status"`
	Data   struct {
		File fileDTO `json:"file"`
	} `json:"data"`
}

func newFileDataResponse(rec *model.FileRecord) fileDataResponse {
	resp := fileDataResponse{Status: statusSuccess}
	resp.Data.File = toFileDTO(rec)
	return resp
}

type ownerDataResponse struct {
	Status string `json:"status"`
	Data   struct {
		Owner string `json:"owner"`
	} `json:"data"`
}

// createFileRequest: тело POST /api/files.
type createFileRequest struct {
	Fullname       string `json:"fullname"`
	SizeBytes      int64  `json:"sizebytes"`
	OwnerUserID    string `json:"ownerUserId"`
	IsDownloadable bool   `json:"isDownloadable"`
	IsPublic       bool   `json:"isPublic"`
}

// updateFileRequest: тело PATCH /api/files/{id}. Все поля опциональны.
type updateFileRequest struct {
	Fullname      *string  `json:"fullname"`
	Downloads     *int32   `json:"downloads"`
	AverageRating *float32 `json:"averageRating"`
}

// grantPermissionRequest: тело POST /api/files/{id}/permissions.
type grantPermissionRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type permissionDTO struct {
	FileID string `json:"fileId"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type permissionDataResponse struct {
	Status string `json:"status"`
	Data   struct {
		Permission permissionDTO `json:"permission"`
	} `json:"data"`
}

// createUserRequest: тело POST /api/users.
type createUserRequest struct {
	UserName string `json:"userName"`
	Mail     string `json:"mail"`
}

type userIDResponse struct {
	Status string `json:"status"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

type userDTO struct {
	ID       string   `json:"id"`
	UserName string   `json:"userName"`
	Mails    []string `json:"mails"`
}

type userListResponse struct {
	Status  string    `json:"status"`
	Results int       `json:"results"`
	Users   []userDTO `json:"users"`
}

type printDTO struct {
	ID             string   `json:"id"`
	NozzleSizeMM   *float64 `json:"nozzleSizeMm"`
	BedTempCelsius *int32   `json:"bedTempCelsius"`
	ExtruderTemp   *int32   `json:"extruderTemp"`
	Successful     bool     `json:"successful"`
	Filament       *string  `json:"filament"`
	FilamentType   *string  `json:"filamentType"`
	Printer        *string  `json:"printer"`
	GcodeID        string   `json:"gcodeId"`
}

type printListResponse struct {
	Status  string     `json:"status"`
	Results int        `json:"results"`
	Prints  []printDTO `json:"prints"`
}
