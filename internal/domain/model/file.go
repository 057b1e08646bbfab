package model

import "time"

// Role: роль пользователя по отношению к файлу (таблица roles).
type Role string

const (
	// RoleOwner: владелец файла, не больше одного на файл.
	RoleOwner Role = "owner"
	// RoleDownload: пользователь может скачивать файл.
	RoleDownload Role = "download"
	// RoleView: пользователь может только просматривать файл.
	RoleView Role = "view"
)

// DownloadableRoles: роли, дающие право скачивания.
var DownloadableRoles = []Role{RoleOwner, RoleDownload}

// CanDownload сообщает, даёт ли роль право скачивания.
func (r Role) CanDownload() bool {
	for _, d := range DownloadableRoles {
		if r == d {
			return true
		}
	}
	return false
}

// Grantable сообщает, можно ли выдать роль другому пользователю.
// Роль owner назначается только при создании файла.
func (r Role) Grantable() bool {
	return r == RoleDownload || r == RoleView
}

// File: запись файла.
// Хранится в таблице file.
type File struct {
	// ID: UUID файла (генерируется БД)
	ID string
	// Fullname: уникальное имя файла
	Fullname string
	// Created: время создания записи
	Created time.Time
	// SizeBytes: размер файла в байтах
	SizeBytes int64
	// Downloads: количество скачиваний
	Downloads int32
	// AverageRating: средняя оценка
	AverageRating float32
	// IsDownloadable: флаг скачивания, как он хранится в таблице
	IsDownloadable bool
	// IsPublic: файл виден всем
	IsPublic bool
}

// FileRecord: файл в том виде, в каком его видит конкретный зритель.
// IsDownloadable в per-viewer режимах вычисляется из роли зрителя.
type FileRecord struct {
	File
	// Owner: user_name владельца
	Owner string
	// Permission: роль зрителя; nil для публичного списка
	Permission *Role
}

// FilePatch: частичное обновление файла.
// nil = поле не меняется.
type FilePatch struct {
	Fullname      *string
	Downloads     *int32
	AverageRating *float32
}

// Empty сообщает, что патч не содержит ни одного поля.
func (p FilePatch) Empty() bool {
	return p.Fullname == nil && p.Downloads == nil && p.AverageRating == nil
}

// Apply применяет присутствующие поля патча к файлу.
func (p FilePatch) Apply(f *File) {
	if p.Fullname != nil {
		f.Fullname = *p.Fullname
	}
	if p.Downloads != nil {
		f.Downloads = *p.Downloads
	}
	if p.AverageRating != nil {
		f.AverageRating = *p.AverageRating
	}
}

// NewFile: параметры создания файла.
type NewFile struct {
	Fullname       string
	SizeBytes      int64
	OwnerUserID    string
	IsDownloadable bool
	IsPublic       bool
}

// Permission: строка таблицы files_per_user.
type Permission struct {
	FileID string
	UserID string
	Role   Role
}
