// Пакет errors: конструкторы стандартных ошибок API.
// Единый формат: {"status": "fail"|"error", "message": "..."}.
// Для 4xx status равен fail, для 5xx равен error.
// Все HTTP-ответы с ошибками должны использовать WriteError.
package errors

import (
	"encoding/json"
	"net/http"
)

// Значения поля status в ответе.
const (
	StatusFail  = "fail"
	StatusError = "error"
)

// errorBody: структура тела ответа ошибки.
type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// WriteError записывает ответ ошибки в стандартном формате.
// status в теле выбирается по statusCode.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	status := StatusFail
	if statusCode >= http.StatusInternalServerError {
		status = StatusError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{
		Status:  status,
		Message: message,
	})
}

// --- Конструкторы для типичных ошибок ---

// ValidationError: 400 некорректные входные данные.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// NotFound: 404 ресурс не найден.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// InternalError: 500 внутренняя ошибка.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}
