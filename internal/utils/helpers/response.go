package helpers

import (
	"encoding/json"
	"net/http"
)

// Response — единый конверт API: status success|fail|error.
type Response struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Data    interface{}         `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func write(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// JSON — успешный ответ (status: success).
func JSON(w http.ResponseWriter, status int, message string, data interface{}) {
	write(w, status, Response{Status: "success", Message: message, Data: data})
}

// Fail — клиентская ошибка (status: fail): 4xx.
func Fail(w http.ResponseWriter, status int, message string) {
	write(w, status, Response{Status: "fail", Message: message})
}

// ValidationFail — 422 с пофилдовой картой ошибок.
func ValidationFail(w http.ResponseWriter, errors map[string][]string) {
	write(w, http.StatusUnprocessableEntity, Response{
		Status:  "fail",
		Message: "Validation errors",
		Errors:  errors,
	})
}

// Error — серверная ошибка (status: error): 5xx, без деталей наружу.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Response{Status: "error", Message: message})
}
