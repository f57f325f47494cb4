package handler

import (
	"net/http"

	"github.com/go-chi/render"
)

// InternalError - текст ошибки в теле ответа 500
const InternalError = "INTERNAL SERVER ERROR"

// ErrorResponse представляет тело ответа при внутренней ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// EchoResponse представляет тело ответа 400/401: эхо userId из запроса
type EchoResponse struct {
	UserID string `json:"userId"`
}

// RespondWithJSON отправляет JSON ответ с указанным статус кодом
func RespondWithJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	render.Status(r, statusCode)
	render.JSON(w, r, data)
}
