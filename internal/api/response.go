package api

import (
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
)

type Response struct {
	Data    any           `json:"data"`
	Flashes []model.Flash `json:"flashes"`
}

type ResponseError struct {
	Error string `json:"error"`
	Data  any    `json:"data,omitempty"`
}

// SuccessJSON 200, 一併帶出待顯示的 flash 訊息
func SuccessJSON(w http.ResponseWriter, data any, flashes []model.Flash) {
	if flashes == nil {
		flashes = []model.Flash{}
	}
	writeJSON(w, http.StatusOK, Response{Data: data, Flashes: flashes})
}

func ErrorJSON(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, ResponseError{Error: message, Data: data})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Redirect 表單送出後一律 303, 讓瀏覽器改用 GET
func Redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}
