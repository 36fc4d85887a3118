package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// UploadResolver 把上傳檔名轉成本機路徑
type UploadResolver interface {
	Path(name string) (string, error)
}

type UploadHandler struct {
	resolver UploadResolver
}

func NewUploadHandler(resolver UploadResolver) *UploadHandler {
	if resolver == nil {
		panic("upload resolver cannot be nil")
	}
	return &UploadHandler{resolver: resolver}
}

// Serve GET /uploads/{name}
func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	path, err := h.resolver.Path(chi.URLParam(r, "name"))
	if err != nil {
		notFound(w)
		return
	}
	http.ServeFile(w, r, path)
}
