package middleware

import (
	"fmt"
	"net/http"
	"os"
	"runtime/debug"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/rs/zerolog"
)

type StatusRecoder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *StatusRecoder) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.status = status
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *StatusRecoder) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *StatusRecoder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// 記錄request 請求
// 有一起處理recover
func LoggerMiddleware(logger *zerolog.Logger) func(next http.Handler) http.Handler {
	if logger == nil {
		temp := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &temp
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recoder := &StatusRecoder{
				ResponseWriter: w,
			}
			// 每個 request 一份 logger, 內層 middleware 可補上 user_id
			r = r.WithContext(logger.With().
				Str("request_id", util.GetRequestID(r.Context())).
				Logger().
				WithContext(r.Context()))
			reqLogger := zerolog.Ctx(r.Context())

			defer func() {
				if err := recover(); err != nil {
					var errMsg string
					if e, ok := err.(error); ok {
						errMsg = e.Error()
					} else {
						errMsg = fmt.Sprintf("%v", err)
					}
					reqLogger.Error().
						Str("method", r.Method).
						Str("url", r.URL.String()).
						Str("error", errMsg).
						Bytes("stack", debug.Stack()).
						Msg("request panic")

					if !recoder.wroteHeader {
						api.ErrorJSON(recoder, http.StatusInternalServerError, "Internal Server Error", nil)
					}
				}
			}()

			next.ServeHTTP(recoder, r)

			reqLogger.Info().
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Str("remote_addr", r.RemoteAddr).
				Int("status", recoder.Status()).
				Msg("request completed")
		})
	}
}
