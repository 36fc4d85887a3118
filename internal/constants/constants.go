package constants

const (
	//分頁
	DefaultPageSize int = 6
	DefaultPage     int = 1
)

const (
	UploadRoute      = "/uploads/"
	ExportFileName   = "orders_export.csv"
	DefaultCookieKey = "storefront_session"
)

type ContextKey string

const (
	SessionKey     ContextKey = "session"
	CurrentUserKey ContextKey = "current_user"
)

type ENV string

const (
	Debug ENV = "debug"
	Dev   ENV = "development"
	Stag  ENV = "staging"
	Prod  ENV = "production"
)

type RequestID string

const (
	RequestIDKey RequestID = "request_id"
)
