package rest

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rolandocepedadev/ccat/internal/logging"
)

// Dependencies are the services the router dispatches to.
type Dependencies struct {
	Accounts    Accounts
	Files       Files
	Profiles    Profiles
	Diagnostics Diagnostics
	Logger      logging.Logger

	// BodyLimit caps request bodies, e.g. "100M". Empty disables the limit.
	BodyLimit string
}

func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(deps.Logger)

	e.Use(requestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(middleware.Recover())
	if deps.BodyLimit != "" {
		e.Use(middleware.BodyLimit(deps.BodyLimit))
	}

	RegisterRoutes(e, deps)
	return e
}

func RegisterRoutes(e *echo.Echo, deps Dependencies) {
	e.GET("/health", HandleHealth)

	authH := NewAuthHandler(deps.Accounts)
	authGroup := e.Group("/api/auth")
	authGroup.POST("/register", authH.HandleRegister)
	authGroup.POST("/login", authH.HandleLogin)
	authGroup.POST("/refresh", authH.HandleRefresh)
	authGroup.POST("/logout", authH.HandleLogout)

	requireUser := Authenticate(deps.Accounts)

	filesH := NewFileHandler(deps.Files)
	filesGroup := e.Group("/api/files", requireUser)
	filesGroup.GET("", filesH.HandleList)
	filesGroup.POST("", filesH.HandleCreate)
	filesGroup.DELETE("/:id", filesH.HandleDelete)
	filesGroup.GET("/:id/download", filesH.HandleDownload)
	filesGroup.GET("/:id/url", filesH.HandleSignedURL)
	filesGroup.PUT("/:id/star", filesH.HandleStar)

	profileH := NewProfileHandler(deps.Profiles)
	profileGroup := e.Group("/api/profile", requireUser)
	profileGroup.GET("", profileH.HandleGet)
	profileGroup.PATCH("", profileH.HandleUpdate)
	profileGroup.POST("/avatar", profileH.HandleUploadAvatar)
	profileGroup.GET("/avatar/url", profileH.HandleAvatarURL)
	profileGroup.PUT("/password", profileH.HandleChangePassword)

	debugH := NewDebugHandler(deps.Diagnostics)
	e.GET("/api/debug/storage", debugH.HandleStorage, requireUser)
}
