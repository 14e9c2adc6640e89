package common

// AuthorizationHeader carries the bearer access token on API requests.
const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)

// AvatarMaxSize is the largest accepted avatar payload in bytes.
const AvatarMaxSize int64 = 5 * 1024 * 1024
