package usercontext

// Keys for fiber Locals set by the UserContext middleware.
const (
	KeyUserContext   = "USER_CONTEXT"
	KeyFromProtected = "FROM_PROTECTED"
	KeyIsAdmin       = "USER_IS_ADMIN"
)
