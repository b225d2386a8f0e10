package response

// 对外文案集中管理，保持与客户端的历史契约稳定
const (
	MsgMissingFields      = "Email and password are required"
	MsgInvalidRole        = "Invalid role"
	MsgBadSuperAdminKey   = "Invalid superadmin key"
	MsgUserExists         = "User already exists"
	MsgInvalidCredentials = "Invalid credentials"
	MsgNoToken            = "No authorization token provided"
	MsgBadAuthFormat      = "Invalid authorization format"
	MsgBadToken           = "Invalid or expired token"
	MsgForbidden          = "Insufficient permissions"
	MsgUserNotFound       = "User not found"
	MsgRouteNotFound      = "Route not found"
	MsgInternal           = "Internal server error"
)
