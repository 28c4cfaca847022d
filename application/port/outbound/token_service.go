package outbound

const RoleInternal = "internal"

type TokenClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type TokenService interface {
	GenerateAccessToken(claims TokenClaims) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}
