package view

type User struct {
	Id        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarUrl string `json:"avatarUrl"`
}

type PlatformApiKeyView struct {
	Id      string   `json:"id"`
	Name    string   `json:"name"`
	Revoked bool     `json:"revoked"`
	Roles   []string `json:"roles"`
}

type PersonalAccessTokenExtAuthView struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	ExpiresAt string `json:"expiresAt"`
	Status    string `json:"status"`
	User      User   `json:"user"`
}

type PublicKey struct {
	Value []byte `json:"value"`
}

const AccessTokenCookieName = "apihub-access-token"
