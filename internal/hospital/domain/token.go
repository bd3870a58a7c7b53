package domain

// TokenPair is what the token issuer returns: the short-lived access token
// and the long-lived refresh token, both signed JWTs. Issuing a pair has no
// side effects; persisting the refresh fingerprint is the caller's job.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
