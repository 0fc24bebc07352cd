package model

// Credentials holds the brokerage app secrets and the current OAuth token pair.
type Credentials struct {
	AppKey       string
	AppSecret    string
	AccessToken  string
	RefreshToken string
}

// CanRefresh reports whether a refresh-token exchange can be attempted.
func (c Credentials) CanRefresh() bool {
	return c.AppKey != "" && c.AppSecret != "" && c.RefreshToken != ""
}
