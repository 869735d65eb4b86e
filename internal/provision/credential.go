package provision

import "fmt"

// Credential is the username/password pair for one sequence number.
type Credential struct {
	Username string
	Password string
}

// Username returns prefix followed by seq zero-padded to five digits.
func Username(prefix string, seq int) string {
	return fmt.Sprintf("%s%05d", prefix, seq)
}

// NewCredential builds the credential for seq.
func NewCredential(prefix string, seq int, password string) Credential {
	return Credential{Username: Username(prefix, seq), Password: password}
}

type signupBody struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	RePassword      string `json:"re_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c Credential) signupBody() signupBody {
	return signupBody{
		Username:        c.Username,
		Password:        c.Password,
		RePassword:      c.Password,
		ConfirmPassword: c.Password,
	}
}

func (c Credential) loginBody() loginBody {
	return loginBody{Username: c.Username, Password: c.Password}
}
