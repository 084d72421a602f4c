package models

// LoginInfo is the remembered login kept under the Login-Info key.
// PasswordDigest is the MD5 digest, never the plaintext.
type LoginInfo struct {
	UserName            string `json:"userName"`
	PasswordDigest      string `json:"passWord"`
	ValidityTimeSeconds int64  `json:"validityTime"`
	IsFromCookie        bool   `json:"isFromCookie"`
}

// LoginRequest is the POST /login body.
type LoginRequest struct {
	UserName     string `json:"userName"`
	PassWord     string `json:"passWord"`
	ValidityTime int64  `json:"validityTime"`
	AutoLogin    bool   `json:"autoLogin"`
}

// LoginResult is the data payload of a successful /login envelope.
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"userInfo,omitempty"`
}

// SignupRequest is the POST /signup body. The confirmation password stays
// on the client.
type SignupRequest struct {
	UserName string `json:"userName"`
	PassWord string `json:"passWord"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Level    int    `json:"level"`
}
