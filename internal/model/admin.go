package model

// Admin is an operator who owns one roster of students. Admins are fixed
// at build time; the password is compared verbatim and never serialized.
type Admin struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Password    string `json:"-"`
	DisplayName string `json:"display_name"`
}

// AdminLoginRequest is the payload for admin authentication.
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required,max=128"`
}

// AdminLoginResponse is returned after a successful login.
type AdminLoginResponse struct {
	Admin Admin `json:"admin"`
}
