package models

import "time"

// User is a document in the users collection. Documents are keyed by the
// application-generated id field, never the Mongo _id.
type User struct {
	ID            string    `json:"id"                        bson:"id"`
	Username      string    `json:"username"                  bson:"username"`
	Email         string    `json:"email"                     bson:"email"`
	PasswordHash  string    `json:"-"                         bson:"password_hash"`
	Gender        string    `json:"gender"                    bson:"gender"`
	Phone         string    `json:"phone,omitempty"           bson:"phone,omitempty"`
	ProfilePicID  string    `json:"-"                         bson:"profile_pic_id,omitempty"`
	ProfilePicURL string    `json:"profile_pic_url,omitempty" bson:"profile_pic_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"                bson:"created_at"`
}

// RegisterRequest is the JSON body for POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Gender   string `json:"gender"   validate:"required"`
}

// LoginRequest is the JSON body for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries a freshly minted session token.
type TokenResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// ProfileResponse is the public view of a user's own profile.
type ProfileResponse struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Gender        string `json:"gender"`
	Phone         string `json:"phone,omitempty"`
	ProfilePicURL string `json:"profile_pic_url,omitempty"`
}

func (u *User) Profile() ProfileResponse {
	return ProfileResponse{
		Username:      u.Username,
		Email:         u.Email,
		Gender:        u.Gender,
		Phone:         u.Phone,
		ProfilePicURL: u.ProfilePicURL,
	}
}

// PasswordChangeRequest is the JSON body for POST /api/profile/change-password.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=6"`
}
