package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the app-owned row in the profiles table; role drives admin access.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"fullname"`
	Role        string    `json:"role"`
	PhoneNumber string    `json:"phone_number"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserMetadata holds the optional profile fields collected at sign-up or
// provided by the OAuth provider.
type UserMetadata struct {
	Name       string `json:"name,omitempty"`
	Mobile     string `json:"mobile,omitempty"`
	DOB        string `json:"dob,omitempty"`
	Profession string `json:"profession,omitempty"`
	Gender     string `json:"gender,omitempty"`
	Picture    string `json:"picture,omitempty"`
}

// SessionUser is the identity handed to clients.
type SessionUser struct {
	ID        uuid.UUID    `json:"id"`
	Email     string       `json:"email"`
	Role      string       `json:"role"`
	CreatedAt string       `json:"created_at,omitempty"`
	Provider  string       `json:"provider,omitempty"`
	Metadata  UserMetadata `json:"user_metadata"`
}

type SignupRequest struct {
	Email    string       `json:"email" binding:"required,email"`
	Password string       `json:"password" binding:"required"`
	Metadata UserMetadata `json:"user_metadata"`
}

func (m UserMetadata) ToMap() map[string]interface{} {
	out := map[string]interface{}{}
	set := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	set("name", m.Name)
	set("mobile", m.Mobile)
	set("dob", m.DOB)
	set("profession", m.Profession)
	set("gender", m.Gender)
	set("picture", m.Picture)
	return out
}

func MetadataFromMap(raw map[string]interface{}) UserMetadata {
	get := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := raw[k].(string); ok && v != "" {
				return v
			}
		}
		return ""
	}
	return UserMetadata{
		Name:       get("name", "full_name"),
		Mobile:     get("mobile", "phone"),
		DOB:        get("dob"),
		Profession: get("profession"),
		Gender:     get("gender"),
		Picture:    get("picture", "avatar_url"),
	}
}
