package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID                 string     `json:"id" bson:"_id"`
	Email              string     `json:"email" bson:"email"`
	PasswordHash       string     `json:"-" bson:"password"`
	Role               Role       `json:"role" bson:"role"`
	IsVerified         bool       `json:"isVerified" bson:"isVerified"`
	MFACode            string     `json:"-" bson:"mfaCode,omitempty"`
	MFACodeExpires     *time.Time `json:"-" bson:"mfaCodeExpires,omitempty"`
	AccessToken        string     `json:"-" bson:"accessToken,omitempty"`
	AccessTokenExpires *time.Time `json:"accessTokenExpires,omitempty" bson:"accessTokenExpires,omitempty"`
	IsTokenRevoked     bool       `json:"isTokenRevoked" bson:"isTokenRevoked"`
	DisplayName        string     `json:"displayName,omitempty" bson:"displayName,omitempty"`
	PhotoURL           string     `json:"photoURL,omitempty" bson:"photoURL,omitempty"`
	PhoneNumber        *string    `json:"phoneNumber" bson:"phoneNumber,omitempty"`
	CreatedAt          time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// HasPendingMFA reporta si hay un código vigente en now.
func (u User) HasPendingMFA(now time.Time) bool {
	return u.MFACode != "" && u.MFACodeExpires != nil && u.MFACodeExpires.After(now)
}
