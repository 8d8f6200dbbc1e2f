// models/user.go
package models

// Role is the account type of a user.
type Role string

const (
	RoleTenant   Role = "TENANT"
	RoleLandlord Role = "LANDLORD"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole maps a wire role to a Role. Unknown values fall back to RoleTenant
// and ok reports whether the value was recognised.
func ParseRole(s string) (role Role, ok bool) {
	switch Role(s) {
	case RoleTenant, RoleLandlord, RoleAdmin:
		return Role(s), true
	}
	return RoleTenant, false
}

// UserProfile is the cached identity of the logged-in user.
type UserProfile struct {
	ID          int64   `json:"id" bson:"id"`
	Username    string  `json:"username" bson:"username"`
	Email       string  `json:"email" bson:"email"`
	FirstName   string  `json:"firstName" bson:"firstName"`
	LastName    string  `json:"lastName" bson:"lastName"`
	PhoneNumber *string `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	Role        Role    `json:"userType" bson:"userType"`
}

// Session is the persisted authentication state.
type Session struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username    string  `json:"username" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required"`
	FirstName   string  `json:"firstName" validate:"required"`
	LastName    string  `json:"lastName" validate:"required"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	UserType    Role    `json:"userType" validate:"required,oneof=TENANT LANDLORD ADMIN"`
}

// AuthResponse is returned by signin and signup.
type AuthResponse struct {
	Token     string `json:"token"`
	Type      string `json:"type"`
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// Profile derives the cached user profile. The auth payload carries no phone number.
func (a AuthResponse) Profile() UserProfile {
	role, _ := ParseRole(a.Role)
	return UserProfile{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Role:      role,
	}
}
