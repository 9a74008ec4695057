package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table              string
	ID                 string
	Username           string
	Email              string
	PasswordHash       string
	DisplayName        string
	AvatarURL          string
	PreferredLanguage  string
	ReadingPreferences string
	Role               string
	IsActive           string
	LastLoginAt        string
	CreatedAt          string
	UpdatedAt          string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:              "users.account",
	ID:                 "id",
	Username:           "username",
	Email:              "email",
	PasswordHash:       "passwordhash",
	DisplayName:        "displayname",
	AvatarURL:          "avatarurl",
	PreferredLanguage:  "preferredlanguage",
	ReadingPreferences: "readingpreferences",
	Role:               "role",
	IsActive:           "isactive",
	LastLoginAt:        "lastloginat",
	CreatedAt:          "createdat",
	UpdatedAt:          "updatedat",
}
