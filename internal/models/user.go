package models

import "time"

// Role is the community role a user signs up with.
type Role string

const (
	RoleStudent Role = "student"
	RoleMentor  Role = "mentor"
	RoleAlumni  Role = "alumni"
)

// User represents a member of the college community.
// It is never serialized directly; see ProfileOf and SummaryOf.
type User struct {
	ID               string          `gorm:"primaryKey;type:varchar(36)"`
	Name             string          `gorm:"type:varchar(255);not null"`
	Email            string          `gorm:"uniqueIndex;type:varchar(255);not null"`
	PasswordHash     string          `gorm:"column:password;type:varchar(255);not null" json:"-"`
	Role             Role            `gorm:"type:varchar(16);not null;index"`
	Department       string          `gorm:"type:varchar(255);not null"`
	YearOfGraduation *int
	Bio              *string
	Skills           []string        `gorm:"serializer:json"`
	CurrCompany      *string         `gorm:"type:varchar(255)"`
	ProfileImage     *string
	SocialLinks      *SocialLinks    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CodingProfiles   *CodingProfiles `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	OverallRankScore int             `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SocialLinks holds a user's optional external profile links.
type SocialLinks struct {
	ID        uint    `gorm:"primaryKey" json:"-"`
	UserID    string  `gorm:"uniqueIndex;type:varchar(36)" json:"-"`
	LinkedIn  *string `json:"linkedin"`
	GitHub    *string `json:"github"`
	Portfolio *string `json:"portfolio"`
}

// CodingProfiles holds a user's optional competitive programming handles.
type CodingProfiles struct {
	ID             uint    `gorm:"primaryKey" json:"-"`
	UserID         string  `gorm:"uniqueIndex;type:varchar(36)" json:"-"`
	LeetcodeUser   *string `json:"leetcodeUser"`
	CodeforcesUser *string `json:"codeforcesUser"`
}

// TableName pins the table name for SocialLinks.
func (SocialLinks) TableName() string { return "social_links" }

// TableName pins the table name for CodingProfiles.
func (CodingProfiles) TableName() string { return "coding_profiles" }
