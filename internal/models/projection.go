package models

import "time"

// UserProfile is the full outward view of a User. It has no password field.
type UserProfile struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	Role             Role            `json:"role"`
	Department       string          `json:"department"`
	YearOfGraduation *int            `json:"yearOfGraduation"`
	Bio              *string         `json:"bio"`
	Skills           []string        `json:"skills"`
	CurrCompany      *string         `json:"currCompany"`
	SocialLinks      *SocialLinks    `json:"socialLinks"`
	CodingProfiles   *CodingProfiles `json:"codingProfiles"`
	OverallRankScore int             `json:"overallRankScore"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// UserSummary is the minimal outward view of a User returned by login.
type UserSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// MentorCard is the directory listing view of a mentor. Contact details stay
// behind the mentor's own social links.
type MentorCard struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Role           Role            `json:"role"`
	Department     string          `json:"department"`
	Skills         []string        `json:"skills"`
	CurrCompany    *string         `json:"currCompany"`
	ProfileImage   *string         `json:"profileImage"`
	SocialLinks    *SocialLinks    `json:"socialLinks"`
	CodingProfiles *CodingProfiles `json:"codingProfiles"`
}

// ProfileOf returns the full projection of u.
func ProfileOf(u *User) UserProfile {
	return UserProfile{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		Department:       u.Department,
		YearOfGraduation: u.YearOfGraduation,
		Bio:              u.Bio,
		Skills:           nonNilSkills(u.Skills),
		CurrCompany:      u.CurrCompany,
		SocialLinks:      u.SocialLinks,
		CodingProfiles:   u.CodingProfiles,
		OverallRankScore: u.OverallRankScore,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

// SummaryOf returns the minimal projection of u.
func SummaryOf(u *User) UserSummary {
	return UserSummary{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Department: u.Department,
	}
}

// MentorCardOf returns the directory projection of u.
func MentorCardOf(u *User) MentorCard {
	return MentorCard{
		ID:             u.ID,
		Name:           u.Name,
		Role:           u.Role,
		Department:     u.Department,
		Skills:         nonNilSkills(u.Skills),
		CurrCompany:    u.CurrCompany,
		ProfileImage:   u.ProfileImage,
		SocialLinks:    u.SocialLinks,
		CodingProfiles: u.CodingProfiles,
	}
}

func nonNilSkills(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	return skills
}

// AuthorView identifies the author of a question or reply.
type AuthorView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
}

// ReplyView is the outward view of a Reply.
type ReplyView struct {
	ID        string      `json:"id"`
	Body      string      `json:"body"`
	UserID    string      `json:"userId"`
	User      *AuthorView `json:"user"`
	CreatedAt time.Time   `json:"createdAt"`
}

// QuestionView is the outward view of a Question with its replies.
type QuestionView struct {
	ID          string      `json:"id"`
	Question    string      `json:"question"`
	Description *string     `json:"description"`
	UserID      string      `json:"userId"`
	User        *AuthorView `json:"user"`
	Replies     []ReplyView `json:"replies"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// QuestionViewOf returns the outward view of q. Question authors carry their
// department, reply authors do not.
func QuestionViewOf(q *Question) QuestionView {
	view := QuestionView{
		ID:          q.ID,
		Question:    q.Question,
		Description: q.Description,
		UserID:      q.UserID,
		Replies:     make([]ReplyView, 0, len(q.Replies)),
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
	if q.User != nil {
		view.User = &AuthorView{ID: q.User.ID, Name: q.User.Name, Department: q.User.Department}
	}
	for _, r := range q.Replies {
		reply := ReplyView{ID: r.ID, Body: r.Body, UserID: r.UserID, CreatedAt: r.CreatedAt}
		if r.User != nil {
			reply.User = &AuthorView{ID: r.User.ID, Name: r.User.Name}
		}
		view.Replies = append(view.Replies, reply)
	}
	return view
}
