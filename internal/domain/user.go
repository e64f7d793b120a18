package domain

import "time"

// DefaultLanguage is assigned to every user at first contact and is the last
// link of every locale fallback chain.
const DefaultLanguage = "en"

// User represents one Telegram identity known to the platform. The id is
// assigned by Telegram and never changes; preferred_language is the only
// field the platform mutates on its own.
type User struct {
	ID                      int64     `json:"id"`
	IsBot                   bool      `json:"isBot"`
	FirstName               string    `json:"firstName"`
	LastName                string    `json:"lastName,omitempty"`
	Username                string    `json:"username,omitempty"`
	LanguageCode            string    `json:"languageCode,omitempty"`
	IsPremium               bool      `json:"isPremium,omitempty"`
	AddedToAttachmentMenu   bool      `json:"addedToAttachmentMenu,omitempty"`
	CanJoinGroups           bool      `json:"canJoinGroups,omitempty"`
	CanReadAllGroupMessages bool      `json:"canReadAllGroupMessages,omitempty"`
	SupportsInlineQueries   bool      `json:"supportsInlineQueries,omitempty"`
	PreferredLanguage       string    `json:"preferredLanguage"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

// UserPayload is the platform-sourced identity snapshot accepted by the
// findOrCreate operation. It deliberately excludes preferredLanguage and the
// server-assigned timestamps: an upsert overwrites every field listed here
// and nothing else.
type UserPayload struct {
	ID                      int64  `json:"id" validate:"required,gt=0"`
	IsBot                   bool   `json:"isBot"`
	FirstName               string `json:"firstName" validate:"required"`
	LastName                string `json:"lastName,omitempty"`
	Username                string `json:"username,omitempty"`
	LanguageCode            string `json:"languageCode,omitempty"`
	IsPremium               bool   `json:"isPremium,omitempty"`
	AddedToAttachmentMenu   bool   `json:"addedToAttachmentMenu,omitempty"`
	CanJoinGroups           bool   `json:"canJoinGroups,omitempty"`
	CanReadAllGroupMessages bool   `json:"canReadAllGroupMessages,omitempty"`
	SupportsInlineQueries   bool   `json:"supportsInlineQueries,omitempty"`
}
