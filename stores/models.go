package stores

import (
	"strings"

	"gorm.io/gorm"
)

// Conversation holds metadata for a chat conversation.
type Conversation struct {
	gorm.Model
	ConversationID string `gorm:"uniqueIndex;not null"`
	UserID         string `gorm:"index;not null"`
	Title          string `gorm:"type:text"`
	MessageCount   int    `gorm:"default:0"`
	Messages       []Message `gorm:"foreignKey:ConversationID;references:ConversationID"`
}

// Message is one history entry of a conversation. PartsJSON holds the
// JSON-marshaled chat message (role, text, tool calls, tool results).
type Message struct {
	gorm.Model
	ConversationID string `gorm:"index;not null"`
	Sequence       int    `gorm:"not null"`
	Role           string `gorm:"not null"`
	PartsJSON      string `gorm:"type:json"`
}

// File is an uploaded document a conversation or agent can read
// through the file tools.
type File struct {
	gorm.Model
	FileID         string `gorm:"uniqueIndex;not null"`
	UserID         string `gorm:"index"`
	ConversationID string `gorm:"index"`
	AgentID        string `gorm:"index"`
	FolderID       *uint  `gorm:"index"`
	FileName       string `gorm:"not null"`
	Path           string
	FileContent    string `gorm:"type:text"`
	FileSummary    string `gorm:"type:text"`
	WordCount      int    `gorm:"default:0"`

	// FolderName is filled in when files are gathered through their
	// folder; it is not persisted on the file row itself.
	FolderName string `gorm:"-"`
}

// BeforeSave fills in the word count when the caller did not.
func (f *File) BeforeSave(tx *gorm.DB) error {
	if f.WordCount == 0 && f.FileContent != "" {
		f.WordCount = len(strings.Fields(f.FileContent))
	}
	return nil
}

// Folder groups files within a conversation.
type Folder struct {
	gorm.Model
	FolderID       string `gorm:"uniqueIndex;not null"`
	UserID         string `gorm:"index"`
	ConversationID string `gorm:"index"`
	Name           string `gorm:"not null"`
	Files          []File `gorm:"foreignKey:FolderID"`
}

// ConversationInfo holds basic conversation metadata for listing.
type ConversationInfo struct {
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
	Title          string `json:"title"`
	MessageCount   int    `json:"message_count"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}
