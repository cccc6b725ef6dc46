package stores

import (
	"time"

	"github.com/7ozzam/cohere-toolkit-with-openai/models"
)

// Store abstracts conversation and file persistence.
type Store interface {
	// Conversation operations
	CreateConversation(conversationID, userID, title string) error
	SaveHistory(conversationID, userID string, history []models.ChatMessage) error
	FetchHistory(conversationID string, limit int) ([]models.ChatMessage, error)
	ListConversationsForUser(userID string) ([]ConversationInfo, error)
	DeleteConversation(conversationID, userID string) error
	PruneConversationsBefore(cutoff time.Time) (int64, error)

	// File operations
	SaveFile(file *File) error
	GetFile(fileID, userID string) (*File, error)
	GetFileByName(fileName, userID string) (*File, error)
	GetFilesByIDs(fileIDs []string, userID string) ([]File, error)
	GetFilesByConversation(conversationID, userID string) ([]File, error)
	GetFilesByAgent(agentID, userID string) ([]File, error)
	DeleteFile(fileID, userID string) error

	// Folder operations
	SaveFolder(folder *Folder) error
	GetFoldersByConversation(conversationID, userID string) ([]Folder, error)

	// Connection management
	Connect() error
	Close() error

	// Health check
	Ping() error
}

// StoreConfig holds configuration for database stores.
type StoreConfig struct {
	Type       string            `json:"type"`       // "sqlite", "postgres"
	Connection string            `json:"connection"` // connection string
	Options    map[string]string `json:"options"`    // additional options
}

// NewStoreConfig creates a new store configuration.
func NewStoreConfig(storeType, connection string) *StoreConfig {
	return &StoreConfig{
		Type:       storeType,
		Connection: connection,
		Options:    make(map[string]string),
	}
}

// WithOption adds an option to the store configuration.
func (c *StoreConfig) WithOption(key, value string) *StoreConfig {
	c.Options[key] = value
	return c
}
