package stores

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/7ozzam/cohere-toolkit-with-openai/models"
)

// gormStore implements every Store operation on top of a GORM
// connection. The SQLite and Postgres stores embed it and only differ
// in how they connect.
type gormStore struct {
	db *gorm.DB
}

func (s *gormStore) migrate() error {
	return s.db.AutoMigrate(&Conversation{}, &Message{}, &File{}, &Folder{})
}

// Close closes the database connection.
func (s *gormStore) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive.
func (s *gormStore) Ping() error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateConversation creates a new conversation record.
func (s *gormStore) CreateConversation(conversationID, userID, title string) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	conv := Conversation{
		ConversationID: conversationID,
		UserID:         userID,
		Title:          title,
		MessageCount:   0,
	}
	return s.db.Create(&conv).Error
}

// SaveHistory replaces the stored history of a conversation with the
// given snapshot. The chat loop reports history wholesale on every
// stream-end, so replacement beats appending here.
func (s *gormStore) SaveHistory(conversationID, userID string, history []models.ChatMessage) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}

	var count int64
	if err := s.db.Model(&Conversation{}).Where("conversation_id = ?", conversationID).Count(&count).Error; err != nil {
		log.Printf("Warning: Error checking for conversation %s: %v", conversationID, err)
	} else if count == 0 {
		if err := s.CreateConversation(conversationID, userID, ""); err != nil {
			log.Printf("Warning: Failed to create conversation record for %s: %v", conversationID, err)
		}
	}

	tx := s.db.Begin()
	if err := tx.Where("conversation_id = ?", conversationID).Delete(&Message{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear previous history: %w", err)
	}

	for i, entry := range history {
		parts, err := json.Marshal(entry)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to marshal history entry: %w", err)
		}
		msg := Message{
			ConversationID: conversationID,
			Sequence:       i + 1,
			Role:           string(entry.Role),
			PartsJSON:      string(parts),
		}
		if err := tx.Create(&msg).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to create message record: %w", err)
		}
	}

	if err := tx.Model(&Conversation{}).Where("conversation_id = ?", conversationID).Update("message_count", len(history)).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update conversation message count: %w", err)
	}

	return tx.Commit().Error
}

// FetchHistory retrieves the history of a conversation in sequence
// order. limit caps the number of most recent messages (0 = all).
// The result is run through the sanitizer so truncation can never
// hand the model a broken tool cycle.
func (s *gormStore) FetchHistory(conversationID string, limit int) ([]models.ChatMessage, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	var msgs []Message
	query := s.db.Where("conversation_id = ?", conversationID).Order("sequence ASC")

	if limit > 0 {
		var count int64
		if err := s.db.Model(&Message{}).Where("conversation_id = ?", conversationID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count messages: %w", err)
		}
		if count > int64(limit) {
			query = query.Offset(int(count) - limit)
		}
	}

	if err := query.Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	history := make([]models.ChatMessage, 0, len(msgs))
	for _, msg := range msgs {
		var entry models.ChatMessage
		if err := json.Unmarshal([]byte(msg.PartsJSON), &entry); err != nil {
			log.Printf("Warning: Skipping unreadable history entry %d in %s: %v", msg.Sequence, conversationID, err)
			continue
		}
		history = append(history, entry)
	}

	return SanitizeHistory(history), nil
}

// ListConversationsForUser returns all conversations with details for
// a specific user.
func (s *gormStore) ListConversationsForUser(userID string) ([]ConversationInfo, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	var convs []Conversation
	if err := s.db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&convs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch conversations: %w", err)
	}

	result := make([]ConversationInfo, len(convs))
	for i, c := range convs {
		result[i] = ConversationInfo{
			ConversationID: c.ConversationID,
			UserID:         c.UserID,
			Title:          c.Title,
			MessageCount:   c.MessageCount,
			CreatedAt:      c.CreatedAt.Format(time.RFC3339),
			UpdatedAt:      c.UpdatedAt.Format(time.RFC3339),
		}
	}
	return result, nil
}

// DeleteConversation removes a conversation, its messages and its
// files.
func (s *gormStore) DeleteConversation(conversationID, userID string) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}

	tx := s.db.Begin()
	if err := tx.Where("conversation_id = ? AND user_id = ?", conversationID, userID).Delete(&Conversation{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	if err := tx.Where("conversation_id = ?", conversationID).Delete(&Message{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete conversation messages: %w", err)
	}
	if err := tx.Where("conversation_id = ? AND user_id = ?", conversationID, userID).Delete(&File{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete conversation files: %w", err)
	}
	return tx.Commit().Error
}

// PruneConversationsBefore removes conversations not touched since
// the cutoff, together with their messages. Returns how many
// conversations went away.
func (s *gormStore) PruneConversationsBefore(cutoff time.Time) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database connection is nil")
	}

	var stale []Conversation
	if err := s.db.Where("updated_at < ?", cutoff).Find(&stale).Error; err != nil {
		return 0, fmt.Errorf("failed to find stale conversations: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	ids := make([]string, len(stale))
	for i, c := range stale {
		ids[i] = c.ConversationID
	}

	tx := s.db.Begin()
	if err := tx.Where("conversation_id IN ?", ids).Delete(&Message{}).Error; err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to prune messages: %w", err)
	}
	result := tx.Where("conversation_id IN ?", ids).Delete(&Conversation{})
	if result.Error != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to prune conversations: %w", result.Error)
	}
	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return result.RowsAffected, nil
}

// SaveFile stores or updates an uploaded file.
func (s *gormStore) SaveFile(file *File) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	return s.db.Save(file).Error
}

// GetFile fetches one file by its id, scoped to the user.
func (s *gormStore) GetFile(fileID, userID string) (*File, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	var file File
	if err := s.db.Where("file_id = ? AND user_id = ?", fileID, userID).First(&file).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch file %s: %w", fileID, err)
	}
	return &file, nil
}

// GetFileByName fetches one file by name, scoped to the user. Names
// are not unique; the most recent upload wins.
func (s *gormStore) GetFileByName(fileName, userID string) (*File, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	var file File
	if err := s.db.Where("file_name = ? AND user_id = ?", fileName, userID).Order("updated_at DESC").First(&file).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch file %q: %w", fileName, err)
	}
	return &file, nil
}

// GetFilesByIDs fetches the given files, scoped to the user.
func (s *gormStore) GetFilesByIDs(fileIDs []string, userID string) ([]File, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if len(fileIDs) == 0 {
		return []File{}, nil
	}
	var files []File
	if err := s.db.Where("file_id IN ? AND user_id = ?", fileIDs, userID).Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch files: %w", err)
	}
	return files, nil
}

// GetFilesByConversation lists the files attached to a conversation.
func (s *gormStore) GetFilesByConversation(conversationID, userID string) ([]File, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	var files []File
	if err := s.db.Where("conversation_id = ? AND user_id = ?", conversationID, userID).Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch conversation files: %w", err)
	}
	return files, nil
}

// GetFilesByAgent lists the files attached to an agent.
func (s *gormStore) GetFilesByAgent(agentID, userID string) ([]File, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	var files []File
	if err := s.db.Where("agent_id = ? AND user_id = ?", agentID, userID).Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch agent files: %w", err)
	}
	return files, nil
}

// DeleteFile removes one file, scoped to the user.
func (s *gormStore) DeleteFile(fileID, userID string) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	return s.db.Where("file_id = ? AND user_id = ?", fileID, userID).Delete(&File{}).Error
}

// SaveFolder stores or updates a folder.
func (s *gormStore) SaveFolder(folder *Folder) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	return s.db.Save(folder).Error
}

// GetFoldersByConversation lists a conversation's folders with their
// files preloaded.
func (s *gormStore) GetFoldersByConversation(conversationID, userID string) ([]Folder, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	var folders []Folder
	if err := s.db.Preload("Files").Where("conversation_id = ? AND user_id = ?", conversationID, userID).Find(&folders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch folders: %w", err)
	}
	return folders, nil
}
