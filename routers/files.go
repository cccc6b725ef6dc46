package routers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/7ozzam/cohere-toolkit-with-openai/stores"
)

// maxUploadBytes caps uploaded file size at 16 MiB.
const maxUploadBytes = 16 << 20

// handleUploadFile stores an uploaded text document so the file tools
// can read it. Accepts multipart form field "file" plus optional
// conversation_id and agent_id fields.
func (deps Dependencies) handleUploadFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field: " + err.Error()})
		return
	}
	if header.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds the upload limit"})
		return
	}

	src, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	file := &stores.File{
		FileID:         uuid.New().String(),
		UserID:         userID(c),
		ConversationID: c.PostForm("conversation_id"),
		AgentID:        c.PostForm("agent_id"),
		FileName:       header.Filename,
		FileContent:    string(content),
		FileSummary:    c.PostForm("file_summary"),
	}
	if err := deps.Store.SaveFile(file); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"file_id":    file.FileID,
		"file_name":  file.FileName,
		"word_count": file.WordCount,
	})
}

// handleListFiles lists the files attached to a conversation.
func (deps Dependencies) handleListFiles(c *gin.Context) {
	conversationID := c.Param("conversationID")
	files, err := deps.Store.GetFilesByConversation(conversationID, userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	summaries := make([]gin.H, len(files))
	for i, file := range files {
		summaries[i] = gin.H{
			"file_id":    file.FileID,
			"file_name":  file.FileName,
			"word_count": file.WordCount,
		}
	}
	c.JSON(http.StatusOK, gin.H{"files": summaries})
}

// handleDeleteFile removes one uploaded file.
func (deps Dependencies) handleDeleteFile(c *gin.Context) {
	fileID := c.Param("fileID")
	if err := deps.Store.DeleteFile(fileID, userID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": fileID})
}
