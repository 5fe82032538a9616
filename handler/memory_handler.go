package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tawjihai/tawjih-be/service"
	"github.com/tawjihai/tawjih-be/types"
)

type MemoryHandler struct {
	assistant *service.AssistantService
}

func NewMemoryHandler(assistant *service.AssistantService) *MemoryHandler {
	return &MemoryHandler{assistant: assistant}
}

// HandleStatus reports the stored history for ?session_id=.
func (h *MemoryHandler) HandleStatus(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "session_id is required",
		})
		return
	}

	status, err := h.assistant.MemoryStatus(sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, types.DataResponse{
				Status:  "error",
				Message: "session not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   status,
	})
}

// HandleClear drops a session's conversation history.
func (h *MemoryHandler) HandleClear(c *gin.Context) {
	var req types.ClearMemoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "session_id is required",
		})
		return
	}

	result := h.assistant.ClearMemory(req.SessionID)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusNotFound
	}
	c.JSON(status, types.DataResponse{
		Status: "success",
		Data:   result,
	})
}
