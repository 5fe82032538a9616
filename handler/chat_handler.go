package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tawjihai/tawjih-be/service"
	"github.com/tawjihai/tawjih-be/types"
)

type ChatHandler struct {
	assistant *service.AssistantService
}

func NewChatHandler(assistant *service.AssistantService) *ChatHandler {
	return &ChatHandler{assistant: assistant}
}

func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "invalid request body",
		})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "query is required",
		})
		return
	}

	response := h.assistant.Respond(c.Request.Context(), req.Query, req.Language, req.SessionID)
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   response,
	})
}
