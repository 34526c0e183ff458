package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pdf-rag-platform/internal/logger"
	"pdf-rag-platform/models"
	"pdf-rag-platform/services"
	"pdf-rag-platform/utils"
)

// HandleChat answers a question against the requested document scopes.
func HandleChat(query *services.QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid chat request", err.Error())
			return
		}

		answer, err := query.Answer(c.Request.Context(), req)
		if err != nil {
			if rejection, ok := services.IsPolicyRejection(err); ok {
				utils.RespondWithPolicyRejection(c, rejection.Message, rejection.Entities)
				return
			}
			logger.Error("chat request failed", "error", err)
			utils.RespondWithInternalError(c, "Failed to answer the question", nil)
			return
		}

		c.JSON(http.StatusOK, gin.H{"answer": answer})
	}
}

// HandleSummary describes everything indexed under the given scopes.
func HandleSummary(query *services.QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SummaryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid summary request", err.Error())
			return
		}

		summary, err := query.Summarize(c.Request.Context(), req.ScopeIDs)
		if err != nil {
			logger.Error("summary request failed", "error", err)
			utils.RespondWithInternalError(c, "Failed to summarize documents", nil)
			return
		}

		c.JSON(http.StatusOK, gin.H{"summary": summary})
	}
}
