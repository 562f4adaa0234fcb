package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/sleepscope/internal"
	"github.com/yourname/sleepscope/internal/response"
)

// HandleError logs err with the request id. Only 400 responses echo err to
// the client; everything else carries msg alone.
func HandleError(c *gin.Context, logger internal.Logger, err error, status int, msg string) {
	requestID := c.GetString("request_id")
	logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	var resp response.APIResponse
	switch status {
	case 400:
		resp = response.BadRequest(msg + ": " + err.Error())
	case 404:
		resp = response.NotFound(msg)
	case 409:
		resp = response.Conflict(msg)
	case 500:
		resp = response.InternalError(msg)
	default:
		resp = response.NewAppError(status, msg)
	}
	c.JSON(status, resp)
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Infof("[request_id=%s] Success", requestID)
	c.JSON(200, response.Success(data, meta))
}
