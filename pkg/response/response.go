package response

import (
	"net/http"

	"basket-backend/pkg/errs"
	"github.com/gin-gonic/gin"
)

const serverErrorMessage = "Server error"

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// WriteErrorResponse maps err to its status. Known errors answer with their
// own message and the wrapped context as details. Anything else is a 500
// carrying the raw error text.
func WriteErrorResponse(c *gin.Context, err error) {
	resp := ErrorResponse{}

	sentinel := errs.Sentinel(err)
	switch {
	case sentinel == nil:
		resp.Error = serverErrorMessage
		resp.Details = err.Error()
	case sentinel == err:
		resp.Error = err.Error()
	default:
		resp.Error = sentinel.Error()
		resp.Details = err.Error()
	}

	c.AbortWithStatusJSON(errs.GetErrorStatusCode(err), resp)
}

// WriteClientError answers 400 with a fixed message.
func WriteClientError(c *gin.Context, message string, cause error) {
	resp := ErrorResponse{Error: message}
	if cause != nil {
		resp.Details = cause.Error()
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}

func WriteMessage(c *gin.Context, status int, message string) {
	c.JSON(status, MessageResponse{Message: message})
}
