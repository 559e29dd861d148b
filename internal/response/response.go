package response

import (
	apperrors "phonics-audio/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Response is the standard API response structure
type Response struct {
	Error  int32  `json:"error"`            // Error code (0 = success)
	Msg    string `json:"msg"`              // Human-readable message
	Detail string `json:"detail,omitempty"` // Additional error details
	Data   any    `json:"data"`             // Response payload
}

// Success returns a success response with data
func Success(c *gin.Context, data any) {
	c.JSON(200, Response{
		Error: 0,
		Msg:   "Success",
		Data:  data,
	})
}

// FromError converts an error to a Response. Errors that are not
// AppErrors get CodeUnknown.
func FromError(err error) Response {
	if err == nil {
		return Response{Msg: "Success"}
	}

	var detail string
	if appErr, ok := err.(*apperrors.AppError); ok {
		detail = appErr.Detail
	}
	return Response{
		Error:  int32(apperrors.GetCode(err)),
		Msg:    apperrors.GetMessage(err),
		Detail: detail,
	}
}

// ErrorResponse sends an error response with the HTTP status that fits
// its code.
func ErrorResponse(c *gin.Context, err error) {
	c.JSON(statusOf(err), FromError(err))
}

func statusOf(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.CodeInvalidParams:
		return 400
	case apperrors.CodeNotFound, apperrors.CodeFileNotFound:
		return 404
	case apperrors.CodeProviderNotConfig:
		return 503
	default:
		return 500
	}
}
