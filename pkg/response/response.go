// Package response 统一的 HTTP 响应结构
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应体
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应，HTTP 状态码 500
func Error(c *gin.Context, message string) {
	ErrorWithStatus(c, http.StatusInternalServerError, message, nil)
}

// ErrorWithStatus 指定 HTTP 状态码的错误响应
// data 可携带结构化的错误明细（如校验失败列表）。
func ErrorWithStatus(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{
		Code:    status,
		Message: message,
		Data:    data,
	})
}
