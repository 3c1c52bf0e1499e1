package api

import (
	"strconv"

	"github.com/gearup-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// getUserID 从上下文读取已认证用户 ID
func getUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		respondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return 0, false
	}
	uid, ok := value.(uint)
	if !ok || uid == 0 {
		respondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return 0, false
	}
	return uid, true
}

// isAdmin 从上下文读取管理员标记
func isAdmin(c *gin.Context) bool {
	value, exists := c.Get("is_admin")
	if !exists {
		return false
	}
	admin, ok := value.(bool)
	return ok && admin
}

// parseUintParam 解析路径参数中的正整数 ID
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		respondError(c, response.CodeBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return uint(parsed), true
}
