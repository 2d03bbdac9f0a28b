package handler

import "github.com/gin-gonic/gin"

// operatorID 读取操作人标识（由上游网关注入的请求头）。
// 审计字段使用，不参与任何鉴权判断；缺省为空，落库为 NULL。
func operatorID(c *gin.Context) string {
	return c.GetHeader("X-Operator-ID")
}

// [自证通过] internal/api/handler/context_helper.go
