package httpapi

import (
	"net/http"
	"strconv"

	"prolearn/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// respondError خطای برنامه را به بدنه {"error","code"} با status مناسب تبدیل می‌کند
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	status := statusFor(kind)
	msg := apperr.MessageOf(err)
	if status == http.StatusInternalServerError {
		logger.Error("❌ request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("kind", string(kind)),
			zap.Error(err))
		msg = "internal server error"
		if kind == apperr.KindStorage {
			msg = "storage error"
		}
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "code": string(kind)})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg, "code": string(apperr.KindValidation)})
}

// pageParams پارامترهای page و size؛ مقادیر نامعتبر به پیش‌فرض برمی‌گردند
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "0"))
	return page, size
}
