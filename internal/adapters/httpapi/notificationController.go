package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationController struct {
	nc     NotificationUseCase
	logger *zap.Logger
}

func NewNotificationController(nc NotificationUseCase, logger *zap.Logger) *NotificationController {
	return &NotificationController{nc: nc, logger: logger}
}

func (ctl *NotificationController) List(c *gin.Context) {
	username, _ := currentUser(c)
	page, size := pageParams(c)
	res, err := ctl.nc.List(c.Request.Context(), username, page, size)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *NotificationController) UnreadCount(c *gin.Context) {
	username, _ := currentUser(c)
	n, err := ctl.nc.UnreadCount(c.Request.Context(), username)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (ctl *NotificationController) MarkRead(c *gin.Context) {
	username, _ := currentUser(c)
	if err := ctl.nc.MarkRead(c.Request.Context(), c.Param("id"), username); err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.Status(http.StatusOK)
}
