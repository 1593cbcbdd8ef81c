package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FollowerController struct {
	fc     FollowerUseCase
	logger *zap.Logger
}

func NewFollowerController(fc FollowerUseCase, logger *zap.Logger) *FollowerController {
	return &FollowerController{fc: fc, logger: logger}
}

func (ctl *FollowerController) FollowUser(c *gin.Context) {
	username, _ := currentUser(c)
	if err := ctl.fc.FollowUser(c.Request.Context(), username, c.Param("username")); err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "followed successfully"})
}

func (ctl *FollowerController) UnfollowUser(c *gin.Context) {
	username, _ := currentUser(c)
	if err := ctl.fc.UnfollowUser(c.Request.Context(), username, c.Param("username")); err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unfollowed successfully"})
}

func (ctl *FollowerController) GetFollowers(c *gin.Context) {
	res, err := ctl.fc.GetFollowers(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *FollowerController) GetFollowing(c *gin.Context) {
	res, err := ctl.fc.GetFollowing(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
