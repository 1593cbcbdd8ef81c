package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"prolearn/internal/adapters/filestore"
	"prolearn/internal/apperr"
	mediaPort "prolearn/internal/ports/media"
	postPort "prolearn/internal/ports/post"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostController struct {
	pc             PostUseCase
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewPostController(pc PostUseCase, maxUploadBytes int64, logger *zap.Logger) *PostController {
	return &PostController{pc: pc, maxUploadBytes: maxUploadBytes, logger: logger}
}

func (ctl *PostController) GetAllPosts(c *gin.Context) {
	page, size := pageParams(c)
	res, err := ctl.pc.GetAllPosts(c.Request.Context(), page, size)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) GetPostByID(c *gin.Context) {
	res, err := ctl.pc.GetPostByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) GetPostsByCategory(c *gin.Context) {
	page, size := pageParams(c)
	res, err := ctl.pc.GetPostsByCategory(c.Request.Context(), c.Param("category"), page, size)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) GetPostsByOwner(c *gin.Context) {
	page, size := pageParams(c)
	res, err := ctl.pc.GetPostsByOwner(c.Request.Context(), c.Param("username"), page, size)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) GetFollowingFeed(c *gin.Context) {
	username, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context", "code": "unauthenticated"})
		return
	}
	page, size := pageParams(c)
	res, err := ctl.pc.GetFollowingFeed(c.Request.Context(), username, page, size)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CreatePost فرم multipart با بخش post (JSON) و فایل‌های media
func (ctl *PostController) CreatePost(c *gin.Context) {
	username, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context", "code": "unauthenticated"})
		return
	}
	form, err := ctl.multipartForm(c)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	in, err := decodePostPart(form)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	uploads, closeAll, err := openUploads(form.File["media"])
	defer closeAll()
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := ctl.pc.CreatePost(c.Request.Context(), in, username, uploads)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// UpdatePost فرم multipart با post، newMedia و retainMediaIds
func (ctl *PostController) UpdatePost(c *gin.Context) {
	username, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context", "code": "unauthenticated"})
		return
	}
	form, err := ctl.multipartForm(c)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	in, err := decodePostPart(form)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	uploads, closeAll, err := openUploads(form.File["newMedia"])
	defer closeAll()
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := ctl.pc.UpdatePost(c.Request.Context(), c.Param("id"), in, uploads, retainIDs(c, form), username)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) DeletePost(c *gin.Context) {
	username, _ := currentUser(c)
	if err := ctl.pc.DeletePost(c.Request.Context(), c.Param("id"), username); err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ctl *PostController) LikePost(c *gin.Context) {
	username, _ := currentUser(c)
	if err := ctl.pc.LikePost(c.Request.Context(), c.Param("id"), username); err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.Status(http.StatusOK)
}

func (ctl *PostController) UnlikePost(c *gin.Context) {
	username, _ := currentUser(c)
	if err := ctl.pc.UnlikePost(c.Request.Context(), c.Param("id"), username); err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.Status(http.StatusOK)
}

func (ctl *PostController) AddComment(c *gin.Context) {
	username, _ := currentUser(c)
	var req postPort.CommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input")
		return
	}
	res, err := ctl.pc.AddComment(c.Request.Context(), c.Param("id"), req, username)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *PostController) DeleteComment(c *gin.Context) {
	username, _ := currentUser(c)
	if err := ctl.pc.DeleteComment(c.Request.Context(), c.Param("id"), c.Param("commentId"), username); err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.Status(http.StatusOK)
}

// GetMedia فایل را inline با content type بر اساس پسوند برمی‌گرداند
func (ctl *PostController) GetMedia(c *gin.Context) {
	f, err := ctl.pc.LoadMedia(c.Request.Context(), c.Param("filename"))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	defer f.Body.Close()

	c.DataFromReader(http.StatusOK, f.Size, filestore.ContentType(f.Name), f.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", f.Name),
	})
}

func (ctl *PostController) multipartForm(c *gin.Context) (*multipart.Form, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ctl.maxUploadBytes)
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperr.New(apperr.KindTooLarge, fmt.Sprintf("request body exceeds %d bytes", ctl.maxUploadBytes), nil)
		}
		return nil, apperr.Invalid("multipart form expected")
	}
	return form, nil
}

// decodePostPart بخش post می‌تواند مقدار فرم یا فایل JSON باشد
func decodePostPart(form *multipart.Form) (postPort.PostInput, error) {
	var in postPort.PostInput
	var raw []byte
	switch {
	case len(form.Value["post"]) > 0:
		raw = []byte(form.Value["post"][0])
	case len(form.File["post"]) > 0:
		f, err := form.File["post"][0].Open()
		if err != nil {
			return in, errors.New("could not read post part")
		}
		defer f.Close()
		if raw, err = io.ReadAll(io.LimitReader(f, 1<<20)); err != nil {
			return in, errors.New("could not read post part")
		}
	default:
		return in, errors.New("post part is required")
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return in, errors.New("post part must be valid JSON")
	}
	return in, nil
}

func openUploads(headers []*multipart.FileHeader) ([]mediaPort.Upload, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}
	uploads := make([]mediaPort.Upload, 0, len(headers))
	for _, h := range headers {
		if h.Size == 0 && h.Filename == "" {
			continue
		}
		f, err := h.Open()
		if err != nil {
			return nil, closeAll, fmt.Errorf("could not read file %q", h.Filename)
		}
		opened = append(opened, f)
		uploads = append(uploads, mediaPort.Upload{
			Filename:    h.Filename,
			ContentType: h.Header.Get("Content-Type"),
			Body:        f,
		})
	}
	return uploads, closeAll, nil
}

// retainIDs اگر retainMediaIds اصلاً ارسال نشده باشد nil برمی‌گرداند
func retainIDs(c *gin.Context, form *multipart.Form) []string {
	values, inForm := form.Value["retainMediaIds"]
	query, inQuery := c.GetQueryArray("retainMediaIds")
	if !inForm && !inQuery {
		return nil
	}
	ids := []string{}
	for _, v := range append(append([]string{}, values...), query...) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				ids = append(ids, part)
			}
		}
	}
	return ids
}
