package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"prolearn/internal/adapters/database"
	"prolearn/internal/adapters/filestore"
	"prolearn/internal/adapters/memory"
	followerapp "prolearn/internal/core/follower/service"
	notificationapp "prolearn/internal/core/notification/service"
	postapp "prolearn/internal/core/post/service"
	userapp "prolearn/internal/core/user/service"
	"prolearn/internal/testutil"
	"prolearn/internal/workers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiHarness struct {
	t      *testing.T
	router *gin.Engine
	queue  *memory.NotificationQueue
	notifs *notificationapp.NotificationService
}

func newHarness(t *testing.T) *apiHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	key := []byte("test-key")

	store, err := filestore.NewMediaStore(filepath.Join(t.TempDir(), "media"), nil)
	require.NoError(t, err)
	userRepo := database.NewUserRepositoryDatabase(db)
	queue := memory.NewNotificationQueue(64)

	notifSvc := notificationapp.NewNotificationService(database.NewNotificationRepositoryDatabase(db), userRepo, queue, nil)
	userSvc := userapp.NewUserService(userRepo, key, nil)
	postSvc := postapp.NewPostService(database.NewTxRunner(db), database.NewPostRepositoryDatabase(db), userRepo, store, notifSvc, nil, nil)
	followerSvc := followerapp.NewFollowerService(database.NewFollowerRepositoryDatabase(db), userRepo, notifSvc, nil)

	r := SetupRoutes(RouterConfig{JWTSecret: key, MaxUploadBytes: 1 << 20}, userSvc, postSvc, followerSvc, notifSvc)
	return &apiHarness{t: t, router: r, queue: queue, notifs: notifSvc}
}

func (h *apiHarness) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	h.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *apiHarness) doJSON(method, path, token string, payload any) *httptest.ResponseRecorder {
	h.t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(h.t, err)
	return h.do(method, path, token, bytes.NewReader(raw), "application/json")
}

// signup ثبت‌نام و ورود و برگرداندن توکن
func (h *apiHarness) signup(username string) string {
	h.t.Helper()
	w := h.doJSON(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username, "email": username + "@example.com", "password": "secret1",
	})
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())

	w = h.doJSON(http.MethodPost, "/api/auth/login", "", map[string]string{"username": username, "password": "secret1"})
	require.Equal(h.t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.Token
}

type filePart struct {
	field, name, contentType, body string
}

func multipartBody(t *testing.T, post map[string]string, files []filePart, fields map[string][]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	if post != nil {
		raw, err := json.Marshal(post)
		require.NoError(t, err)
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="post"; filename="post.json"`)
		h.Set("Content-Type", "application/json")
		pw, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(raw)
		require.NoError(t, err)
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		h.Set("Content-Type", f.contentType)
		pw, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write([]byte(f.body))
		require.NoError(t, err)
	}
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

type postView struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Owner         string `json:"owner"`
	LikesCount    int    `json:"likesCount"`
	CommentsCount int    `json:"commentsCount"`
	Media         []struct {
		ID   string `json:"id"`
		URL  string `json:"url"`
		Type string `json:"type"`
	} `json:"media"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (h *apiHarness) createPost(token string, files ...filePart) postView {
	h.t.Helper()
	body, ct := multipartBody(h.t, map[string]string{"title": "T", "description": "D", "category": "TECH"}, files, nil)
	w := h.do(http.MethodPost, "/api/posts", token, body, ct)
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[postView](h.t, w)
}

func TestAPI_CreatePostScenario(t *testing.T) {
	h := newHarness(t)
	alice := h.signup("alice")

	p := h.createPost(alice)
	assert.Equal(t, "alice", p.Owner)
	assert.Zero(t, p.LikesCount)
	assert.Zero(t, p.CommentsCount)
	assert.NotNil(t, p.Media)
	assert.Empty(t, p.Media)

	w := h.do(http.MethodGet, "/api/posts/"+p.ID, "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"media":[]`)
}

func TestAPI_CreatePostRequiresAuthAndValidInput(t *testing.T) {
	h := newHarness(t)
	alice := h.signup("alice")

	body, ct := multipartBody(t, map[string]string{"title": "T", "category": "TECH"}, nil, nil)
	w := h.do(http.MethodPost, "/api/posts", "", body, ct)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	body, ct = multipartBody(t, map[string]string{"title": "", "category": "TECH"}, nil, nil)
	w = h.do(http.MethodPost, "/api/posts", alice, body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"validation"`)

	body, ct = multipartBody(t, nil, nil, nil)
	w = h.do(http.MethodPost, "/api/posts", alice, body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_CreatePostBodyTooLarge(t *testing.T) {
	h := newHarness(t)
	alice := h.signup("alice")

	big := filePart{field: "media", name: "big.png", contentType: "image/png", body: strings.Repeat("x", 2<<20)}
	body, ct := multipartBody(t, map[string]string{"title": "T", "category": "TECH"}, []filePart{big}, nil)
	w := h.do(http.MethodPost, "/api/posts", alice, body, ct)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"code":"too_large"`)

	w = h.do(http.MethodGet, "/api/posts", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalElements":0`)
}

func TestAPI_MediaRoundTrip(t *testing.T) {
	h := newHarness(t)
	alice := h.signup("alice")

	p := h.createPost(alice, filePart{"media", "clip.mp4", "video/mp4", "video-bytes"})
	require.Len(t, p.Media, 1)
	assert.Equal(t, "VIDEO", p.Media[0].Type)

	w := h.do(http.MethodGet, "/api/posts/media/"+p.Media[0].URL, "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "video/mp4", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "inline")
	assert.Equal(t, "video-bytes", w.Body.String())

	w = h.do(http.MethodGet, "/api/posts/media/nonexistent.png", "", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_UpdatePost(t *testing.T) {
	h := newHarness(t)
	alice := h.signup("alice")
	bob := h.signup("bob")
	p := h.createPost(alice,
		filePart{"media", "a.png", "image/png", "a"},
		filePart{"media", "b.png", "image/png", "b"},
	)

	body, ct := multipartBody(t, map[string]string{"title": "hacked", "category": "OTHER"}, nil, nil)
	w := h.do(http.MethodPut, "/api/posts/"+p.ID, bob, body, ct)
	assert.Equal(t, http.StatusForbidden, w.Code)

	body, ct = multipartBody(t, map[string]string{"title": "T2", "category": "CODING"},
		[]filePart{{"newMedia", "c.gif", "image/gif", "c"}},
		map[string][]string{"retainMediaIds": {p.Media[1].ID}})
	w = h.do(http.MethodPut, "/api/posts/"+p.ID, alice, body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[postView](t, w)
	assert.Equal(t, "T2", updated.Title)
	require.Len(t, updated.Media, 2)
	assert.Equal(t, p.Media[1].ID, updated.Media[0].ID)

	body, ct = multipartBody(t, map[string]string{"title": "T3", "category": "CODING"}, nil, nil)
	w = h.do(http.MethodPut, "/api/posts/"+p.ID, alice, body, ct)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[postView](t, w).Media)

	body, ct = multipartBody(t, map[string]string{"title": "T", "category": "CODING"}, nil, nil)
	w = h.do(http.MethodPut, "/api/posts/00000000-0000-4000-8000-000000000000", alice, body, ct)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_LikesCommentsAndDelete(t *testing.T) {
	h := newHarness(t)
	alice := h.signup("alice")
	bob := h.signup("bob")
	carol := h.signup("carol")
	p := h.createPost(alice)

	for i := 0; i < 2; i++ {
		w := h.do(http.MethodPost, "/api/posts/"+p.ID+"/like", bob, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := h.doJSON(http.MethodPost, "/api/posts/"+p.ID+"/comments", bob, map[string]string{"content": "great"})
	require.Equal(t, http.StatusCreated, w.Code)
	comment := decode[struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}](t, w)
	assert.Equal(t, "bob", comment.Username)

	got := decode[postView](t, h.do(http.MethodGet, "/api/posts/"+p.ID, "", nil, ""))
	assert.Equal(t, 1, got.LikesCount)
	assert.Equal(t, 1, got.CommentsCount)

	w = h.doJSON(http.MethodPost, "/api/posts/"+p.ID+"/comments", bob, map[string]string{"content": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodDelete, "/api/posts/"+p.ID+"/comments/"+comment.ID, carol, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = h.do(http.MethodDelete, "/api/posts/"+p.ID+"/comments/"+comment.ID, alice, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodDelete, "/api/posts/"+p.ID+"/like", bob, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = h.do(http.MethodDelete, "/api/posts/"+p.ID+"/like", bob, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodDelete, "/api/posts/"+p.ID, bob, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = h.do(http.MethodDelete, "/api/posts/"+p.ID, alice, nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = h.do(http.MethodGet, "/api/posts/"+p.ID, "", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = h.do(http.MethodPost, "/api/posts/"+p.ID+"/like", bob, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_ListingAndCategory(t *testing.T) {
	h := newHarness(t)
	alice := h.signup("alice")
	for i := 0; i < 3; i++ {
		h.createPost(alice)
	}

	w := h.do(http.MethodGet, "/api/posts?page=0&size=2", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[struct {
		Content       []postView `json:"content"`
		TotalElements int64      `json:"totalElements"`
		TotalPages    int        `json:"totalPages"`
		Size          int        `json:"size"`
	}](t, w)
	assert.Len(t, page.Content, 2)
	assert.EqualValues(t, 3, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)

	w = h.do(http.MethodGet, "/api/posts/category/TECH", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = h.do(http.MethodGet, "/api/posts/category/NOPE", "", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodGet, "/api/users/alice/posts", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = h.do(http.MethodGet, "/api/users/ghost/posts", "", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_FollowFeedAndNotifications(t *testing.T) {
	h := newHarness(t)
	alice := h.signup("alice")
	bob := h.signup("bob")
	h.createPost(bob)

	w := h.do(http.MethodGet, "/api/feed", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(http.MethodPost, "/api/users/alice/follow", alice, nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = h.do(http.MethodPost, "/api/users/bob/follow", alice, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, "/api/feed", alice, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"owner":"bob"`)

	w = h.do(http.MethodGet, "/api/users/bob/followers", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)

	// worker اعلان FOLLOW را از صف ثبت می‌کند
	ctx, cancel := context.WithCancel(context.Background())
	worker := workers.NewNotificationWorker(h.queue, h.notifs, nil)
	worker.PollTimeout = 10 * time.Millisecond
	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()
	assert.Eventually(t, func() bool {
		w := h.do(http.MethodGet, "/api/notifications/unread-count", bob, nil, "")
		return w.Code == http.StatusOK && w.Body.String() == `{"count":1}`
	}, 2*time.Second, 20*time.Millisecond)
	cancel()
	<-done

	w = h.do(http.MethodGet, "/api/notifications", bob, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Content []struct {
			ID    string `json:"id"`
			Type  string `json:"type"`
			Actor string `json:"actor"`
		} `json:"content"`
	}](t, w)
	require.Len(t, list.Content, 1)
	assert.Equal(t, "FOLLOW", list.Content[0].Type)
	assert.Equal(t, "alice", list.Content[0].Actor)

	w = h.do(http.MethodPut, "/api/notifications/"+list.Content[0].ID+"/read", alice, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = h.do(http.MethodPut, "/api/notifications/"+list.Content[0].ID+"/read", bob, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPI_RegisterConflictAndBadLogin(t *testing.T) {
	h := newHarness(t)
	h.signup("alice")

	w := h.doJSON(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "email": "x@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = h.doJSON(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(http.MethodGet, "/healthz", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
