package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registration-backend/internal/features/user/models"
	"registration-backend/internal/features/user/repository"
	"registration-backend/internal/features/user/service"
	"registration-backend/internal/platform/uploads"
)

type memoryRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: map[int64]*models.User{}, nextID: 1}
}

func (m *memoryRepo) Create(_ context.Context, user *models.User) error {
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	m.nextID++
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memoryRepo) List(_ context.Context) ([]models.User, error) {
	out := []models.User{}
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memoryRepo) Update(_ context.Context, id int64, name, phone string) error {
	if u, ok := m.users[id]; ok {
		u.Name, u.Phone = name, phone
	}
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(m.users, id)
	return u, nil
}

// The stored profile_picture path must resolve through the static route
// the way the frontend builds URLs, for any configured uploads directory,
// and the served bytes must match the submitted file.
func TestCreatedPictureServedFromStaticRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Deliberately not the default "uploads" relative dir.
	contentDir := filepath.Join(t.TempDir(), "content")
	store, err := uploads.New(contentDir)
	require.NoError(t, err)

	svc := service.NewUserService(newMemoryRepo(), store, nil, time.Second)

	router := gin.New()
	NewUserHandler(svc).RegisterRoutes(router.Group("/api"))
	router.Static("/"+uploads.URLPrefix, contentDir)

	avatar := []byte("\x89PNG fake avatar bytes")
	body, contentType := multipartBody(t, map[string]string{
		"name":  "Ada",
		"email": "ada@example.com",
	}, "profilePicture", "avatar.png", avatar)

	req := httptest.NewRequest(http.MethodPost, "/api/users", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var users []models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 1)
	require.NotEmpty(t, users[0].ProfilePicture)

	// Frontend-style URL: "/" + stored path.
	req = httptest.NewRequest(http.MethodGet, "/"+users[0].ProfilePicture, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, avatar, rec.Body.Bytes())

	// Deleting the user removes the file behind that URL.
	req = httptest.NewRequest(http.MethodDelete, "/api/users/1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	_, statErr := os.Stat(filepath.Join(contentDir, filepath.Base(users[0].ProfilePicture)))
	assert.True(t, os.IsNotExist(statErr))
}
