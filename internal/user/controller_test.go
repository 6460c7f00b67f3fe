package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"credit_scoring/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "user-controller-test-secret"

// MockUserService is a mock implementation of UserServiceInterface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(name, email, password string) (int, error) {
	args := m.Called(name, email, password)
	return args.Int(0), args.Error(1)
}

func (m *MockUserService) Login(email, password, jwtSecret string) (*auth.TokenPair, *User, error) {
	args := m.Called(email, password, jwtSecret)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*auth.TokenPair), args.Get(1).(*User), args.Error(2)
}

func (m *MockUserService) GetUserByID(id int) (*User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func setupUserRouter(service UserServiceInterface) (*gin.Engine, *UserController) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller := NewUserController(service, testJWTSecret)
	return router, controller
}

func TestSignup_Success(t *testing.T) {
	mockService := new(MockUserService)
	router, controller := setupUserRouter(mockService)

	mockService.On("Register", "Marie Dupont", "marie@example.com", "s3cret-pass").Return(12, nil)

	router.POST("/signup", controller.Signup)

	body := `{"name":"Marie Dupont","email":"marie@example.com","password":"s3cret-pass"}`
	req := httptest.NewRequest("POST", "/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(12), response["user_id"])

	mockService.AssertExpectations(t)
}

func TestSignup_EmailTaken(t *testing.T) {
	mockService := new(MockUserService)
	router, controller := setupUserRouter(mockService)

	mockService.On("Register", "Marie Dupont", "marie@example.com", "s3cret-pass").Return(0, ErrEmailTaken)

	router.POST("/signup", controller.Signup)

	body := `{"name":"Marie Dupont","email":"marie@example.com","password":"s3cret-pass"}`
	req := httptest.NewRequest("POST", "/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestSignup_InvalidEmail(t *testing.T) {
	mockService := new(MockUserService)
	router, controller := setupUserRouter(mockService)

	router.POST("/signup", controller.Signup)

	body := `{"name":"Marie Dupont","email":"not-an-email","password":"s3cret-pass"}`
	req := httptest.NewRequest("POST", "/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	mockService := new(MockUserService)
	router, controller := setupUserRouter(mockService)

	pair := &auth.TokenPair{Token: "access", RefreshToken: "refresh", ExpiresIn: 900}
	u := &User{ID: 12, Name: "Marie Dupont", Email: "marie@example.com", Role: "analyst", CreatedAt: time.Now()}
	mockService.On("Login", "marie@example.com", "s3cret-pass", testJWTSecret).Return(pair, u, nil)

	router.POST("/login", controller.Login)

	body := `{"email":"marie@example.com","password":"s3cret-pass"}`
	req := httptest.NewRequest("POST", "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "access", response["token"])
	assert.Equal(t, "refresh", response["refresh_token"])

	userJSON := response["user"].(map[string]interface{})
	assert.Equal(t, "marie@example.com", userJSON["email"])
	// The password hash must never leak into a response.
	_, hasPassword := userJSON["password"]
	assert.False(t, hasPassword)

	mockService.AssertExpectations(t)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	mockService := new(MockUserService)
	router, controller := setupUserRouter(mockService)

	mockService.On("Login", "marie@example.com", "wrong", testJWTSecret).Return(nil, nil, ErrInvalidCredentials)

	router.POST("/login", controller.Login)

	body := `{"email":"marie@example.com","password":"wrong"}`
	req := httptest.NewRequest("POST", "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")

	mockService.AssertExpectations(t)
}

func TestRefreshToken_Valid(t *testing.T) {
	mockService := new(MockUserService)
	router, controller := setupUserRouter(mockService)

	pair, err := auth.GenerateTokenPair(12, "marie@example.com", testJWTSecret)
	require.NoError(t, err)

	router.POST("/refresh", controller.RefreshToken)

	body := `{"refresh_token":"` + pair.RefreshToken + `"}`
	req := httptest.NewRequest("POST", "/refresh", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(t, response["token"])
}

func TestRefreshToken_Invalid(t *testing.T) {
	mockService := new(MockUserService)
	router, controller := setupUserRouter(mockService)

	router.POST("/refresh", controller.RefreshToken)

	req := httptest.NewRequest("POST", "/refresh", strings.NewReader(`{"refresh_token":"garbage"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe(t *testing.T) {
	mockService := new(MockUserService)
	router, controller := setupUserRouter(mockService)

	u := &User{ID: 12, Name: "Marie Dupont", Email: "marie@example.com", Role: "analyst", CreatedAt: time.Now()}
	mockService.On("GetUserByID", 12).Return(u, nil)

	router.GET("/me", func(c *gin.Context) {
		c.Set(auth.UserIDKey, 12)
		controller.Me(c)
	})

	req := httptest.NewRequest("GET", "/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "analyst", response["role"])

	mockService.AssertExpectations(t)
}
