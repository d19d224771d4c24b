package services_test

import (
	"log"
	"os"
	"testing"
	"time"

	"ecosnap/internal/models"
	"ecosnap/internal/repositories"
	"ecosnap/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateStats(id string, fn func(*models.Stats)) error {
	args := m.Called(id, fn)
	return args.Error(0)
}

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	// Test successful registration
	mockRepo.On("GetByEmail", "alice@example.com").Return(nil, repositories.ErrUserNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.Register("Alice", "alice@example.com", "password123")
	assert.NoError(t, err)

	// The stored password must be a bcrypt hash of the raw one, and stats
	// must start zero-valued.
	created := mockRepo.Calls[1].Arguments.Get(0).(*models.User)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("password123")))
	assert.Equal(t, models.Stats{}, created.Stats)
	mockRepo.AssertExpectations(t)

	// Test email already registered: fails without creating anything
	mockRepo.On("GetByEmail", "alice@example.com").Return(&models.User{ID: "1"}, nil).Once()
	err = authService.Register("Alice", "alice@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrDuplicateUser)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: string(hashedPassword),
	}

	// Test successful login
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	token, err := authService.Login("alice@example.com", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// Validate the token structure
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["id"])
	// Expiry is 1 hour from issuance
	assert.InDelta(t, float64(time.Now().Add(time.Hour).Unix()), claims["exp"].(float64), 5)
	mockRepo.AssertExpectations(t)

	// Test wrong password
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, err = authService.Login("alice@example.com", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Test unknown email
	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, repositories.ErrUserNotFound).Once()
	_, err = authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	signToken := func(claims jwt.MapClaims, secret string) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte(secret))
		assert.NoError(t, err)
		return signed
	}

	// Valid token round-trips to the user ID it was issued for
	valid := signToken(jwt.MapClaims{
		"id":  "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testJWTSecret)
	userID, err := authService.ValidateToken(valid)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", userID)

	// Expired token
	expired := signToken(jwt.MapClaims{
		"id":  "user-123",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}, testJWTSecret)
	_, err = authService.ValidateToken(expired)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Token signed with a different secret
	forged := signToken(jwt.MapClaims{
		"id":  "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, "some_other_secret")
	_, err = authService.ValidateToken(forged)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Garbage input
	_, err = authService.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Token missing the id claim
	anonymous := signToken(jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testJWTSecret)
	_, err = authService.ValidateToken(anonymous)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestAuthService_LoginValidateRoundTrip(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "round_trip_secret")

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-456", Email: "bob@example.com", Password: string(hashedPassword)}
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()

	token, err := authService.Login(user.Email, "password123")
	assert.NoError(t, err)

	userID, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	mockRepo.AssertExpectations(t)
}
