package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"newsdesk/database"
	"newsdesk/middleware"
	"newsdesk/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var existing models.User
	err := database.Users.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}
	if err != mongo.ErrNoDocuments {
		log.Printf("[Signup] database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	count, err := database.Users.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Printf("[Signup] count error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	role := signupRole(count)

	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Email:     email,
		Password:  string(hashed),
		Role:      role,
		CreatedAt: time.Now(),
	}

	if _, err := database.Users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		log.Printf("[Signup] insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user": gin.H{
			"id":    user.ID.Hex(),
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// signupRole makes the very first registered account the admin; everyone
// after that gets the default role.
func signupRole(existingUsers int64) string {
	if existingUsers == 0 {
		return models.RoleAdmin
	}
	return models.RoleUser
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Configured admin pair bypasses the database entirely. A wrong password
	// for that email fails here too; the bypass account has no user document.
	if cfg.AdminEmail != "" && email == strings.ToLower(cfg.AdminEmail) {
		if req.Password != cfg.AdminPassword {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		issueSession(c, primitive.NilObjectID.Hex(), "Administrator", email, models.RoleAdmin)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		log.Printf("[Login] database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	issueSession(c, user.ID.Hex(), user.Name, user.Email, user.Role)
}

func issueSession(c *gin.Context, id, name, email, role string) {
	token, err := middleware.IssueToken(id, name, email, role, cfg.TokenTTL)
	if err != nil {
		log.Printf("[Login] token error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":    id,
			"name":  name,
			"email": email,
			"role":  role,
		},
	})
}

// Me returns the identity carried by the validated session token.
func Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"id":    c.GetString("userId"),
		"name":  c.GetString("name"),
		"email": c.GetString("email"),
		"role":  c.GetString("role"),
	})
}
