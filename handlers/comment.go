package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"newsdesk/database"
	"newsdesk/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CreateCommentRequest struct {
	PostID   string `json:"postId" binding:"required"`
	UserName string `json:"userName" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

// ListComments returns the comments for a post, newest first.
func ListComments(c *gin.Context) {
	postIDStr := c.Query("postId")
	if postIDStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post ID is required"})
		return
	}

	postID, err := primitive.ObjectIDFromHex(postIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID format"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.Comments.Find(ctx, bson.M{"postId": postID}, opts)
	if err != nil {
		log.Printf("[ListComments] find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		log.Printf("[ListComments] decode error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// CreateComment stores a comment against an existing post.
func CreateComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	postID, err := primitive.ObjectIDFromHex(req.PostID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID format"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := database.Posts.CountDocuments(ctx, bson.M{"_id": postID})
	if err != nil {
		log.Printf("[CreateComment] post lookup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		PostID:    postID,
		UserName:  req.UserName,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}

	if _, err := database.Comments.InsertOne(ctx, comment); err != nil {
		log.Printf("[CreateComment] insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment added successfully",
		"comment": comment,
	})
}
