package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"newsdesk/database"
	"newsdesk/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// postListFilter builds the query document for ListPosts: category must be
// one of the fixed set, search matches title or content case-insensitively
// with the user input treated as a literal, and exclude drops one id.
func postListFilter(category, search, exclude string) (bson.M, error) {
	filter := bson.M{}

	if category != "" {
		if !models.ValidCategory(category) {
			return nil, errors.New("Unknown category")
		}
		filter["category"] = category
	}

	if search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		filter["$or"] = []bson.M{
			{"title": pattern},
			{"content": pattern},
		}
	}

	if exclude != "" {
		excludeID, err := primitive.ObjectIDFromHex(exclude)
		if err != nil {
			return nil, errors.New("Invalid exclude ID format")
		}
		filter["_id"] = bson.M{"$ne": excludeID}
	}

	return filter, nil
}

// ListPosts returns a newest-first page of posts with a total count and a
// has-more flag. Supports category filtering, case-insensitive title/content
// search, limit/skip pagination and an exclusion id for related-post lookups.
func ListPosts(c *gin.Context) {
	filter, err := postListFilter(c.Query("category"), c.Query("search"), c.Query("exclude"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, err := database.Posts.CountDocuments(ctx, filter)
	if err != nil {
		log.Printf("[ListPosts] count error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	cursor, err := database.Posts.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("[ListPosts] find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		log.Printf("[ListPosts] decode error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":   posts,
		"total":   total,
		"hasMore": int64(skip+len(posts)) < total,
	})
}

// GetPost reads a single post and bumps its view counter.
func GetPost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID format"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err = database.Posts.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID},
		bson.M{"$inc": bson.M{"views": 1}},
		opts,
	).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("[GetPost] database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

func bindPostForm(c *gin.Context) (title, content, category string, ok bool) {
	title = strings.TrimSpace(c.PostForm("title"))
	content = strings.TrimSpace(c.PostForm("content"))
	category = strings.TrimSpace(c.PostForm("category"))

	if title == "" || content == "" || category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title, content, and category are required"})
		return "", "", "", false
	}
	if !models.ValidCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return "", "", "", false
	}
	return title, content, category, true
}

// CreatePost accepts multipart form data from the admin area. An attached
// image goes to Cloudinary first; a failed upload aborts the whole create.
func CreatePost(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(cfg.MaxUploadSize); err != nil && err != http.ErrNotMultipart {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse form data"})
		return
	}

	title, content, category, ok := bindPostForm(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	imageURL := ""
	if file, _, err := c.Request.FormFile("image"); err == nil {
		defer file.Close()
		imageURL, err = uploadPostImage(ctx, file)
		if err != nil {
			log.Printf("[CreatePost] image upload error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
			return
		}
	}

	author, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		author = primitive.NewObjectID()
	}

	now := time.Now()
	post := models.Post{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Content:   content,
		Category:  category,
		ImageURL:  imageURL,
		Author:    author,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := database.Posts.InsertOne(ctx, post); err != nil {
		log.Printf("[CreatePost] insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"post":    post,
	})
}

// UpdatePost overwrites title/content/category in place. A new image replaces
// imageUrl; without one the stored image stays untouched.
func UpdatePost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID format"})
		return
	}

	if err := c.Request.ParseMultipartForm(cfg.MaxUploadSize); err != nil && err != http.ErrNotMultipart {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse form data"})
		return
	}

	title, content, category, ok := bindPostForm(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	set := bson.M{
		"title":     title,
		"content":   content,
		"category":  category,
		"updatedAt": time.Now(),
	}

	if file, _, err := c.Request.FormFile("image"); err == nil {
		defer file.Close()
		imageURL, err := uploadPostImage(ctx, file)
		if err != nil {
			log.Printf("[UpdatePost] image upload error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
			return
		}
		set["imageUrl"] = imageURL
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err = database.Posts.FindOneAndUpdate(ctx, bson.M{"_id": postID}, bson.M{"$set": set}, opts).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("[UpdatePost] database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post updated successfully",
		"post":    post,
	})
}

// DeletePost removes a post and its comments.
func DeletePost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID format"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Posts.DeleteOne(ctx, bson.M{"_id": postID})
	if err != nil {
		log.Printf("[DeletePost] database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if _, err := database.Comments.DeleteMany(ctx, bson.M{"postId": postID}); err != nil {
		log.Printf("[DeletePost] comment cleanup error for %s: %v", postID.Hex(), err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// LikePost increments the like counter for an authenticated reader.
func LikePost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID format"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err = database.Posts.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID},
		bson.M{"$inc": bson.M{"likes": 1}},
		opts,
	).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("[LikePost] database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to like post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"likes": post.Likes})
}
