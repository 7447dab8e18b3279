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
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type monthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// trailingMonths returns the first day of each of the last n months,
// oldest first, ending with the month containing now. Buckets are built in
// UTC because $dateToString formats createdAt in UTC; a local-time bucket
// would disagree with the aggregation keys near month boundaries.
func trailingMonths(now time.Time, n int) []time.Time {
	now = now.UTC()
	months := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		months = append(months, time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC))
	}
	return months
}

// growthRate is the month-over-month change in percent. A prior month with
// zero posts yields 0 rather than a division error.
func growthRate(current, previous int) float64 {
	if previous == 0 {
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}

// GetAdminStats recomputes the dashboard numbers on every request.
func GetAdminStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	totalPosts, err := database.Posts.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Printf("[GetAdminStats] post count error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}

	totalUsers, err := database.Users.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Printf("[GetAdminStats] user count error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}

	totalComments, err := database.Comments.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Printf("[GetAdminStats] comment count error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}

	now := time.Now()

	postsLast30Days, err := database.Posts.CountDocuments(ctx, bson.M{
		"createdAt": bson.M{"$gte": now.AddDate(0, 0, -30)},
	})
	if err != nil {
		log.Printf("[GetAdminStats] 30-day count error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}

	postsByCategory, err := countPostsByCategory(ctx)
	if err != nil {
		log.Printf("[GetAdminStats] category aggregation error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}

	monthlyPosts, err := countPostsByMonth(ctx, now)
	if err != nil {
		log.Printf("[GetAdminStats] monthly aggregation error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}

	// Last bucket is the current month, the one before it the prior month.
	growth := growthRate(monthlyPosts[len(monthlyPosts)-1].Count, monthlyPosts[len(monthlyPosts)-2].Count)

	topPosts, err := findTopPosts(ctx)
	if err != nil {
		log.Printf("[GetAdminStats] top posts error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}

	recentUsers, err := findRecentUsers(ctx)
	if err != nil {
		log.Printf("[GetAdminStats] recent users error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"totalPosts":      totalPosts,
			"totalUsers":      totalUsers,
			"totalComments":   totalComments,
			"postsLast30Days": postsLast30Days,
			"growthRate":      growth,
		},
		"postsByCategory": postsByCategory,
		"monthlyPosts":    monthlyPosts,
		"topPosts":        topPosts,
		"recentUsers":     recentUsers,
	})
}

func countPostsByCategory(ctx context.Context) (map[string]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := database.Posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Category string `bson:"_id"`
		Count    int    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	// Zero-fill so the dashboard chart always shows all categories.
	counts := make(map[string]int, len(models.Categories))
	for _, category := range models.Categories {
		counts[category] = 0
	}
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	return counts, nil
}

func countPostsByMonth(ctx context.Context, now time.Time) ([]monthCount, error) {
	months := trailingMonths(now, 6)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: months[0]}}}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$dateToString", Value: bson.D{
				{Key: "format", Value: "%Y-%m"},
				{Key: "date", Value: "$createdAt"},
			}}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := database.Posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Month string `bson:"_id"`
		Count int    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	byMonth := make(map[string]int, len(rows))
	for _, row := range rows {
		byMonth[row.Month] = row.Count
	}

	result := make([]monthCount, 0, len(months))
	for _, month := range months {
		key := monthKey(month)
		result = append(result, monthCount{Month: key, Count: byMonth[key]})
	}
	return result, nil
}

func findTopPosts(ctx context.Context) ([]models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "likes", Value: -1}, {Key: "views", Value: -1}, {Key: "createdAt", Value: -1}}).
		SetLimit(5).
		SetProjection(bson.M{
			"title":     1,
			"category":  1,
			"imageUrl":  1,
			"likes":     1,
			"views":     1,
			"createdAt": 1,
		})

	cursor, err := database.Posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func findRecentUsers(ctx context.Context) ([]models.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(5).
		SetProjection(bson.M{
			"name":      1,
			"email":     1,
			"role":      1,
			"createdAt": 1,
		})

	cursor, err := database.Users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
