package handlers

import (
	"os"
	"testing"
	"time"

	"newsdesk/config"
	"newsdesk/middleware"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	middleware.SetSecret("test-secret")
	SetConfig(&config.Config{
		TokenTTL:      time.Hour,
		MaxUploadSize: 10 << 20,
	})
	os.Exit(m.Run())
}
