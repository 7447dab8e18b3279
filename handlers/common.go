package handlers

import (
	"newsdesk/config"
)

// Shared handler state, set once from main before the router starts serving.
var cfg *config.Config

func SetConfig(c *config.Config) {
	cfg = c
}
