package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

var excludedPaths = []string{
	"/api/health",
	"/test",
}

// GZIP compresses response bodies for clients that accept it.
func GZIP() gin.HandlerFunc {
	return gzip.Gzip(
		gzip.DefaultCompression,
		gzip.WithExcludedPaths(excludedPaths),
	)
}
