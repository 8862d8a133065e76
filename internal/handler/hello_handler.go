package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Hello handles GET / and doubles as a liveness probe
func Hello(c *gin.Context) {
	c.String(http.StatusOK, "Hello!")
}
