package httpapi

import "github.com/gin-gonic/gin"

func jsonSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func jsonError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// jsonErrorWithData returns an error along with data the client should keep,
// such as the form values it submitted.
func jsonErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, gin.H{"success": false, "error": message, "data": data})
}
