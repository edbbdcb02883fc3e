package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Context keys set by the middleware in this package
const (
	ContextKeyAuthor    = "author"
	ContextKeyTask      = "task"
	ContextKeyRequestID = "request_id"
)

// SessionAuthor copies the author remembered in the session into the context
func SessionAuthor() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if author, ok := session.Get(ContextKeyAuthor).(string); ok && author != "" {
			c.Set(ContextKeyAuthor, author)
		}
		c.Next()
	}
}

// RememberAuthor stores author as the default for later requests from the
// same client. An empty author forgets it.
func RememberAuthor(c *gin.Context, author string) error {
	session := sessions.Default(c)
	author = strings.TrimSpace(author)
	if author == "" {
		session.Delete(ContextKeyAuthor)
	} else {
		session.Set(ContextKeyAuthor, author)
	}
	if err := session.Save(); err != nil {
		return err
	}

	c.Set(ContextKeyAuthor, author)
	return nil
}

// GetAuthor retrieves the remembered author from context
func GetAuthor(c *gin.Context) (string, bool) {
	author, exists := c.Get(ContextKeyAuthor)
	if !exists {
		return "", false
	}

	value, ok := author.(string)
	return value, ok && value != ""
}
