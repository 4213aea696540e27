package middleware

import "github.com/gin-gonic/gin"

// actorIDKey is the key used to store the resolved actor's ID in the Gin context.
const actorIDKey = contextKey("actorID")

// SetActorID stores the resolved actor id on the Gin context. Authentication
// is an external collaborator; the edge resolves the actor and hands the id in.
func SetActorID(c *gin.Context, actorID string) {
	c.Set(string(actorIDKey), actorID)
}

// GetActorIDFromContext retrieves the resolved actor id from the Gin context.
// It returns the id and a boolean indicating if it was found.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	actorIDVal, exists := c.Get(string(actorIDKey))
	if !exists {
		// check in the request context as well
		ctxVal := c.Request.Context().Value(actorIDKey)
		if ctxVal != nil {
			return ctxVal.(string), true
		}
		return "", false
	}

	actorID, ok := actorIDVal.(string)
	if !ok {
		return "", false
	}

	return actorID, true
}

// ActorHeaderMiddleware lifts the actor id from the X-Actor-ID header set by
// the upstream authenticating proxy. Requests without it proceed; handlers
// that require an actor reject them individually.
func ActorHeaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actorID := c.GetHeader("X-Actor-ID"); actorID != "" {
			SetActorID(c, actorID)
		}
		c.Next()
	}
}
