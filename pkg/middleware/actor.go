package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
)

const (
	ContextActor = "actor_id"

	sessionName = "helpful"
	actorKey    = "actor"
)

// NewSessionStore returns the cookie store that keeps anonymous actor ids.
func NewSessionStore(secret string) sessions.Store {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 365,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// ActorMiddleware sets the actor id of the request: the account id for
// authenticated callers, otherwise a random id kept in the session cookie.
// It must run after the JWT middlewares.
func ActorMiddleware(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetString(ContextUserID); userID != "" {
			c.Set(ContextActor, userID)
			c.Next()
			return
		}

		session, err := store.Get(c.Request, sessionName)
		if err != nil {
			log.Debug().Err(err).Msg("discarding unreadable session")
		}

		actor, _ := session.Values[actorKey].(string)
		if actor == "" {
			actor = uuid.NewString()
			session.Values[actorKey] = actor
			if err := session.Save(c.Request, c.Writer); err != nil {
				log.Warn().Err(err).Msg("saving session")
			}
		}

		c.Set(ContextActor, actor)
		c.Next()
	}
}

// Actor returns the id set by ActorMiddleware.
func Actor(c *gin.Context) string {
	return c.GetString(ContextActor)
}
