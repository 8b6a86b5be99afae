package realtime

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"questboard/internal/auth"
)

const (
	defaultSendQueueSize = 64
	defaultWriteTimeout  = 5 * time.Second
	maxFrameBytes        = 4096
)

// Gateway is the websocket entrypoint. It authenticates the access token at
// handshake time; an invalid or missing token is refused before the
// upgrade, never per message.
type Gateway struct {
	hub        *Hub
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist

	originPatterns []string
	writeTimeout   time.Duration
	sendQueueSize  int
}

// NewGateway constructs a gateway. allowedOrigins are full origins
// (scheme://host); their host parts become websocket origin patterns.
func NewGateway(hub *Hub, jwtService *auth.JWTService, blacklist auth.TokenBlacklist, allowedOrigins []string) *Gateway {
	return &Gateway{
		hub:            hub,
		jwtService:     jwtService,
		blacklist:      blacklist,
		originPatterns: originPatterns(allowedOrigins),
		writeTimeout:   defaultWriteTimeout,
		sendQueueSize:  defaultSendQueueSize,
	}
}

// Handle upgrades the request and pumps hub events to the connection until
// it drops. The connection is joined to the caller's private topic and the
// shared leaderboard topic.
func (g *Gateway) Handle(c echo.Context) error {
	token := bearerOrQueryToken(c)
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	claims, err := g.jwtService.ValidateAccessToken(token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
	}
	if revoked, _ := g.blacklist.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID); revoked {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
	}

	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		OriginPatterns: g.originPatterns,
	})
	if err != nil {
		log.Printf("ws accept failed: %v", err)
		return nil
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	conn.SetReadLimit(maxFrameBytes)

	client := NewClient(uuid.New().String(), claims.UserID, g.sendQueueSize)
	g.hub.Subscribe(UserTopic(claims.UserID), client)
	g.hub.Subscribe(TopicLeaderboard, client)
	defer g.hub.Drop(client)

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-ctx.Done():
				return
			case <-client.Done():
				return
			case ev := <-client.Send:
				wctx, wcancel := context.WithTimeout(ctx, g.writeTimeout)
				err := wsjson.Write(wctx, conn, ev)
				wcancel()
				if err != nil {
					conn.Close(websocket.StatusAbnormalClosure, "write failed")
					cancel()
					return
				}
			}
		}
	}()

	// No client-to-server commands exist on this transport; the read loop
	// only notices disconnects.
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			break
		}
	}

	cancel()
	<-writerDone
	return nil
}

func bearerOrQueryToken(c echo.Context) string {
	if t := c.QueryParam("token"); t != "" {
		return t
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func originPatterns(allowedOrigins []string) []string {
	patterns := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		u, err := url.Parse(strings.TrimSpace(o))
		if err != nil || u.Host == "" {
			continue
		}
		patterns = append(patterns, u.Host)
	}
	return patterns
}
