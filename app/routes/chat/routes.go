package chat

import (
	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/Miian1/FamilyFinance/app/realtime"
	"github.com/Miian1/FamilyFinance/app/routes/auth"
	"github.com/Miian1/FamilyFinance/app/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

var (
	chatSvc       *services.Chat
	membershipSvc *services.Membership
	hub           *realtime.Hub
)

// SetupChatRoutes sets up messaging and friend routes
func SetupChatRoutes(app *fiber.App, chat *services.Chat, membership *services.Membership, h *realtime.Hub) {
	chatSvc = chat
	membershipSvc = membership
	hub = h

	// Page routes
	app.Get("/chat", auth.AuthMiddleware, renderChatPage)

	// API routes
	api := app.Group("/api/chat")
	api.Use(auth.AuthMiddleware)
	api.Get("/friends", GetFriendsAPI)
	api.Get("/:userId", GetConversationAPI)
	api.Post("/:userId", SendMessageAPI)

	friends := app.Group("/api/friends")
	friends.Use(auth.AuthMiddleware)
	friends.Post("/", SendFriendRequestAPI)
	friends.Post("/:id/respond", RespondFriendRequestAPI)

	// Realtime
	app.Use("/ws/chat", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/chat", auth.AuthMiddleware, websocket.New(ChatSocket))
}

func renderChatPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	friends, err := membershipSvc.Friends(c.Context(), user.ID)
	if err != nil {
		friends = []*models.User{}
	}

	return c.Render("chat/index", fiber.Map{
		"Title":       "Chat - FamilyFinance",
		"CurrentPage": "chat",
		"user":        user,
		"Friends":     friends,
		"HasFriends":  len(friends) > 0,
	})
}
