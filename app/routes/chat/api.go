package chat

import (
	"github.com/Miian1/FamilyFinance/app/routes/respond"
	"github.com/gofiber/fiber/v2"
)

// GetFriendsAPI returns the caller's accepted friends plus unread message
// counts per friend.
func GetFriendsAPI(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	friends, err := membershipSvc.Friends(c.Context(), userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch friends"})
	}
	unread, err := chatSvc.UnreadCounts(c.Context(), userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch unread counts"})
	}

	online := map[string]bool{}
	for _, f := range friends {
		online[f.ID] = hub.Online(f.ID)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"friends": friends,
		"unread":  unread,
		"online":  online,
	})
}

// GetConversationAPI returns the message history with one friend and marks
// their messages as read.
func GetConversationAPI(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	messages, err := chatSvc.Conversation(c.Context(), userID, c.Params("userId"))
	if err != nil {
		return respond.ServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"messages": messages,
	})
}

// SendMessageAPI sends a direct message to a friend.
func SendMessageAPI(c *fiber.Ctx) error {
	type MessageRequest struct {
		Content string `json:"content"`
	}

	var req MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	userID := c.Locals("user_id").(string)
	message, err := chatSvc.Send(c.Context(), userID, c.Params("userId"), req.Content)
	if err != nil {
		return respond.ServiceError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// SendFriendRequestAPI creates a pending friend request.
func SendFriendRequestAPI(c *fiber.Ctx) error {
	type FriendRequest struct {
		UserID string `json:"user_id"`
	}

	var req FriendRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "user_id is required"})
	}

	userID := c.Locals("user_id").(string)
	if err := membershipSvc.SendFriendRequest(c.Context(), userID, req.UserID); err != nil {
		return respond.ServiceError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "message": "Friend request sent"})
}

// RespondFriendRequestAPI accepts or rejects a pending friend request.
// Rejection deletes the request.
func RespondFriendRequestAPI(c *fiber.Ctx) error {
	type RespondRequest struct {
		Accept bool `json:"accept"`
	}

	var req RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	userID := c.Locals("user_id").(string)
	if err := membershipSvc.RespondToFriendRequest(c.Context(), userID, c.Params("id"), req.Accept); err != nil {
		return respond.ServiceError(c, err)
	}

	message := "Friend request rejected"
	if req.Accept {
		message = "Friend request accepted"
	}
	return c.JSON(fiber.Map{"success": true, "message": message})
}
