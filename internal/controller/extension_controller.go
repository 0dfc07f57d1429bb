package controller

import (
	"fmt"

	"ai-sidebar-be/internal/dto"
	"ai-sidebar-be/internal/pkg/serverutils"
	"ai-sidebar-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IExtensionController interface {
	RegisterRoutes(r fiber.Router)
	Envelope(ctx *fiber.Ctx) error
	GetAllConversations(ctx *fiber.Ctx) error
	GetActiveConversation(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
}

type extensionController struct {
	dispatch service.IDispatchService
	chats    service.IChatService
}

func NewExtensionController(dispatch service.IDispatchService, chats service.IChatService) IExtensionController {
	return &extensionController{
		dispatch: dispatch,
		chats:    chats,
	}
}

func (c *extensionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/extension/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/envelope", c.Envelope)
	h.Get("/conversations", c.GetAllConversations)
	h.Get("/conversations/active", c.GetActiveConversation)
	h.Get("/conversations/:id/messages", c.GetHistory)
}

// Envelope is the runtime-message replacement: one endpoint, discriminated
// by the "type" field, exactly like the background script's onMessage
// listener used to be.
func (c *extensionController) Envelope(ctx *fiber.Ctx) error {
	var req dto.EnvelopeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	switch req.Type {
	case dto.EnvelopeWakeUp:
		return ctx.JSON(dto.WakeUpResponse{Status: "Background script is awake!"})

	case dto.EnvelopeCreateChatList:
		return c.createChatList(ctx, &req)

	case dto.EnvelopeChatMessage:
		response := c.dispatch.Handle(ctx.Context(), &dto.ChatMessageRequest{
			Provider:          req.Provider,
			Mode:              req.Mode,
			Model:             req.Model,
			Prompt:            req.Prompt,
			OllamaURL:         req.OllamaURL,
			CurrentChatListId: req.CurrentChatListId,
			ActualUserPrompt:  req.ActualUserPrompt,
		})
		return ctx.JSON(dto.ChatMessageResponse{Response: response})

	default:
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Unknown envelope type %q", req.Type))
	}
}

func (c *extensionController) createChatList(ctx *fiber.Ctx, req *dto.EnvelopeRequest) error {
	if req.ChatListId == "" {
		return ctx.JSON(dto.ControlResponse{
			Status:  "error",
			Message: "chatListId is required",
		})
	}

	if err := c.chats.CreateConversation(ctx.Context(), req.ChatListId, req.PageURL, req.Domain); err != nil {
		return ctx.JSON(dto.ControlResponse{
			Status:  "error",
			Message: err.Error(),
		})
	}

	return ctx.JSON(dto.ControlResponse{Status: "success"})
}

func (c *extensionController) GetAllConversations(ctx *fiber.Ctx) error {
	res, err := c.chats.GetAllConversations(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all conversations", res))
}

func (c *extensionController) GetActiveConversation(ctx *fiber.Ctx) error {
	id, err := c.chats.ActiveConversation(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get active conversation", fiber.Map{
		"currentChatListId": id,
	}))
}

func (c *extensionController) GetHistory(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	res, err := c.chats.GetHistory(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}
