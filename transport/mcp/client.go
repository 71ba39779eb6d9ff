package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/samber/lo"
	"github.com/wricardo/set-game/api"
	"github.com/wricardo/set-game/game/card"
	"github.com/wricardo/set-game/game/service"
)

// Version is reported to MCP clients during initialization
const Version = "1.0.0"

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	api       *api.Client
	mcpServer *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API at baseURL
func NewClient(baseURL string) *Client {
	c := &Client{
		api: api.NewClient(baseURL, nil),
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Set Game",
		Version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Set Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Find sets of three cards faster than the other players in your room.

AVAILABLE TOOLS:
- register: Create a player and get an access token
- create_room / list_rooms / enter_room: Room management
- get_field: Show the cards in play and your score
- pick_set: Claim three cards as a set (+1 if right, -1 if wrong)
- add_cards: Deal extra cards when nobody can find a set
- get_scores: Scoreboard of your room
- find_set: Hint, computes a set on the current field
- game_instructions: Full rules`),
	)

	c.registerTools()
}

func tokenProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Access token returned by register",
	}
}

func tokenOnlySchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"access_token": tokenProperty(),
		},
		Required: []string{"access_token"},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Accounts
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "register",
		Description: "Register a new player and receive an access token",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"nickname": map[string]interface{}{
					"type":        "string",
					"description": "Name shown on the scoreboard",
				},
				"password": map[string]interface{}{
					"type":        "string",
					"description": "Password for the new player",
				},
			},
			Required: []string{"nickname", "password"},
		},
	}, c.handleRegister)

	// Rooms
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_room",
		Description: "Create a new game room. Use enter_room to join it.",
		InputSchema: tokenOnlySchema(),
	}, c.handleCreateRoom)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List all game rooms",
		InputSchema: tokenOnlySchema(),
	}, c.handleListRooms)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "enter_room",
		Description: "Enter a game room, leaving the current one",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"access_token": tokenProperty(),
				"game_id": map[string]interface{}{
					"type":        "integer",
					"description": "Room id from create_room or list_rooms",
				},
			},
			Required: []string{"access_token", "game_id"},
		},
	}, c.handleEnterRoom)

	// Gameplay
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_field",
		Description: "Show the cards in play, the cards left in the deck and your score",
		InputSchema: tokenOnlySchema(),
	}, c.handleGetField)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "pick_set",
		Description: "Claim three cards on the field as a set",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"access_token": tokenProperty(),
				"cards": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "integer"},
					"minItems":    3,
					"maxItems":    3,
					"description": "Ids of the three cards",
				},
			},
			Required: []string{"access_token", "cards"},
		},
	}, c.handlePickSet)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "add_cards",
		Description: "Deal extra cards onto the field",
		InputSchema: tokenOnlySchema(),
	}, c.handleAddCards)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_scores",
		Description: "Scoreboard of your current room, highest first",
		InputSchema: tokenOnlySchema(),
	}, c.handleGetScores)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "find_set",
		Description: "Hint: find a set among the cards currently on the field",
		InputSchema: tokenOnlySchema(),
	}, c.handleFindSet)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules of the game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Handler serves single JSON-RPC messages over HTTP POST
func (c *Client) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := c.mcpServer.HandleMessage(r.Context(), body)
		if response == nil {
			// notifications have no response
			w.WriteHeader(http.StatusAccepted)
			return
		}

		data, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})
}

// Argument helpers

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func stringArg(request mcp.CallToolRequest, name string) string {
	s, _ := arguments(request)[name].(string)
	return s
}

func intArg(request mcp.CallToolRequest, name string) (int, bool) {
	switch v := arguments(request)[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

func intsArg(request mcp.CallToolRequest, name string) ([]int, bool) {
	raw, ok := arguments(request)[name].([]interface{})
	if !ok {
		return nil, false
	}
	ids := make([]int, 0, len(raw))
	for _, v := range raw {
		f, ok := v.(float64)
		if !ok {
			return nil, false
		}
		ids = append(ids, int(f))
	}
	return ids, true
}

// Tool handlers

func (c *Client) handleRegister(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reg, err := c.api.Register(ctx, stringArg(request, "nickname"), stringArg(request, "password"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Registered %s\nAccess token: %s\n", reg.Nickname, reg.AccessToken)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleCreateRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := c.api.CreateRoom(ctx, stringArg(request, "access_token"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created room %d\n", id)), nil
}

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rooms, err := c.api.ListRooms(ctx, stringArg(request, "access_token"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(rooms) == 0 {
		return mcp.NewToolResultText("No rooms yet. Use create_room.\n"), nil
	}

	ids := lo.Map(rooms, func(r service.RoomInfo, _ int) string {
		return fmt.Sprintf("%d", r.ID)
	})
	return mcp.NewToolResultText(fmt.Sprintf("Rooms (%d): %s\n", len(rooms), strings.Join(ids, ", "))), nil
}

func (c *Client) handleEnterRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	roomID, ok := intArg(request, "game_id")
	if !ok {
		return mcp.NewToolResultError("game_id must be an integer"), nil
	}

	id, err := c.api.EnterRoom(ctx, stringArg(request, "access_token"), roomID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Entered room %d\n", id)), nil
}

func (c *Client) handleGetField(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	field, err := c.api.Field(ctx, stringArg(request, "access_token"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatField(field)), nil
}

func (c *Client) handlePickSet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, ok := intsArg(request, "cards")
	if !ok {
		return mcp.NewToolResultError("cards must be an array of card ids"), nil
	}

	pick, err := c.api.Pick(ctx, stringArg(request, "access_token"), ids)
	if err != nil {
		if pick != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Pick rejected: %v (score %d)", err, pick.Score)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	if pick.IsSet {
		return mcp.NewToolResultText(fmt.Sprintf("SET! Score: %d\n", pick.Score)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Not a set. Score: %d\n", pick.Score)), nil
}

func (c *Client) handleAddCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	added, err := c.api.AddCards(ctx, stringArg(request, "access_token"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if added == 0 {
		return mcp.NewToolResultText("The deck is empty, no cards added\n"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Added %d cards\n", added)), nil
}

func (c *Client) handleGetScores(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scores, err := c.api.Scores(ctx, stringArg(request, "access_token"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Scores:\n")
	for i, s := range scores {
		fmt.Fprintf(&b, "%d. %s: %d\n", i+1, s.Name, s.Score)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleFindSet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	field, err := c.api.Field(ctx, stringArg(request, "access_token"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	set, ok := card.FindSet(field.Cards)
	if !ok {
		if field.DeckSize > 0 {
			return mcp.NewToolResultText("No set on the field. Use add_cards.\n"), nil
		}
		return mcp.NewToolResultText("No set on the field and the deck is empty.\n"), nil
	}

	result := fmt.Sprintf("Sets on the field: %d\nTry cards: [%d, %d, %d]\n",
		card.CountSets(field.Cards), set[0].ID, set[1].ID, set[2].ID)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Set Game - Complete Instructions

CARDS:
There are 81 cards. Each card has four attributes with values 1, 2 or 3:
count, shape, fill and color. Every combination appears exactly once.
Cards are shown as id:count/shape/fill/color, e.g. 40:2/2/2/2.

WHAT IS A SET:
Three cards form a set when, for EACH attribute separately, the three
values are either all the same or all different.
  1/1/1/1, 2/1/1/2, 3/1/1/3  -> set (count differs, shape same, fill same, color differs)
  1/1/1/1, 2/1/1/1, 2/2/1/1  -> not a set (count is 1,2,2)

PLAYING:
1. register, then create_room or list_rooms, then enter_room
2. get_field shows the cards in play (12 at the start)
3. pick_set with three card ids:
   - a set scores +1, the cards leave the field and new ones are dealt
   - a wrong triple scores -1
   - ids that are not on the field (someone was faster) are refused
     without changing your score
4. add_cards deals 3 more cards when nobody can find a set
5. The game ends when the deck is empty and fewer than 3 cards remain

TIP:
Any two cards determine the one card that completes the set. For each
attribute: equal values need the same value, different values need the
third one.`

	return mcp.NewToolResultText(instructions), nil
}

func formatField(field *api.FieldResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s | Score: %d | Deck: %d | Field: %d cards\n",
		field.Status, field.Score, field.DeckSize, len(field.Cards))
	for i, c := range field.Cards {
		if i > 0 && i%3 == 0 {
			b.WriteString("\n")
		} else if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(c.String())
	}
	b.WriteString("\n")
	return b.String()
}
