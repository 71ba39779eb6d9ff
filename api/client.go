package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/wricardo/set-game/game/service"
)

// RemoteError is a failure reported by the server in the response envelope
type RemoteError struct {
	Message string
	Kind    string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// IsRemoteKind reports whether err is a RemoteError of the given kind
func IsRemoteKind(err error, kind service.ErrorKind) bool {
	var remote *RemoteError
	return errors.As(err, &remote) && remote.Kind == kind.String()
}

type enveloped interface {
	envelope() *Envelope
}

// Client calls the REST API over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL.
// A nil httpClient gets a default with a 10 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the server address the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) post(ctx context.Context, path string, body interface{}, result enveloped) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("API error: %d: %w", resp.StatusCode, err)
	}

	env := result.envelope()
	if !env.Success {
		if env.Exception == nil {
			return fmt.Errorf("API error: %d", resp.StatusCode)
		}
		return &RemoteError{Message: env.Exception.Message, Kind: env.Exception.Kind}
	}
	return nil
}

// Register creates a user and returns its access token
func (c *Client) Register(ctx context.Context, nickname, password string) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.post(ctx, "/user/register", RegisterRequest{Nickname: nickname, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateRoom creates a room and returns its id
func (c *Client) CreateRoom(ctx context.Context, token string) (int, error) {
	var resp RoomResponse
	if err := c.post(ctx, "/set/room/create", TokenRequest{AccessToken: token}, &resp); err != nil {
		return 0, err
	}
	return resp.GameID, nil
}

// ListRooms returns all rooms
func (c *Client) ListRooms(ctx context.Context, token string) ([]service.RoomInfo, error) {
	var resp ListRoomsResponse
	if err := c.post(ctx, "/set/room/list", TokenRequest{AccessToken: token}, &resp); err != nil {
		return nil, err
	}
	return resp.Games, nil
}

// EnterRoom joins the room with the given id
func (c *Client) EnterRoom(ctx context.Context, token string, roomID int) (int, error) {
	var resp RoomResponse
	if err := c.post(ctx, "/set/room/enter", EnterRoomRequest{AccessToken: token, GameID: &roomID}, &resp); err != nil {
		return 0, err
	}
	return resp.GameID, nil
}

// Field returns the cards in play in the caller's room
func (c *Client) Field(ctx context.Context, token string) (*FieldResponse, error) {
	var resp FieldResponse
	if err := c.post(ctx, "/set/field", TokenRequest{AccessToken: token}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Pick submits three card ids. A rejected pick returns both the
// response, which still carries the score, and a RemoteError.
func (c *Client) Pick(ctx context.Context, token string, cardIDs []int) (*PickResponse, error) {
	var resp PickResponse
	if err := c.post(ctx, "/set/pick", PickRequest{AccessToken: token, Cards: cardIDs}, &resp); err != nil {
		var remote *RemoteError
		if errors.As(err, &remote) {
			return &resp, err
		}
		return nil, err
	}
	return &resp, nil
}

// AddCards deals extra cards and returns how many were dealt
func (c *Client) AddCards(ctx context.Context, token string) (int, error) {
	var resp AddCardsResponse
	if err := c.post(ctx, "/set/add", TokenRequest{AccessToken: token}, &resp); err != nil {
		return 0, err
	}
	return resp.Added, nil
}

// Scores returns the scoreboard of the caller's room
func (c *Client) Scores(ctx context.Context, token string) ([]service.UserScore, error) {
	var resp ScoresResponse
	if err := c.post(ctx, "/set/scores", TokenRequest{AccessToken: token}, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// Health checks that the server is up
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}
	return nil
}
