package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"friendchat/models"

	"github.com/go-resty/resty/v2"
)

// Client talks to the chat server's request/response endpoints. The session
// lives in the cookie jar of the underlying resty client.
type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &Client{http: c}
}

// CookieJar returns the jar holding the session cookie so the realtime
// channel can authenticate with the same session.
func (c *Client) CookieJar() http.CookieJar {
	return c.http.GetClient().Jar
}

type sessionResponse struct {
	LoggedIn bool         `json:"loggedIn"`
	User     *models.User `json:"user"`
}

type authResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user"`
	Error   string       `json:"error"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Me returns the session user, or nil when nobody is logged in.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var res sessionResponse
	resp, err := c.http.R().SetContext(ctx).Get("/me")
	if err := decode("session", resp, err, &res); err != nil {
		return nil, err
	}
	if !res.LoggedIn || res.User == nil {
		return nil, nil
	}
	return res.User, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*models.User, error) {
	return c.authenticate(ctx, "login", username, password)
}

func (c *Client) Register(ctx context.Context, username, password string) (*models.User, error) {
	return c.authenticate(ctx, "register", username, password)
}

// authenticate reads the body even for non-2xx responses, since the server
// reports bad credentials as {success:false, error:"..."}.
func (c *Client) authenticate(ctx context.Context, op, username, password string) (*models.User, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"username": username,
			"password": password,
		}).
		Post("/" + op)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}

	var res authResponse
	if jsonErr := json.Unmarshal(resp.Body(), &res); jsonErr != nil {
		if !resp.IsSuccess() {
			return nil, statusError(op, resp)
		}
		return nil, &Error{Op: op, StatusCode: resp.StatusCode(), Err: jsonErr}
	}
	if !res.Success || res.User == nil {
		msg := res.Error
		if msg == "" {
			msg = serverMessage(resp)
		}
		return nil, &Error{Op: op, StatusCode: resp.StatusCode(), Message: msg}
	}
	return res.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Post("/logout")
	return decode("logout", resp, err, nil)
}

func (c *Client) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	var users []models.User
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		Get("/search-users")
	if err := decode("search", resp, err, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) SendRequest(ctx context.Context, receiverID models.ID) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]models.ID{"receiverId": receiverID}).
		Post("/send-request")
	return decode("send request", resp, err, nil)
}

func (c *Client) Friends(ctx context.Context) ([]models.User, error) {
	var friends []models.User
	resp, err := c.http.R().SetContext(ctx).Get("/friends")
	if err := decode("friends", resp, err, &friends); err != nil {
		return nil, err
	}
	return friends, nil
}

func (c *Client) FriendRequests(ctx context.Context) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	resp, err := c.http.R().SetContext(ctx).Get("/friend-requests")
	if err := decode("friend requests", resp, err, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// HandleRequest posts an accept/decline decision. A 2xx reply that does not
// report success is still an error.
func (c *Client) HandleRequest(ctx context.Context, requestID models.ID, action models.Action, senderID models.ID) error {
	var res successResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"requestId": requestID,
			"action":    action,
			"senderId":  senderID,
		}).
		Post("/handle-request")
	if err := decode("handle request", resp, err, &res); err != nil {
		return err
	}
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = "request was not handled"
		}
		return &Error{Op: "handle request", StatusCode: resp.StatusCode(), Message: msg}
	}
	return nil
}

func (c *Client) Messages(ctx context.Context, friendID models.ID) ([]models.Message, error) {
	var msgs []models.Message
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("friendId", friendID.String()).
		Get("/messages/{friendId}")
	if err := decode("messages", resp, err, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func decode(op string, resp *resty.Response, err error, out any) error {
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	if !resp.IsSuccess() {
		return statusError(op, resp)
	}
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode(), Err: err}
	}
	return nil
}
