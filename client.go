package smartbroker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// BaseURL is the portal host all endpoint paths are relative to.
const BaseURL = "https://b2b.dab-bank.de/"

// Fixed endpoint paths. The portal is a legacy server-rendered application;
// these paths are stable but undocumented.
const (
	loginStartEndpoint    = "smartbroker/"
	loginCheckEndpoint    = "smartbroker/b3SecurityLoginCheck.xhtml"
	logoutEndpoint        = "smartbroker/Logout.xhtml"
	listAccountsEndpoint  = "smartbroker/Finanzuebersicht/"
	listPortfolioEndpoint = "Tradingcenter/Depot/Depotuebersicht/"
)

// authFailureMarker is the text the portal renders into the login response
// when it rejects the credentials. The status is still 200 in that case.
const authFailureMarker = "Ihre Legitimation war nicht erfolgreich"

// State is the lifecycle phase of a Client.
type State int

const (
	LoggedOut State = iota
	LoggingIn
	LoggedIn
	// Failed is terminal: the caller must discard the client and the
	// underlying cookie jar and construct a new one.
	Failed
)

func (s State) String() string {
	switch s {
	case LoggedOut:
		return "logged out"
	case LoggingIn:
		return "logging in"
	case LoggedIn:
		return "logged in"
	default:
		return "failed"
	}
}

// ErrNotLoggedIn is returned by list operations called outside the LoggedIn
// state. It is a usage error, not a portal failure: no request is issued.
var ErrNotLoggedIn = errors.New("smartbroker: not logged in")

// Client owns one authenticated portal session. The injected http.Client
// must carry a cookie jar, since the whole session lives in cookies; the
// Client itself holds nothing but the lifecycle state.
//
// A Client is strictly sequential: login, zero or more list calls, logout.
// It is not safe for concurrent use.
type Client struct {
	httpc *http.Client
	base  string
	state State
}

// New returns a Client talking to the production portal. httpClient must
// persist cookies across calls (set an http.CookieJar) and is owned by the
// caller; timeouts belong on it, not here.
func New(httpClient *http.Client) *Client {
	return NewAt(httpClient, BaseURL)
}

// NewAt returns a Client talking to an alternative base URL. Useful against
// a recorded copy of the portal.
func NewAt(httpClient *http.Client, baseURL string) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{httpc: httpClient, base: baseURL}
}

// State returns the current lifecycle phase.
func (c *Client) State() State { return c.state }

// get runs one GET round-trip and returns the body. Transport errors and
// error statuses are both classified as *ConnectionError, always before any
// body content is inspected.
func (c *Client) get(ctx context.Context, op, path string, query url.Values) (string, error) {
	addr := c.base + path
	if len(query) > 0 {
		addr += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return "", &ConnectionError{Op: op, Err: err}
	}
	return c.do(op, req)
}

// postForm runs one POST round-trip with form-encoded fields.
func (c *Client) postForm(ctx context.Context, op, path string, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &ConnectionError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(op, req)
}

func (c *Client) do(op string, req *http.Request) (string, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", &ConnectionError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ConnectionError{Op: op, Err: err}
	}
	if resp.StatusCode >= 400 {
		return "", &ConnectionError{Op: op, Status: resp.Status}
	}
	return string(body), nil
}

// Login authenticates the session. It first GETs the landing page to
// establish the initial cookies, then POSTs the credentials. A transport
// failure on either round-trip is a *ConnectionError; a 2xx response whose
// body carries the portal's rejection marker is an *AuthError. Either way
// the client ends up Failed and must be discarded.
//
// No retries happen here: retry policy belongs to the caller.
func (c *Client) Login(ctx context.Context, accessNumber, identifier string) error {
	if c.state != LoggedOut {
		return fmt.Errorf("smartbroker: login requires a fresh client, state is %s", c.state)
	}
	c.state = LoggingIn

	if _, err := c.get(ctx, "login", loginStartEndpoint, nil); err != nil {
		c.state = Failed
		return err
	}

	form := url.Values{
		"login_query_string":        {""},
		"campaignIDs_MINIAPP_login": {""},
		"accessNumber":              {accessNumber},
		"identifier":                {identifier},
	}
	body, err := c.postForm(ctx, "login", loginCheckEndpoint, form)
	if err != nil {
		c.state = Failed
		return err
	}
	if strings.Contains(body, authFailureMarker) {
		c.state = Failed
		return &AuthError{Detail: "portal reported unsuccessful legitimation"}
	}

	c.state = LoggedIn
	return nil
}

// Logout releases the session cookie. It is best-effort cleanup: callers
// should attempt it even after a failed list call, and must not let its
// error mask an earlier one.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.get(ctx, "logout", logoutEndpoint, nil); err != nil {
		c.state = Failed
		return err
	}
	c.state = LoggedOut
	return nil
}

// ListAccounts fetches and parses the account overview. Depot rows come
// back as SecuritiesAccount with empty positions; settlement accounts as
// CashAccount; account types outside those two are skipped.
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	if c.state != LoggedIn {
		return nil, ErrNotLoggedIn
	}
	body, err := c.get(ctx, "list accounts", listAccountsEndpoint, nil)
	if err != nil {
		return nil, err
	}
	return parseAccountList(body)
}

// ListPortfolio fetches and parses the holdings page of one depot.
// accountNumber must be the identity key of a SecuritiesAccount returned by
// ListAccounts; the result describes the same account with positions
// populated.
func (c *Client) ListPortfolio(ctx context.Context, accountNumber string) (SecuritiesAccount, error) {
	if c.state != LoggedIn {
		return SecuritiesAccount{}, ErrNotLoggedIn
	}
	query := url.Values{"securityAccountNumber": {accountNumber}}
	body, err := c.get(ctx, "list portfolio", listPortfolioEndpoint, query)
	if err != nil {
		return SecuritiesAccount{}, err
	}
	return parsePortfolio(body, accountNumber)
}
