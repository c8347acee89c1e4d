package smartbroker

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
)

// newTestClient returns a client against srv with a cookie jar, the way a
// real caller would construct one.
func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewAt(&http.Client{Jar: jar}, srv.URL)
}

// portalHandler is a minimal stand-in for the portal: landing page sets the
// session cookie, login verifies the form, list endpoints serve fixtures.
func portalHandler(t *testing.T, loginBody string) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /smartbroker/{$}", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc123", Path: "/"})
	})
	mux.HandleFunc("POST /smartbroker/b3SecurityLoginCheck.xhtml", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("JSESSIONID"); err != nil {
			t.Error("login POST did not carry the landing page session cookie")
		}
		if err := r.ParseForm(); err != nil {
			t.Error(err)
		}
		for _, field := range []string{"login_query_string", "campaignIDs_MINIAPP_login", "accessNumber", "identifier"} {
			if !r.PostForm.Has(field) {
				t.Errorf("login POST misses form field %q", field)
			}
		}
		w.Write([]byte(loginBody))
	})
	mux.HandleFunc("GET /smartbroker/Finanzuebersicht/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(accountsFixture))
	})
	mux.HandleFunc("GET /Tradingcenter/Depot/Depotuebersicht/", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("securityAccountNumber"); got != "70012345" {
			t.Errorf("securityAccountNumber = %q, want 70012345", got)
		}
		w.Write([]byte(portfolioFixture))
	})
	mux.HandleFunc("GET /smartbroker/Logout.xhtml", func(w http.ResponseWriter, r *http.Request) {})
	return mux
}

func TestClientFullCycle(t *testing.T) {
	srv := httptest.NewServer(portalHandler(t, "<html>Willkommen</html>"))
	defer srv.Close()

	c := newTestClient(t, srv)
	ctx := context.Background()

	if c.State() != LoggedOut {
		t.Fatalf("fresh client state = %v, want logged out", c.State())
	}
	if err := c.Login(ctx, "12345678", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if c.State() != LoggedIn {
		t.Fatalf("state after login = %v, want logged in", c.State())
	}

	accounts, err := c.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("got %d accounts, want 2", len(accounts))
	}

	depot, err := c.ListPortfolio(ctx, "70012345")
	if err != nil {
		t.Fatalf("list portfolio: %v", err)
	}
	if depot.Number != "70012345" || len(depot.Positions) != 1 {
		t.Errorf("unexpected depot %+v", depot)
	}

	if err := c.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if c.State() != LoggedOut {
		t.Errorf("state after logout = %v, want logged out", c.State())
	}
}

func TestClientInvalidAuth(t *testing.T) {
	srv := httptest.NewServer(portalHandler(t, "<html>Ihre Legitimation war nicht erfolgreich.</html>"))
	defer srv.Close()

	c := newTestClient(t, srv)
	err := c.Login(context.Background(), "12345678", "wrong")
	if !IsAuthError(err) {
		t.Fatalf("login error = %v (%T), want *AuthError", err, err)
	}
	if c.State() != Failed {
		t.Fatalf("state after rejected login = %v, want failed", c.State())
	}
}

// After a failed login, list calls must fail fast without any round-trip.
func TestClientListRequiresLogin(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	if _, err := c.ListAccounts(context.Background()); err != ErrNotLoggedIn {
		t.Errorf("ListAccounts before login = %v, want ErrNotLoggedIn", err)
	}
	if _, err := c.ListPortfolio(context.Background(), "1"); err != ErrNotLoggedIn {
		t.Errorf("ListPortfolio before login = %v, want ErrNotLoggedIn", err)
	}
	if requests != 0 {
		t.Errorf("%d requests issued before login, want none", requests)
	}
}

func TestClientTransportFailures(t *testing.T) {
	t.Run("landing page error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		err := c.Login(context.Background(), "1", "2")
		if !IsConnectionError(err) {
			t.Fatalf("login error = %v (%T), want *ConnectionError", err, err)
		}
		if c.State() != Failed {
			t.Errorf("state = %v, want failed", c.State())
		}
	})

	t.Run("accounts endpoint 500", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /smartbroker/{$}", func(w http.ResponseWriter, r *http.Request) {})
		mux.HandleFunc("POST /smartbroker/b3SecurityLoginCheck.xhtml", func(w http.ResponseWriter, r *http.Request) {})
		mux.HandleFunc("GET /smartbroker/Finanzuebersicht/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		c := newTestClient(t, srv)
		ctx := context.Background()
		if err := c.Login(ctx, "1", "2"); err != nil {
			t.Fatal(err)
		}
		accounts, err := c.ListAccounts(ctx)
		if !IsConnectionError(err) {
			t.Fatalf("ListAccounts error = %v (%T), want *ConnectionError", err, err)
		}
		if accounts != nil {
			t.Errorf("got partial account list %v alongside error", accounts)
		}
	})

	t.Run("unreachable host", func(t *testing.T) {
		// a server that is already closed refuses connections
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		c := newTestClient(t, srv)
		err := c.Login(context.Background(), "1", "2")
		if !IsConnectionError(err) {
			t.Fatalf("login error = %v (%T), want *ConnectionError", err, err)
		}
	})
}

func TestClientLogoutFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv)
	err := c.Logout(context.Background())
	if !IsConnectionError(err) {
		t.Fatalf("logout error = %v (%T), want *ConnectionError", err, err)
	}
}

func TestClientLoginTwice(t *testing.T) {
	srv := httptest.NewServer(portalHandler(t, "ok"))
	defer srv.Close()

	c := newTestClient(t, srv)
	ctx := context.Background()
	if err := c.Login(ctx, "1", "2"); err != nil {
		t.Fatal(err)
	}
	if err := c.Login(ctx, "1", "2"); err == nil {
		t.Error("second login on a logged in client must fail")
	}
}
