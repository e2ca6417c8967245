package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/five82/foxnuts/internal/cart"
	"github.com/five82/foxnuts/internal/catalog"
	"github.com/five82/foxnuts/internal/config"
	"github.com/five82/foxnuts/internal/kv"
	"github.com/five82/foxnuts/internal/logging"
	"github.com/five82/foxnuts/internal/notify"
	"github.com/five82/foxnuts/internal/persist"
	"github.com/five82/foxnuts/internal/session"
	"github.com/five82/foxnuts/internal/state"
	"github.com/five82/foxnuts/internal/storefront"
	"github.com/five82/foxnuts/internal/wishlist"
)

var (
	_ cart.Remote     = (*storefront.Client)(nil)
	_ wishlist.Remote = (*storefront.Client)(nil)
)

const noticeBacklog = 20

// Options configure the foxnuts application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/foxnuts/prefs.toml
	APIURL     string // overrides api_url from the config file

	// The fields below replace what New would otherwise build.
	Config   *config.Config
	Storage  kv.Store
	Logger   *slog.Logger
	Catalog  *catalog.Catalog
	Registry *prometheus.Registry
}

// Shop is the context object shared by everything the UI does. It is built
// once and owns the only session, cart and wishlist of the process.
type Shop struct {
	Config   config.Config
	Logger   *slog.Logger
	Storage  kv.Store
	Session  *session.Session
	Client   *storefront.Client
	Mirror   *persist.Mirror
	Feed     *notify.Feed
	Catalog  *catalog.Catalog
	Cart     *cart.Store
	Wishlist *wishlist.Store
	View     *state.Store
	Registry *prometheus.Registry

	closeLog func() error
	now      func() time.Time
}

// New wires a Shop. Nothing touches the network until a store mutates while
// signed in or Wishlist.Hydrate is called.
func New(opts Options) (*Shop, error) {
	var cfg config.Config
	if opts.Config != nil {
		cfg = *opts.Config
	} else {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}

	s := &Shop{Config: cfg, now: time.Now, closeLog: func() error { return nil }}

	s.Logger = opts.Logger
	if s.Logger == nil {
		logger, closeLog, err := logging.New(logging.Options{
			Service: "foxnuts",
			Level:   cfg.LogLevel,
			Path:    cfg.LogPath(),
		})
		if err != nil {
			return nil, fmt.Errorf("init logging: %w", err)
		}
		s.Logger, s.closeLog = logger, closeLog
	}

	s.Storage = opts.Storage
	if s.Storage == nil {
		store, err := kv.OpenFileStore(cfg.StorageDir())
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		s.Storage = store
	}

	s.Session = session.New(s.Storage, s.Logger)

	client, err := storefront.NewClient(cfg.APIURL, storefront.Options{
		Tokens:  s.Session,
		Timeout: cfg.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init storefront client: %w", err)
	}
	s.Client = client

	s.Registry = opts.Registry
	if s.Registry == nil {
		s.Registry = prometheus.NewRegistry()
		s.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	s.Mirror = persist.NewMirror(s.Session, s.Logger, persist.NewMetrics(s.Registry))
	s.Feed = notify.NewFeed(noticeBacklog)

	s.Catalog = opts.Catalog
	if s.Catalog == nil {
		s.Catalog = catalog.Default()
	}

	s.Cart, err = cart.NewStore(cart.Options{
		Storage:  s.Storage,
		Mirror:   s.Mirror,
		Remote:   client,
		Notifier: s.Feed,
		Logger:   s.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init cart: %w", err)
	}
	s.Wishlist, err = wishlist.NewStore(wishlist.Options{
		Storage:  s.Storage,
		Mirror:   s.Mirror,
		Remote:   client,
		Notifier: s.Feed,
		Logger:   s.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init wishlist: %w", err)
	}

	s.registerGauges()

	s.View = state.New(state.Sources{
		Cart:     s.Cart,
		Wishlist: s.Wishlist,
		Session:  s.Session,
		Feed:     s.Feed,
	})

	s.Logger.Info("shop ready",
		"api_url", client.BaseURL(),
		"signed_in", s.Session.Active(),
		"cart_items", s.Cart.Count(),
		"wishlist_entries", s.Wishlist.Count(),
	)
	return s, nil
}

func (s *Shop) registerGauges() {
	s.Registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "foxnuts",
			Name:      "cart_items",
			Help:      "Total quantity across cart lines.",
		}, func() float64 { return float64(s.Cart.Count()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "foxnuts",
			Name:      "wishlist_entries",
			Help:      "Products in the wishlist.",
		}, func() float64 { return float64(s.Wishlist.Count()) }),
	)
}

// Login signs in with email and password. Failures are reported both as the
// returned error and as a notice.
func (s *Shop) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return s.reject("Email and password are required")
	}
	resp, err := s.Client.Login(ctx, storefront.Credentials{Email: email, Password: password})
	if err != nil {
		return s.remoteFailed("login", err, "Login failed")
	}
	return s.signIn("login", resp)
}

// Register creates an account and signs in with it.
func (s *Shop) Register(ctx context.Context, name, email, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return s.reject("Name, email and password are required")
	}
	resp, err := s.Client.Register(ctx, storefront.Registration{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return s.remoteFailed("register", err, "Registration failed")
	}
	return s.signIn("register", resp)
}

// Logout forgets the session. Cart and wishlist stay on this device; they are
// simply no longer mirrored.
func (s *Shop) Logout() error {
	err := s.Session.SignOut()
	if err != nil {
		s.Logger.Warn("sign out persist failed", "error", err)
	}
	notify.Send(s.Feed, notify.Info, "Signed out")
	s.View.Refresh()
	return err
}

// SubscribeNewsletter adds email to the mailing list. It does not need a
// session.
func (s *Shop) SubscribeNewsletter(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return s.reject("Email is required")
	}
	ack, err := s.Client.SubscribeNewsletter(ctx, email)
	if err != nil {
		return s.remoteFailed("newsletter", err, "Subscription failed")
	}
	msg := ack.Message
	if msg == "" {
		msg = "Subscribed to the newsletter"
	}
	notify.Send(s.Feed, notify.Info, msg)
	return nil
}

// Close waits for in-flight mirror calls, bounded by ctx, and releases the
// log file.
func (s *Shop) Close(ctx context.Context) error {
	s.View.Close()
	waitErr := s.Mirror.WaitContext(ctx)
	if waitErr != nil {
		s.Logger.Warn("mirror calls still running at shutdown", "error", waitErr)
	}
	return errors.Join(waitErr, s.closeLog())
}

func (s *Shop) signIn(op string, resp storefront.AuthResponse) error {
	if strings.TrimSpace(resp.Token) == "" {
		return s.remoteFailed(op, errors.New("response carried no token"), "Sign in failed")
	}
	user := session.User{ID: resp.User.ID, Name: resp.User.Name, Email: resp.User.Email}
	if err := s.Session.SignIn(resp.Token, user); err != nil {
		// The in-memory session is live; only the stored copy is missing.
		s.Logger.Warn("session persist failed", "op", op, "error", err)
	}
	s.Logger.Info("signed in", "op", op, "user_id", user.ID)

	greeting := "Welcome back"
	if op == "register" {
		greeting = "Welcome"
	}
	name := user.Name
	if name == "" {
		name = user.Email
	}
	notify.Send(s.Feed, notify.Info, fmt.Sprintf("%s, %s!", greeting, name))
	s.View.Refresh()
	return nil
}

func (s *Shop) reject(msg string) error {
	notify.Send(s.Feed, notify.Failure, msg)
	return errors.New(strings.ToLower(msg[:1]) + msg[1:])
}

func (s *Shop) remoteFailed(op string, err error, fallback string) error {
	s.Logger.Warn("remote call failed", "op", op, "error", err)
	msg := fallback
	var apiErr *storefront.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	notify.Send(s.Feed, notify.Failure, msg)
	return fmt.Errorf("%s: %w", op, err)
}
