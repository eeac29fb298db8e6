package app

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vk/calcform/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// PushConfig describes a remote update of a live calculator session.
type PushConfig struct {
	URL                string
	Namespace          string
	Variables          Overrides
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Push connects to a calculator server, applies the variable updates in name
// order and writes the last rendered view to outW as JSON.
func Push(ctx context.Context, outW io.Writer, cfg PushConfig) error {
	logger := ctxlog.FromContext(ctx).With("url", cfg.URL)
	logger.Debug("Push started")
	defer logger.Debug("Push finished")

	if cfg.Namespace == "" {
		cfg.Namespace = "/"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	opCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return fmt.Errorf("URL %q must be absolute", cfg.URL)
	}
	path := parsedURL.Path
	if path == "" || path == "/" {
		path = "/socket.io/"
	}

	names := make([]string, 0, len(cfg.Variables))
	for name := range cfg.Variables {
		names = append(names, name)
	}
	sort.Strings(names)

	opts := socket.DefaultOptions()
	opts.SetPath(path)
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	client := manager.Socket(cfg.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		client.Disconnect()
	}()

	var isConnected atomic.Bool
	// One render arrives on connect and one after each update.
	var renders atomic.Int64
	want := int64(len(names) + 1)
	done := make(chan error, 1)
	finish := func(err error) {
		select {
		case done <- err:
		default:
		}
	}
	var (
		mu   sync.Mutex
		last any
	)

	client.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Info("Successfully connected", "sid", client.Id())
		for _, name := range names {
			logger.Debug("Emitting update", "name", name, "value", cfg.Variables[name])
			client.Emit(EventUpdateVariable, map[string]any{"name": name, "value": cfg.Variables[name]})
		}
	})
	client.On(types.EventName("connect_error"), func(errs ...any) {
		finish(fmt.Errorf("socket.io connection failed: %v", errs[0]))
	})
	client.On(types.EventName(EventError), func(data ...any) {
		finish(fmt.Errorf("server rejected update: %v", firstArg(data)))
	})
	client.On(types.EventName(EventRender), func(data ...any) {
		mu.Lock()
		last = firstArg(data)
		mu.Unlock()
		if renders.Add(1) >= want {
			finish(nil)
		}
	})

	client.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return fmt.Errorf("timed out after connecting while waiting for '%s'", EventRender)
		}
		return fmt.Errorf("timed out while waiting for initial connection")
	case err := <-done:
		if err != nil {
			return err
		}
	}

	mu.Lock()
	defer mu.Unlock()
	enc := json.NewEncoder(outW)
	enc.SetIndent("", "  ")
	return enc.Encode(last)
}

func firstArg(data []any) any {
	if len(data) == 0 {
		return nil
	}
	return data[0]
}
