package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samvad-hq/iothub-client/internal/config"
	"github.com/samvad-hq/iothub-client/internal/logger"
	"github.com/samvad-hq/iothub-client/internal/storage"
	"github.com/samvad-hq/iothub-client/pkg/httpclient"
	"github.com/samvad-hq/iothub-client/pkg/iothub"
)

// Console wires the hub client, snapshot store and logger behind the CLI
// commands. Results are written to out as indented JSON.
type Console struct {
	hub      *iothub.Client
	store    storage.Store
	out      io.Writer
	log      logger.Logger
	registry *prometheus.Registry
}

// NewConsole builds a console runtime from config.
func NewConsole(cfg *config.Config, log logger.Logger, out io.Writer) (*Console, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	var transport httpclient.Transport = httpclient.NewRestyClient(cfg.HTTPTimeout)
	var registry *prometheus.Registry
	if cfg.MetricsEnabled {
		instrumented := httpclient.NewInstrumentedTransport(transport)
		registry = prometheus.NewRegistry()
		registry.MustRegister(instrumented.Collectors()...)
		transport = instrumented
	}

	store, err := openStore(cfg, log)
	if err != nil {
		return nil, err
	}

	c, err := newConsole(cfg, transport, store, log, out)
	if err != nil {
		store.Close()
		return nil, err
	}
	c.registry = registry
	return c, nil
}

// NewSnapshotConsole builds a console that only reads the local snapshot
// store; it holds no hub client, so only LastTwin may be called on it.
func NewSnapshotConsole(cfg *config.Config, log logger.Logger, out io.Writer) (*Console, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	store, err := openStore(cfg, log)
	if err != nil {
		return nil, err
	}
	return &Console{store: store, out: out, log: log}, nil
}

func openStore(cfg *config.Config, log logger.Logger) (storage.Store, error) {
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		SnapshotTTL:     cfg.SnapshotTTL,
		CleanupInterval: cfg.SnapshotCleanup,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"snapshot_ttl_seconds":     int(cfg.SnapshotTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.SnapshotCleanup.Seconds()),
	})
	return store, nil
}

func newConsole(cfg *config.Config, transport httpclient.Transport, store storage.Store, log logger.Logger, out io.Writer) (*Console, error) {
	var (
		hub *iothub.Client
		err error
	)
	if cfg.BaseURL != "" {
		hub, err = iothub.NewWithBaseURL(transport, cfg.BaseURL, cfg.SASToken, log)
	} else {
		hub, err = iothub.New(transport, cfg.HubName, cfg.SASToken, log)
	}
	if err != nil {
		return nil, fmt.Errorf("init hub client: %w", err)
	}
	log.InfoObj("hub client ready", "hub", map[string]any{"base_url": hub.BaseURL()})

	return &Console{hub: hub, store: store, out: out, log: log}, nil
}

// Close releases the snapshot store and logs request metrics when enabled.
func (c *Console) Close() error {
	if c == nil {
		return nil
	}
	c.logMetrics()
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

func (c *Console) logMetrics() {
	if c.registry == nil {
		return
	}
	families, err := c.registry.Gather()
	if err != nil {
		c.log.WarnObj("gather metrics failed", "error", err)
		return
	}
	summary := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += fmt.Sprintf(" %s=%s", lp.GetName(), lp.GetValue())
			}
			summary[key] = m.GetCounter().GetValue()
		}
	}
	c.log.InfoObj("request metrics", "metrics", summary)
}

// SendMessage posts a device-to-cloud message.
func (c *Console) SendMessage(ctx context.Context, deviceID string, message any) error {
	if err := c.hub.SendDeviceMessage(ctx, deviceID, message); err != nil {
		return fmt.Errorf("send message to %s: %w", deviceID, err)
	}
	return c.print(map[string]any{"deviceId": deviceID, "sent": true})
}

// GetTwin prints the twin and records it as the latest snapshot.
func (c *Console) GetTwin(ctx context.Context, deviceID string) error {
	twin, err := c.hub.GetDeviceTwin(ctx, deviceID)
	if err != nil {
		return fmt.Errorf("get twin %s: %w", deviceID, err)
	}
	if err := c.store.SaveTwin(deviceID, twin); err != nil {
		c.log.WarnObj("twin snapshot not saved", "snapshot_error", map[string]any{
			"device_id": deviceID,
			"error":     err.Error(),
		})
	}
	return c.print(twin)
}

// UpdateTwin patches the twin with properties.
func (c *Console) UpdateTwin(ctx context.Context, deviceID string, properties any) error {
	twin, err := c.hub.UpdateDeviceTwin(ctx, deviceID, properties)
	if err != nil {
		return fmt.Errorf("update twin %s: %w", deviceID, err)
	}
	return c.print(twin)
}

// ReplaceTwin replaces the twin with properties.
func (c *Console) ReplaceTwin(ctx context.Context, deviceID string, properties any) error {
	twin, err := c.hub.ReplaceDeviceTwin(ctx, deviceID, properties)
	if err != nil {
		return fmt.Errorf("replace twin %s: %w", deviceID, err)
	}
	return c.print(twin)
}

// LastTwin prints the most recent local snapshot without contacting the hub.
func (c *Console) LastTwin(deviceID string) error {
	twin, savedAt, ok, err := c.store.LastTwin(deviceID)
	if err != nil {
		return fmt.Errorf("read twin snapshot %s: %w", deviceID, err)
	}
	if !ok {
		return fmt.Errorf("no twin snapshot stored for %s (snapshots need storage_type=bbolt)", deviceID)
	}
	return c.print(map[string]any{
		"deviceId": deviceID,
		"savedAt":  savedAt.UTC().Format(time.RFC3339),
		"twin":     twin,
	})
}

// ListDevices prints the identity registry.
func (c *Console) ListDevices(ctx context.Context) error {
	devices, err := c.hub.ListDevices(ctx)
	if err != nil {
		return fmt.Errorf("list devices: %w", err)
	}
	if devices == nil {
		devices = []iothub.Device{}
	}
	return c.print(devices)
}

// GetDevice prints one device identity.
func (c *Console) GetDevice(ctx context.Context, deviceID string) error {
	device, err := c.hub.GetDevice(ctx, deviceID)
	if err != nil {
		return fmt.Errorf("get device %s: %w", deviceID, err)
	}
	return c.print(device)
}

// DeleteDevice removes a device identity.
func (c *Console) DeleteDevice(ctx context.Context, deviceID string) error {
	if err := c.hub.DeleteDevice(ctx, deviceID); err != nil {
		return fmt.Errorf("delete device %s: %w", deviceID, err)
	}
	return c.print(map[string]any{"deviceId": deviceID, "deleted": true})
}

func (c *Console) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
