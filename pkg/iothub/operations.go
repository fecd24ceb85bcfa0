package iothub

import (
	"context"
	"fmt"
	"net/url"
)

// Twin is a device twin document, passed through without interpretation.
type Twin map[string]any

// Device is a device identity document from the hub registry.
type Device map[string]any

func devicePath(deviceID string) string {
	return fmt.Sprintf("/devices/%s?api-version=%s", url.PathEscape(deviceID), APIVersion)
}

func twinPath(deviceID string) string {
	return fmt.Sprintf("/twins/%s?api-version=%s", url.PathEscape(deviceID), APIVersion)
}

// SendDeviceMessage posts a device-to-cloud message. The response body is
// discarded without being decoded.
func (c *Client) SendDeviceMessage(ctx context.Context, deviceID string, message any) error {
	path := fmt.Sprintf("/devices/%s/messages/events?api-version=%s", url.PathEscape(deviceID), APIVersion)
	return c.post(ctx, path, message, nil)
}

// GetDeviceTwin returns the twin for deviceID.
func (c *Client) GetDeviceTwin(ctx context.Context, deviceID string) (Twin, error) {
	var twin Twin
	if err := c.get(ctx, twinPath(deviceID), &twin); err != nil {
		return nil, err
	}
	return twin, nil
}

// UpdateDeviceTwin patches tags and desired properties of a twin.
func (c *Client) UpdateDeviceTwin(ctx context.Context, deviceID string, properties any) (Twin, error) {
	var twin Twin
	if err := c.patch(ctx, twinPath(deviceID), properties, &twin); err != nil {
		return nil, err
	}
	return twin, nil
}

// ReplaceDeviceTwin replaces tags and desired properties of a twin.
func (c *Client) ReplaceDeviceTwin(ctx context.Context, deviceID string, properties any) (Twin, error) {
	var twin Twin
	if err := c.put(ctx, twinPath(deviceID), properties, &twin); err != nil {
		return nil, err
	}
	return twin, nil
}

// ListDevices retrieves devices from the identity registry.
func (c *Client) ListDevices(ctx context.Context) ([]Device, error) {
	var devices []Device
	if err := c.get(ctx, "/devices/?api-version="+APIVersion, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// GetDevice retrieves a device from the identity registry.
func (c *Client) GetDevice(ctx context.Context, deviceID string) (Device, error) {
	var device Device
	if err := c.get(ctx, devicePath(deviceID), &device); err != nil {
		return nil, err
	}
	return device, nil
}

// DeleteDevice removes deviceID from the identity registry. The reply body is
// decoded and ignored; an empty 204 therefore returns a ParseError.
func (c *Client) DeleteDevice(ctx context.Context, deviceID string) error {
	return c.delete(ctx, devicePath(deviceID))
}
