package wifi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"

	"wxdisplay/internal/config"
)

const (
	nmDest      = "org.freedesktop.NetworkManager"
	nmPath      = dbus.ObjectPath("/org/freedesktop/NetworkManager")
	nmDevice    = nmDest + ".Device"
	dbusPropGet = "org.freedesktop.DBus.Properties.Get"
	dbusPropSet = "org.freedesktop.DBus.Properties.Set"
)

// NetworkManager device states and state reasons used by nmStatus.
const (
	nmStateUnmanaged    uint32 = 10
	nmStateUnavailable  uint32 = 20
	nmStateDisconnected uint32 = 30
	nmStatePrepare      uint32 = 40
	nmStateActivated    uint32 = 100
	nmStateDeactivating uint32 = 110
	nmStateFailed       uint32 = 120

	nmReasonNoSecrets            uint32 = 7
	nmReasonSupplicantDisconnect uint32 = 8
	nmReasonSSIDNotFound         uint32 = 53
)

// OpenRadio returns the radio selected by RADIO_DRIVER.
func OpenRadio(cfg config.Config) (Radio, error) {
	switch cfg.RadioDriver {
	case "sim":
		slog.Info("wifi: using simulated radio")
		return NewSim(), nil
	case "networkmanager":
		return NewNetworkManagerRadio(cfg.WiFiInterface)
	default:
		return nil, fmt.Errorf("unknown radio driver %q", cfg.RadioDriver)
	}
}

// NetworkManagerRadio drives one wireless device through the NetworkManager
// D-Bus API. Associations are added as volatile profiles so nothing is left
// behind in the system connection store.
type NetworkManagerRadio struct {
	conn    *dbus.Conn
	iface   string
	device  dbus.ObjectPath
	profile dbus.ObjectPath
}

func NewNetworkManagerRadio(iface string) (*NetworkManagerRadio, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect system bus: %w", err)
	}

	var device dbus.ObjectPath
	if err := conn.Object(nmDest, nmPath).Call(nmDest+".GetDeviceByIpIface", 0, iface).Store(&device); err != nil {
		return nil, fmt.Errorf("find wireless device %q: %w", iface, err)
	}
	slog.Info("wifi: networkmanager radio ready", "iface", iface, "device", device)
	return &NetworkManagerRadio{conn: conn, iface: iface, device: device}, nil
}

func (r *NetworkManagerRadio) Wake(ctx context.Context) error {
	return r.setWirelessEnabled(ctx, true)
}

func (r *NetworkManagerRadio) Sleep(ctx context.Context) error {
	return r.setWirelessEnabled(ctx, false)
}

// Reset drops any association and power-cycles the radio.
func (r *NetworkManagerRadio) Reset(ctx context.Context) error {
	if err := r.conn.Object(nmDest, r.device).CallWithContext(ctx, nmDevice+".Disconnect", 0).Err; err != nil {
		// Disconnect fails when the device is not active; that is the state we want.
		slog.Debug("wifi: device disconnect", "err", err)
	}
	if err := r.setWirelessEnabled(ctx, false); err != nil {
		return err
	}
	return r.setWirelessEnabled(ctx, true)
}

func (r *NetworkManagerRadio) Begin(ctx context.Context, ssid, secret string) error {
	settings := map[string]map[string]dbus.Variant{
		"connection": {
			"id":          dbus.MakeVariant("wxdisplay-" + ssid),
			"type":        dbus.MakeVariant("802-11-wireless"),
			"autoconnect": dbus.MakeVariant(false),
		},
		"802-11-wireless": {
			"ssid": dbus.MakeVariant([]byte(ssid)),
			"mode": dbus.MakeVariant("infrastructure"),
		},
	}
	if secret != "" {
		settings["802-11-wireless-security"] = map[string]dbus.Variant{
			"key-mgmt": dbus.MakeVariant("wpa-psk"),
			"psk":      dbus.MakeVariant(secret),
		}
	}
	options := map[string]dbus.Variant{
		"persist": dbus.MakeVariant("volatile"),
	}

	var (
		profile dbus.ObjectPath
		active  dbus.ObjectPath
		result  map[string]dbus.Variant
	)
	call := r.conn.Object(nmDest, nmPath).CallWithContext(ctx, nmDest+".AddAndActivateConnection2", 0,
		settings, r.device, dbus.ObjectPath("/"), options)
	if err := call.Store(&profile, &active, &result); err != nil {
		return fmt.Errorf("activate %q on %s: %w", ssid, r.iface, err)
	}
	r.profile = profile
	slog.Debug("wifi: activation started", "profile", profile, "active", active)
	return nil
}

func (r *NetworkManagerRadio) Status(ctx context.Context) (Status, error) {
	var v dbus.Variant
	err := r.conn.Object(nmDest, r.device).CallWithContext(ctx, dbusPropGet, 0, nmDevice, "StateReason").Store(&v)
	if err != nil {
		return Idle, fmt.Errorf("read device state: %w", err)
	}
	pair, ok := v.Value().([]interface{})
	if !ok || len(pair) != 2 {
		return Idle, fmt.Errorf("unexpected StateReason %s", v)
	}
	state, ok1 := pair[0].(uint32)
	reason, ok2 := pair[1].(uint32)
	if !ok1 || !ok2 {
		return Idle, fmt.Errorf("unexpected StateReason %s", v)
	}
	return nmStatus(state, reason), nil
}

func (r *NetworkManagerRadio) setWirelessEnabled(ctx context.Context, on bool) error {
	err := r.conn.Object(nmDest, nmPath).CallWithContext(ctx, dbusPropSet, 0, nmDest, "WirelessEnabled", dbus.MakeVariant(on)).Err
	if err != nil {
		return fmt.Errorf("set WirelessEnabled=%t: %w", on, err)
	}
	return nil
}

// nmStatus folds a device (state, reason) pair into a station status.
func nmStatus(state, reason uint32) Status {
	switch {
	case state == nmStateActivated:
		return Connected
	case state >= nmStatePrepare && state < nmStateActivated:
		return Idle
	case state == nmStateDeactivating:
		return ConnectionLost
	case state == nmStateFailed || state == nmStateDisconnected:
		switch reason {
		case nmReasonSSIDNotFound:
			return NoSSIDAvail
		case nmReasonNoSecrets:
			return WrongPassword
		case nmReasonSupplicantDisconnect:
			return ConnectionLost
		}
		if state == nmStateFailed {
			return ConnectFailed
		}
		return Disconnected
	case state == nmStateUnavailable || state == nmStateUnmanaged:
		return Disconnected
	default:
		return Idle
	}
}
