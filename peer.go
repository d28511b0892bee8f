package goclock

import (
	"fmt"
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"
	"tinygo.org/x/bluetooth"
)

// Identity of the paired clock. The peripheral is a serial-port-profile module,
// so the stream is opened against the well-known SPP service.
const (
	PeerAddress           = "FC:A8:9A:00:0A:3A"
	SerialPortServiceUUID = "00001101-0000-1000-8000-00805F9B34FB"
	DefaultChannel        = 1
)

const (
	bluezBusName         = "org.bluez"
	bluezDeviceInterface = "org.bluez.Device1"
	bluezDefaultAdapter  = "hci0"
)

// BTAdapter is the adapter used for every connection.
var BTAdapter = bluetooth.DefaultAdapter

// Peer identifies the single fixed peripheral.
type Peer struct {
	Address     string
	Name        string
	MAC         bluetooth.MAC
	ServiceUUID bluetooth.UUID
	Channel     uint8
}

// NewPeer validates the address and service identifier and returns a Peer.
func NewPeer(address, serviceUUID string, channel uint8) (Peer, error) {
	address = strings.ToUpper(strings.TrimSpace(address))
	mac, err := bluetooth.ParseMAC(address)
	if err != nil {
		return Peer{}, fmt.Errorf("invalid peer address %q: %w", address, err)
	}
	uuid, err := bluetooth.ParseUUID(serviceUUID)
	if err != nil {
		return Peer{}, fmt.Errorf("invalid service uuid %q: %w", serviceUUID, err)
	}
	if channel == 0 {
		channel = DefaultChannel
	}
	return Peer{
		Address:     address,
		MAC:         mac,
		ServiceUUID: uuid,
		Channel:     channel,
	}, nil
}

// DefaultPeer returns the compiled-in clock identity.
func DefaultPeer() Peer {
	p, err := NewPeer(PeerAddress, SerialPortServiceUUID, DefaultChannel)
	if err != nil {
		panic(err)
	}
	return p
}

// DisplayName is the name used in user-facing notifications.
func (p Peer) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Address
}

// TryEnableAdapter makes sure the local adapter is powered and usable.
func TryEnableAdapter() error {
	if err := BTAdapter.Enable(); err != nil {
		return fmt.Errorf("could not enable bluetooth adapter: %w", err)
	}
	return nil
}

// BondedPeer is a device the local adapter is paired with.
type BondedPeer struct {
	Name    string
	Address string
}

// ResolveName asks BlueZ for the peer's alias (or name). When BlueZ is not reachable
// or does not know the device, the peer is returned unchanged.
func ResolveName(p Peer) Peer {
	if p.Name != "" {
		return p
	}
	conn, err := dbus.SystemBus()
	if err != nil {
		log.Debug().Err(err).Msg("system bus unavailable, using address as display name")
		return p
	}

	obj := conn.Object(bluezBusName, deviceObjectPath(bluezDefaultAdapter, p.Address))
	for _, prop := range []string{"Alias", "Name"} {
		v, err := obj.GetProperty(bluezDeviceInterface + "." + prop)
		if err != nil {
			continue
		}
		if name, ok := v.Value().(string); ok && name != "" {
			p.Name = name
			log.Debug().Str("peer", p.Address).Str("name", name).Msg("resolved peer name")
			return p
		}
	}
	return p
}

// VerifyService checks that BlueZ lists the peer's service UUID among the device's
// UUIDs. When BlueZ cannot be asked, or has not resolved the device's services yet,
// the check passes and the dial decides.
func VerifyService(p Peer) error {
	conn, err := dbus.SystemBus()
	if err != nil {
		log.Debug().Err(err).Msg("system bus unavailable, skipping service check")
		return nil
	}

	obj := conn.Object(bluezBusName, deviceObjectPath(bluezDefaultAdapter, p.Address))
	v, err := obj.GetProperty(bluezDeviceInterface + ".UUIDs")
	if err != nil {
		log.Debug().Err(err).Str("peer", p.Address).Msg("device services unknown, skipping service check")
		return nil
	}
	uuids, _ := v.Value().([]string)
	return checkServiceUUIDs(p, uuids)
}

// checkServiceUUIDs matches the peer's service against a Device1.UUIDs list. An empty
// list means the services were never resolved.
func checkServiceUUIDs(p Peer, uuids []string) error {
	if len(uuids) == 0 {
		return nil
	}
	for _, s := range uuids {
		u, err := bluetooth.ParseUUID(s)
		if err != nil {
			continue
		}
		if u == p.ServiceUUID {
			return nil
		}
	}
	return fmt.Errorf("%w: %s lacks %s", ErrServiceNotAdvertised, p.Address, p.ServiceUUID)
}

// BondedPeers lists the devices paired with the local adapter.
func BondedPeers() ([]BondedPeer, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system D-Bus: %w", err)
	}

	var objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	err = conn.Object(bluezBusName, "/").
		Call("org.freedesktop.DBus.ObjectManager.GetManagedObjects", 0).
		Store(&objects)
	if err != nil {
		return nil, fmt.Errorf("failed to list bluez objects: %w", err)
	}
	return bondedFromObjects(objects), nil
}

// bondedFromObjects picks the paired Device1 entries out of a GetManagedObjects reply.
func bondedFromObjects(objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant) []BondedPeer {
	peers := make([]BondedPeer, 0)
	for _, ifaces := range objects {
		props, ok := ifaces[bluezDeviceInterface]
		if !ok {
			continue
		}
		paired, _ := props["Paired"].Value().(bool)
		if !paired {
			continue
		}
		addr, _ := props["Address"].Value().(string)
		name, _ := props["Alias"].Value().(string)
		if name == "" {
			name, _ = props["Name"].Value().(string)
		}
		peers = append(peers, BondedPeer{Name: name, Address: addr})
	}
	sort.Slice(peers, func(i, j int) bool { return peers[i].Address < peers[j].Address })
	return peers
}

// deviceObjectPath builds the BlueZ object path for a device, e.g.
// /org/bluez/hci0/dev_FC_A8_9A_00_0A_3A.
func deviceObjectPath(adapter, address string) dbus.ObjectPath {
	dev := "dev_" + strings.ReplaceAll(strings.ToUpper(address), ":", "_")
	return dbus.ObjectPath("/org/bluez/" + adapter + "/" + dev)
}
