//go:build linux

package notify

import (
	"github.com/godbus/dbus/v5"
)

const (
	dbusNotifyDest      = "org.freedesktop.Notifications"
	dbusNotifyPath      = "/org/freedesktop/Notifications"
	dbusNotifyInterface = "org.freedesktop.Notifications"

	appName = "wavescope"
)

type dbusNotifier struct {
	obj dbus.BusObject
}

// New returns a Notifier on the session bus, or a no-op notifier when there
// is no session bus.
func New() Notifier {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nopNotifier{}
	}
	return &dbusNotifier{obj: conn.Object(dbusNotifyDest, dbusNotifyPath)}
}

// Notify(app_name, replaces_id, app_icon, summary, body, actions, hints,
// expire_timeout) -> id
func (n *dbusNotifier) Notify(notif Notification) (uint32, error) {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(notif.Urgency)),
		"desktop-entry": dbus.MakeVariant(appName),
	}
	call := n.obj.Call(
		dbusNotifyInterface+".Notify", 0,
		appName,
		notif.ReplacesID,
		notif.Icon,
		notif.Title,
		notif.Body,
		[]string{},
		hints,
		notif.Timeout,
	)
	if call.Err != nil {
		return 0, call.Err
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (n *dbusNotifier) Close(id uint32) error {
	return n.obj.Call(dbusNotifyInterface+".CloseNotification", 0, id).Err
}
