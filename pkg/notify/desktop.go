package notify

import (
	"sync"

	"github.com/gen2brain/beeep"
	"go.uber.org/zap"

	"github.com/portosite/backend/internal/domain"
)

// PromptFunc asks the platform for notification permission and returns the
// user's decision. The default prompt grants.
type PromptFunc func() Permission

// DesktopSurfacer renders surfacing events as native OS alerts, honoring
// the permission model: permission is requested at most once, only while
// still undecided, and a denial is never re-prompted. With permission
// anything but granted, Surface silently does nothing.
type DesktopSurfacer struct {
	mu         sync.Mutex
	permission Permission
	asked      bool
	prompt     PromptFunc
	logger     *zap.Logger
}

func NewDesktopSurfacer(logger *zap.Logger, prompt PromptFunc) *DesktopSurfacer {
	if prompt == nil {
		prompt = func() Permission { return PermissionGranted }
	}
	return &DesktopSurfacer{
		permission: PermissionDefault,
		prompt:     prompt,
		logger:     logger,
	}
}

// RequestPermission triggers the platform prompt if permission is still
// undecided. Repeated calls, and calls after a denial, change nothing.
func (d *DesktopSurfacer) RequestPermission() Permission {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.permission == PermissionDefault && !d.asked {
		d.asked = true
		d.permission = d.prompt()
		d.logger.Info("notification permission decided", zap.String("permission", d.permission.String()))
	}
	return d.permission
}

// Permission returns the current permission state.
func (d *DesktopSurfacer) Permission() Permission {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.permission
}

// Surface renders one native alert with the notification's title and body.
// Alert failures are logged and swallowed: native alerts are best-effort on
// top of the in-app list, never the delivery mechanism.
func (d *DesktopSurfacer) Surface(n *domain.Notification) {
	if d.Permission() != PermissionGranted {
		return
	}

	if err := beeep.Notify(n.Title, n.Message, ""); err != nil {
		d.logger.Warn("native alert failed", zap.String("notification_id", n.ID.String()), zap.Error(err))
	}
}
