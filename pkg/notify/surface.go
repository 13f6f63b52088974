package notify

import "github.com/portosite/backend/internal/domain"

// Permission mirrors the platform notification permission model: undecided
// until asked, then granted or denied.
type Permission int

const (
	PermissionDefault Permission = iota
	PermissionGranted
	PermissionDenied
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "default"
	}
}

// Surfacer renders one surfacing event to the user. Implementations are
// purely reactive and hold no notification data of their own; deduplication
// happens upstream in the Store.
type Surfacer interface {
	Surface(n *domain.Notification)
}
