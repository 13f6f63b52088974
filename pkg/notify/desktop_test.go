package notify

import (
	"testing"

	"go.uber.org/zap"
)

func TestRequestPermissionPromptsAtMostOnce(t *testing.T) {
	t.Parallel()

	prompts := 0
	surfacer := NewDesktopSurfacer(zap.NewNop(), func() Permission {
		prompts++
		return PermissionGranted
	})

	if got := surfacer.RequestPermission(); got != PermissionGranted {
		t.Fatalf("RequestPermission() = %v, want granted", got)
	}
	surfacer.RequestPermission()
	surfacer.RequestPermission()

	if prompts != 1 {
		t.Errorf("platform prompted %d times, want 1", prompts)
	}
}

func TestRequestPermissionNeverRepromptsAfterDenial(t *testing.T) {
	t.Parallel()

	prompts := 0
	surfacer := NewDesktopSurfacer(zap.NewNop(), func() Permission {
		prompts++
		return PermissionDenied
	})

	if got := surfacer.RequestPermission(); got != PermissionDenied {
		t.Fatalf("RequestPermission() = %v, want denied", got)
	}
	if got := surfacer.RequestPermission(); got != PermissionDenied {
		t.Fatalf("second RequestPermission() = %v, want denied", got)
	}
	if prompts != 1 {
		t.Errorf("platform prompted %d times after denial, want 1", prompts)
	}
}

func TestSurfaceSuppressedWithoutGrant(t *testing.T) {
	t.Parallel()

	surfacer := NewDesktopSurfacer(zap.NewNop(), func() Permission {
		return PermissionDenied
	})
	surfacer.RequestPermission()

	// Must be a silent no-op; a denied surfacer never reaches the platform.
	surfacer.Surface(makeNotification(t, "suppressed"))

	if got := surfacer.Permission(); got != PermissionDenied {
		t.Errorf("Permission() = %v, want denied", got)
	}
}

func TestSurfaceBeforePermissionRequested(t *testing.T) {
	t.Parallel()

	surfacer := NewDesktopSurfacer(zap.NewNop(), nil)

	// Undecided permission suppresses alerts the same way a denial does.
	surfacer.Surface(makeNotification(t, "early"))

	if got := surfacer.Permission(); got != PermissionDefault {
		t.Errorf("Permission() = %v, want default", got)
	}
}
