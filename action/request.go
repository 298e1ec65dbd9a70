package action

import (
	"fmt"

	"github.com/poiesic/launchpad/core"
)

// RequestKind tags the requests a Sink executes.
type RequestKind int

const (
	// LaunchApp starts an app activity.
	LaunchApp RequestKind = iota + 1
	// OpenAppDetails opens the system settings page of a package.
	OpenAppDetails
	// LaunchShortcut starts a pinned shortcut.
	LaunchShortcut
	// WebSearch opens a web search for a query.
	WebSearch
)

func (k RequestKind) String() string {
	switch k {
	case LaunchApp:
		return "launch-app"
	case OpenAppDetails:
		return "open-app-details"
	case LaunchShortcut:
		return "launch-shortcut"
	case WebSearch:
		return "web-search"
	default:
		return "unknown"
	}
}

// Request carries what the platform needs to execute one effect. Only the
// fields relevant to Kind are set.
type Request struct {
	Kind         RequestKind
	ItemID       string
	PackageName  string
	ActivityName string
	Shortcut     core.ShortcutRef
	Query        string
}

func (r Request) String() string {
	switch r.Kind {
	case LaunchApp:
		return fmt.Sprintf("%s %s/%s", r.Kind, r.PackageName, r.ActivityName)
	case OpenAppDetails:
		return fmt.Sprintf("%s package:%s", r.Kind, r.PackageName)
	case LaunchShortcut:
		return fmt.Sprintf("%s %s (%s)", r.Kind, r.Shortcut.ID, r.Shortcut.PackageName)
	case WebSearch:
		return fmt.Sprintf("%s %q", r.Kind, r.Query)
	default:
		return r.Kind.String()
	}
}

func launchAppRequest(app core.AppItem) Request {
	return Request{
		Kind:         LaunchApp,
		ItemID:       app.ID(),
		PackageName:  app.PackageName,
		ActivityName: app.ActivityName,
	}
}

func appDetailsRequest(app core.AppItem) Request {
	return Request{
		Kind:        OpenAppDetails,
		ItemID:      app.ID(),
		PackageName: app.PackageName,
	}
}

func launchShortcutRequest(shortcut core.ShortcutItem) Request {
	return Request{
		Kind:        LaunchShortcut,
		ItemID:      shortcut.ID(),
		PackageName: shortcut.Shortcut.PackageName,
		Shortcut:    shortcut.Shortcut,
	}
}

func webSearchRequest(query string) Request {
	return Request{
		Kind:  WebSearch,
		Query: query,
	}
}
