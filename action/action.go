// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package action

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/ranking"
)

// DefaultLaunchDelay separates a launch request from recording the launch,
// so the grid does not reorder during the tap animation.
const DefaultLaunchDelay = time.Second

var (
	// ErrActionNotOffered indicates an action kind the item does not
	// support, such as Tertiary on a shortcut.
	ErrActionNotOffered = errors.New("action not offered for item")

	// ErrUnknownAction indicates an action kind outside Primary, Secondary
	// and Tertiary.
	ErrUnknownAction = errors.New("unknown action")

	// ErrNoItem indicates an action requested without an item.
	ErrNoItem = errors.New("no item")
)

// Kind is a user action on an item.
type Kind int

const (
	// Primary is a tap or the default "go" action.
	Primary Kind = iota + 1
	// Secondary is the first long-press option.
	Secondary
	// Tertiary is the second long-press option, offered for apps only.
	Tertiary
)

func (k Kind) String() string {
	switch k {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	case Tertiary:
		return "tertiary"
	default:
		return "unknown"
	}
}

// ParseKind parses the String form of a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "primary":
		return Primary, nil
	case "secondary":
		return Secondary, nil
	case "tertiary":
		return Tertiary, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

// EffectKind tags Effect variants.
type EffectKind int

const (
	// EffectRequest hands Effect.Request to the sink.
	EffectRequest EffectKind = iota + 1
	// EffectRecordLaunch increments the counter of Effect.ItemID after Effect.Delay.
	EffectRecordLaunch
	// EffectDelete soft-deletes Effect.ItemID.
	EffectDelete
	// EffectDeprioritize marks Effect.ItemID deprioritized.
	EffectDeprioritize
	// EffectUndeprioritize clears the deprioritization of Effect.ItemID.
	EffectUndeprioritize
)

func (k EffectKind) String() string {
	switch k {
	case EffectRequest:
		return "request"
	case EffectRecordLaunch:
		return "record-launch"
	case EffectDelete:
		return "delete"
	case EffectDeprioritize:
		return "deprioritize"
	case EffectUndeprioritize:
		return "undeprioritize"
	default:
		return "unknown"
	}
}

// Effect is one step of a Plan.
type Effect struct {
	Kind    EffectKind
	Request Request
	ItemID  string
	Delay   time.Duration
}

// Plan is the ordered list of effects an action produces. Effects run in
// order; a delayed effect is scheduled after the preceding ones ran.
type Plan struct {
	Action  Kind
	ItemID  string
	Effects []Effect
}

// IsEmpty reports whether the plan does nothing.
func (p Plan) IsEmpty() bool {
	return len(p.Effects) == 0
}

// Decide returns the plan for action kind on item.
func Decide(item core.LaunchItem, kind Kind, launchDelay time.Duration) (Plan, error) {
	if item == nil {
		return Plan{}, ErrNoItem
	}

	plan := Plan{Action: kind, ItemID: item.ID()}

	switch it := item.(type) {
	case core.AppItem:
		switch kind {
		case Primary:
			plan.Effects = append(plan.Effects, requestEffect(launchAppRequest(it)))
			if !it.IsDeprioritized() {
				plan.Effects = append(plan.Effects, Effect{Kind: EffectRecordLaunch, ItemID: plan.ItemID, Delay: launchDelay})
			}
		case Secondary:
			plan.Effects = append(plan.Effects, requestEffect(appDetailsRequest(it)))
		case Tertiary:
			if it.IsDeprioritized() {
				plan.Effects = append(plan.Effects, Effect{Kind: EffectUndeprioritize, ItemID: plan.ItemID})
			} else {
				plan.Effects = append(plan.Effects, Effect{Kind: EffectDeprioritize, ItemID: plan.ItemID})
			}
		default:
			return Plan{}, fmt.Errorf("%w: %d", ErrUnknownAction, kind)
		}
	case core.ShortcutItem:
		switch kind {
		case Primary:
			plan.Effects = append(plan.Effects,
				requestEffect(launchShortcutRequest(it)),
				Effect{Kind: EffectRecordLaunch, ItemID: plan.ItemID, Delay: launchDelay},
			)
		case Secondary:
			plan.Effects = append(plan.Effects, Effect{Kind: EffectDelete, ItemID: plan.ItemID})
		case Tertiary:
			return Plan{}, fmt.Errorf("%w: %s on %s", ErrActionNotOffered, kind, plan.ItemID)
		default:
			return Plan{}, fmt.Errorf("%w: %d", ErrUnknownAction, kind)
		}
	default:
		return Plan{}, fmt.Errorf("%w: %T", core.ErrUnknownItemKind, item)
	}

	return plan, nil
}

// DecideGo returns the plan for committing rawQuery against its ranked
// result.
func DecideGo(result ranking.Result, rawQuery string, launchDelay time.Duration) (Plan, error) {
	if strings.TrimSpace(rawQuery) == "" {
		return Plan{Action: Primary}, nil
	}
	if first, ok := result.First(); ok {
		return Decide(first, Primary, launchDelay)
	}
	return DecideWebSearch(rawQuery), nil
}

// DecideWebSearch returns the plan for searching the web for query.
func DecideWebSearch(query string) Plan {
	return Plan{
		Action:  Primary,
		Effects: []Effect{requestEffect(webSearchRequest(query))},
	}
}

func requestEffect(req Request) Effect {
	return Effect{Kind: EffectRequest, Request: req}
}
