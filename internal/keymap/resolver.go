package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Resolver maps key strings to actions.
type Resolver struct {
	bindings map[string]Action   // key -> action
	byAction map[Action][]string // action -> keys (for help/documentation)
	help     map[Action]string
}

// NewResolver creates a resolver from bindings.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		bindings: make(map[string]Action),
		byAction: make(map[Action][]string),
		help:     make(map[Action]string),
	}
	for _, b := range bindings {
		for _, k := range b.Keys {
			r.bindings[k] = b.Action
		}
		r.byAction[b.Action] = append(r.byAction[b.Action], b.Keys...)
		r.help[b.Action] = b.Description
	}
	for action, keys := range r.byAction {
		r.byAction[action] = dedupe(keys)
	}
	return r
}

// Resolve returns the action for a key, or empty string if not bound.
func (r *Resolver) Resolve(k string) Action {
	return r.bindings[k]
}

// KeysFor returns the keys bound to an action.
func (r *Resolver) KeysFor(action Action) []string {
	return r.byAction[action]
}

// KeyBinding returns a bubbles key binding for action, for use with
// key.Matches and the help bubble.
func (r *Resolver) KeyBinding(action Action) key.Binding {
	keys := r.byAction[action]
	if len(keys) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(displayKeys(keys), r.help[action]),
	)
}

// displayKeys renders keys for help, naming the space bar.
func displayKeys(keys []string) string {
	out := make([]string, len(keys))
	for i, k := range keys {
		if k == " " {
			k = "space"
		}
		out[i] = k
	}
	return strings.Join(out, "/")
}

func dedupe(s []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(s))
	for _, v := range s {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}

// ShortHelp implements help.KeyMap.
func (r *Resolver) ShortHelp() []key.Binding {
	return []key.Binding{
		r.KeyBinding(ActionPlayPause),
		r.KeyBinding(ActionNextTrack),
		r.KeyBinding(ActionSeekForward),
		r.KeyBinding(ActionToggleMicrophone),
		r.KeyBinding(ActionHelp),
		r.KeyBinding(ActionQuit),
	}
}

// FullHelp implements help.KeyMap, one column per context.
func (r *Resolver) FullHelp() [][]key.Binding {
	var cols [][]key.Binding
	for _, ctx := range Contexts {
		var col []key.Binding
		seen := make(map[Action]bool)
		for _, b := range ByContext(ctx) {
			if _, ok := r.byAction[b.Action]; !ok || seen[b.Action] {
				continue
			}
			seen[b.Action] = true
			col = append(col, r.KeyBinding(b.Action))
		}
		if len(col) > 0 {
			cols = append(cols, col)
		}
	}
	return cols
}
