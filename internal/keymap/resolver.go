package keymap

import (
	"slices"
	"strings"
)

// Resolver maps key strings to actions.
type Resolver struct {
	bindings  map[string]Action   // key -> action
	byAction  map[Action][]string // action -> keys, in binding order
	conflicts []string            // keys bound to more than one action
}

// NewResolver creates a resolver from bindings. When a key is bound to
// several actions the first binding wins and the key is reported by
// Conflicts.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		bindings: make(map[string]Action),
		byAction: make(map[Action][]string),
	}
	for _, b := range bindings {
		for _, key := range b.Keys {
			switch prev, ok := r.bindings[key]; {
			case !ok:
				r.bindings[key] = b.Action
			case prev != b.Action && !slices.Contains(r.conflicts, key):
				r.conflicts = append(r.conflicts, key)
			}
		}
		r.byAction[b.Action] = dedupe(append(r.byAction[b.Action], b.Keys...))
	}
	return r
}

// Resolve returns the action for a key, or empty string if not bound.
func (r *Resolver) Resolve(key string) Action {
	return r.bindings[key]
}

// KeysFor returns the keys bound to an action.
func (r *Resolver) KeysFor(action Action) []string {
	return r.byAction[action]
}

// Conflicts returns the keys bound to more than one action.
func (r *Resolver) Conflicts() []string {
	return r.conflicts
}

// Hint returns the display label of the first key bound to action, or ""
// when the action is unbound.
func (r *Resolver) Hint(action Action) string {
	keys := r.byAction[action]
	if len(keys) == 0 {
		return ""
	}
	return Label(keys[0])
}

// Label returns how a key is shown to the user.
func Label(key string) string {
	switch key {
	case " ":
		return "space"
	case "shift+left":
		return "shift+←"
	case "shift+right":
		return "shift+→"
	}
	return key
}

// Labels joins the display labels of keys.
func Labels(keys []string) string {
	labels := make([]string, len(keys))
	for i, k := range keys {
		labels[i] = Label(k)
	}
	return strings.Join(labels, ", ")
}

// dedupe removes repeated keys, keeping the first occurrence.
func dedupe(keys []string) []string {
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		if !slices.Contains(result, k) {
			result = append(result, k)
		}
	}
	return result
}
