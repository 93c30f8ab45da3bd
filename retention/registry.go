package retention

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// LengthClass separates the clause tiers that carry their own models.
type LengthClass uint8

const (
	LengthShort LengthClass = iota
	LengthLong
)

var lengthClassNames = map[LengthClass]string{
	LengthShort: "short",
	LengthLong:  "long",
}

func (l LengthClass) String() string {
	if name, ok := lengthClassNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LengthClass(%d)", uint8(l))
}

// ParseLengthClass accepts "short" or "long".
func ParseLengthClass(s string) (LengthClass, error) {
	for l, name := range lengthClassNames {
		if name == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown length class %q; valid: [long, short]", s)
}

// MarshalText lets LengthClass appear as a string in YAML and JSON.
func (l LengthClass) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText parses the textual form produced by MarshalText.
func (l *LengthClass) UnmarshalText(b []byte) error {
	v, err := ParseLengthClass(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// ModelKey identifies one ensemble: the clause-length class it was trained
// for, the solver configuration variant and the feature-space cluster.
type ModelKey struct {
	Length  LengthClass
	Config  int
	Cluster int
}

// String renders the key as "long/conf0/cluster0".
func (k ModelKey) String() string {
	return fmt.Sprintf("%s/conf%d/cluster%d", k.Length, k.Config, k.Cluster)
}

// ParseModelKey parses the form produced by ModelKey.String.
func ParseModelKey(s string) (ModelKey, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return ModelKey{}, fmt.Errorf("invalid model key %q (expected <length>/conf<N>/cluster<N>)", s)
	}
	length, err := ParseLengthClass(parts[0])
	if err != nil {
		return ModelKey{}, fmt.Errorf("invalid model key %q: %w", s, err)
	}
	conf, err := parseIndexed(parts[1], "conf")
	if err != nil {
		return ModelKey{}, fmt.Errorf("invalid model key %q: %w", s, err)
	}
	cluster, err := parseIndexed(parts[2], "cluster")
	if err != nil {
		return ModelKey{}, fmt.Errorf("invalid model key %q: %w", s, err)
	}
	return ModelKey{Length: length, Config: conf, Cluster: cluster}, nil
}

func parseIndexed(s, prefix string) (int, error) {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok || rest == "" {
		return 0, fmt.Errorf("%q must look like %s<N>", s, prefix)
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 || strconv.Itoa(n) != rest {
		return 0, fmt.Errorf("%q must look like %s<N>", s, prefix)
	}
	return n, nil
}

// MarshalText lets ModelKey appear as a string in YAML and JSON.
func (k ModelKey) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText parses the textual form produced by MarshalText.
func (k *ModelKey) UnmarshalText(b []byte) error {
	v, err := ParseModelKey(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ErrUnknownModel is returned by Lookup for keys with no registered ensemble.
var ErrUnknownModel = errors.New("no ensemble registered for model key")

// registry is written by init() functions of model packages and only read
// afterwards.
var registry = struct {
	sync.RWMutex
	byKey map[ModelKey]*Ensemble
}{byKey: make(map[ModelKey]*Ensemble)}

// Register makes e available to Lookup. Registering the same key twice
// panics, since it means two compiled-in tables claim one model variant.
func Register(e *Ensemble) {
	registry.Lock()
	defer registry.Unlock()
	if _, dup := registry.byKey[e.Key]; dup {
		panic(fmt.Sprintf("ensemble %s registered twice", e.Key))
	}
	registry.byKey[e.Key] = e
}

// Lookup returns the ensemble registered under key.
func Lookup(key ModelKey) (*Ensemble, error) {
	registry.RLock()
	e, ok := registry.byKey[key]
	registry.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownModel, key, Keys())
	}
	return e, nil
}

// Keys returns the registered model keys sorted by length class,
// configuration and cluster.
func Keys() []ModelKey {
	registry.RLock()
	keys := make([]ModelKey, 0, len(registry.byKey))
	for k := range registry.byKey {
		keys = append(keys, k)
	}
	registry.RUnlock()
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Length != b.Length {
			return a.Length < b.Length
		}
		if a.Config != b.Config {
			return a.Config < b.Config
		}
		return a.Cluster < b.Cluster
	})
	return keys
}
