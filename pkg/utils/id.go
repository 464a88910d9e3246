package utils

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

const (
	IDSeparator = "|"
	kvSeparator = "="
)

var (
	EmptyNameError   = errors.New("'name' is required")
	InvalidNameError = errors.New("'name' must not contain '|' or '='")
)

// CheckName reports whether name can be used as an entity label value.
func CheckName(name string) error {
	if len(name) == 0 {
		return EmptyNameError
	}
	if strings.ContainsAny(name, IDSeparator+kvSeparator) {
		return InvalidNameError
	}
	return nil
}

func formatKV(w io.Writer, key string, value string) (int, error) {
	return fmt.Fprintf(w, "%s%s%s", key, kvSeparator, value)
}

// EntityID identifies anything framestat registers: a kind plus a set of labels.
type EntityID struct {
	Kind   string
	Labels map[string]string
}

// NewLoggerID builds the entity ID of a telemetry logger within an instance.
func NewLoggerID(instance, name string) EntityID {
	return EntityID{
		Kind: "logger",
		Labels: map[string]string{
			"instance": instance,
			"name":     name,
		},
	}
}

// Canonical renders the ID as sorted key=value pairs joined by IDSeparator.
func (e EntityID) Canonical() string {
	keys := make([]string, 0, len(e.Labels)+1)
	for k := range e.Labels {
		if k == "kind" {
			continue
		}
		keys = append(keys, k)
	}
	keys = append(keys, "kind")
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString(IDSeparator)
		}
		if k == "kind" {
			formatKV(&b, k, e.Kind)
			continue
		}
		formatKV(&b, k, e.Labels[k])
	}
	return b.String()
}

func (e EntityID) String() string {
	return e.Canonical()
}

// Name returns the "name" label.
func (e EntityID) Name() string {
	return e.Labels["name"]
}

// ParseEntityID is the inverse of Canonical. Malformed pairs are skipped.
func ParseEntityID(str string) EntityID {
	e := EntityID{
		Labels: make(map[string]string),
	}
	if str == "" {
		return e
	}

	for label := range strings.SplitSeq(str, IDSeparator) {
		k, v, ok := strings.Cut(label, kvSeparator)
		if !ok {
			continue
		}
		if k == "kind" {
			e.Kind = v
			continue
		}
		e.Labels[k] = v
	}
	return e
}
