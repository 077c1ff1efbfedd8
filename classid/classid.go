// Package classid is the minimal, runtime stand-in for the build-time
// collaborator the core spec assumes: something that assigns each
// iso-poolable declaration a small, stable integer. The core pooling
// packages never import this package — only poolshark/containers does,
// exactly as an external collaborator should.
//
// A real build-time tool (code generation walking source locations, the
// way the original design's companion tool does) would hand out ids at
// compile time. Without one, this package hands them out at first use,
// keyed by a caller-chosen string token (conventionally
// "<package path>.<type name>"), and optionally persists the assignment
// to a JSON file so ids stay stable across restarts of a long-running
// process that otherwise has no reason to re-derive them.
package classid

import (
	"encoding/json"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/estokes/poolshark"
)

const maxClassID = 0xFFFF

var (
	mu        sync.Mutex
	byToken   = map[string]uint16{}
	byID      = map[uint16]string{}
	next      uint16
	persistTo string
)

// SetPersistPath configures classid to load existing assignments from,
// and save new ones to, the given JSON file. Passing "" (the default)
// disables persistence entirely: ids are assigned fresh every process
// start, which is fine for short-lived programs and tests.
func SetPersistPath(path string) error {
	mu.Lock()
	defer mu.Unlock()
	persistTo = path
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var loaded map[string]uint16
	if err := json.Unmarshal(data, &loaded); err != nil {
		return err
	}
	for token, id := range loaded {
		byToken[token] = id
		byID[id] = token
		if id >= next {
			next = id + 1
		}
	}
	return nil
}

// Assign returns the class id for token, assigning a fresh one on first
// use. ok is false once the 16-bit id space (minus the one value the
// Discriminant format reserves) is exhausted; per the spec, callers
// should treat that exactly like a Discriminant-constraint violation and
// fall back to the non-iso path.
func Assign(token string) (id uint16, ok bool) {
	mu.Lock()
	defer mu.Unlock()

	if id, exists := byToken[token]; exists {
		return id, true
	}
	if next >= maxClassID {
		poolshark.Logger().Debug("classid space exhausted", zap.String("token", token))
		return 0, false
	}
	id = next
	next++
	byToken[token] = id
	byID[id] = token
	if persistTo != "" {
		save()
	}
	return id, true
}

// Lookup returns the token registered for id, if any.
func Lookup(id uint16) (token string, ok bool) {
	mu.Lock()
	defer mu.Unlock()
	token, ok = byID[id]
	return token, ok
}

// Reset clears all assignments. Intended for tests; a production process
// should never need it.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	byToken = map[string]uint16{}
	byID = map[uint16]string{}
	next = 0
}

func save() {
	data, err := json.Marshal(byToken)
	if err != nil {
		poolshark.Logger().Debug("classid marshal failed", zap.Error(err))
		return
	}
	if err := os.WriteFile(persistTo, data, 0o644); err != nil {
		poolshark.Logger().Debug("classid persist failed", zap.Error(err))
	}
}
