package memory

import (
	"context"
	"errors"
	"sync"
)

// Objects is an in-process object store. URLs are "mem://<key>".
type Objects struct {
	mu      sync.Mutex
	objects map[string][]byte
	// FailAfter makes the n+1th upload fail when positive.
	FailAfter int
	uploads   int
}

func NewObjects() *Objects {
	return &Objects{objects: map[string][]byte{}}
}

func (o *Objects) Upload(_ context.Context, key string, content []byte, _ string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.FailAfter > 0 && o.uploads >= o.FailAfter {
		return "", errors.New("upload rejected")
	}
	o.uploads++
	o.objects[key] = append([]byte(nil), content...)
	return "mem://" + key, nil
}

func (o *Objects) Delete(_ context.Context, key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.objects, key)
	return nil
}

func (o *Objects) Keys() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	keys := make([]string, 0, len(o.objects))
	for k := range o.objects {
		keys = append(keys, k)
	}
	return keys
}
