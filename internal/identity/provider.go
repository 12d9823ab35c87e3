// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"math/rand/v2"
	"strconv"
	"sync"

	"github.com/taibuivan/rickdex/internal/platform/clock"
)

// KeyUserID is where the anonymous identifier is persisted.
const KeyUserID = "rm_user_id"

const (
	suffixLength = 7
	base36       = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Provider hands out the anonymous user identifier for this machine.
type Provider struct {
	store Store
	clock clock.Clock

	mu sync.Mutex
}

// NewProvider builds a Provider over store.
func NewProvider(store Store, clk clock.Clock) *Provider {
	return &Provider{store: store, clock: clk}
}

/*
UserID returns the persisted identifier, creating it on first use.

The identifier has the form user_<unix millis>_<7 base36 chars>. It is never
rotated.
*/
func (provider *Provider) UserID(context context.Context) (string, error) {
	provider.mu.Lock()
	defer provider.mu.Unlock()

	id, ok, err := provider.store.Get(context, KeyUserID)
	if err != nil {
		return "", err
	}
	if ok && id != "" {
		return id, nil
	}

	id = provider.generate()
	if err := provider.store.Set(context, KeyUserID, id); err != nil {
		return "", err
	}
	return id, nil
}

func (provider *Provider) generate() string {
	suffix := make([]byte, suffixLength)
	for i := range suffix {
		suffix[i] = base36[rand.IntN(len(base36))]
	}
	return "user_" + strconv.FormatInt(provider.clock.Now().UnixMilli(), 10) + "_" + string(suffix)
}
