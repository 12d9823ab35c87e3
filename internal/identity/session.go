// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"encoding/json"
	"fmt"
)

// KeySession is where the session shadow is persisted.
const KeySession = "rm-user-storage"

// SessionState is the locally remembered user.
type SessionState struct {
	UserID          string
	IsAuthenticated bool
}

// persisted layout: {"state":{"userId":...,"isAuthenticated":...},"version":0}
type sessionEnvelope struct {
	State struct {
		UserID          *string `json:"userId"`
		IsAuthenticated bool    `json:"isAuthenticated"`
	} `json:"state"`
	Version int `json:"version"`
}

// Session persists a [SessionState].
type Session struct {
	store Store
}

// NewSession builds a Session over store.
func NewSession(store Store) *Session {
	return &Session{store: store}
}

// Load returns the stored state, or the zero state when nothing is stored.
func (session *Session) Load(context context.Context) (SessionState, error) {
	raw, ok, err := session.store.Get(context, KeySession)
	if err != nil || !ok {
		return SessionState{}, err
	}

	var envelope sessionEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return SessionState{}, fmt.Errorf("identity: decode session: %w", err)
	}

	state := SessionState{IsAuthenticated: envelope.State.IsAuthenticated}
	if envelope.State.UserID != nil {
		state.UserID = *envelope.State.UserID
	}
	return state, nil
}

// Stored reports whether a session has ever been saved, including a logged-out one.
func (session *Session) Stored(context context.Context) (bool, error) {
	_, ok, err := session.store.Get(context, KeySession)
	return ok, err
}

// SetUserID stores userID. The session counts as authenticated when it is non-empty.
func (session *Session) SetUserID(context context.Context, userID string) (SessionState, error) {
	state := SessionState{UserID: userID, IsAuthenticated: userID != ""}
	return state, session.save(context, state)
}

// Logout clears the stored user. The cleared state stays saved.
func (session *Session) Logout(context context.Context) error {
	return session.save(context, SessionState{})
}

func (session *Session) save(context context.Context, state SessionState) error {
	var envelope sessionEnvelope
	envelope.State.IsAuthenticated = state.IsAuthenticated
	if state.UserID != "" {
		envelope.State.UserID = &state.UserID
	}

	raw, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("identity: encode session: %w", err)
	}
	return session.store.Set(context, KeySession, string(raw))
}
