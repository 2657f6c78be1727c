// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"errors"
	"testing"
	"time"
)

// =============================================================================
// NewSpinner Tests
// =============================================================================

func TestNewSpinner_ReturnsNonNil(t *testing.T) {
	spin := NewSpinner("Loading...")
	if spin == nil {
		t.Fatal("NewSpinner returned nil")
	}
}

func TestNewSpinner_SetsMessage(t *testing.T) {
	spin := NewSpinner("Querying dashboard")
	if spin.message != "Querying dashboard" {
		t.Errorf("expected message 'Querying dashboard', got %q", spin.message)
	}
}

func TestNewSpinner_DefaultsToCompassType(t *testing.T) {
	spin := NewSpinner("Loading...")
	if spin.spinType != SpinnerCompass {
		t.Errorf("expected SpinnerCompass, got %v", spin.spinType)
	}
}

func TestSpinner_WithType(t *testing.T) {
	spin := NewSpinner("Loading...").WithType(SpinnerDots)
	if spin.spinType != SpinnerDots {
		t.Errorf("expected SpinnerDots, got %v", spin.spinType)
	}
}

// =============================================================================
// Start / Stop Tests
// =============================================================================

func TestSpinner_StartStop(t *testing.T) {
	spin := NewSpinner("Working")
	spin.Start()
	time.Sleep(150 * time.Millisecond)
	spin.Stop()
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	spin := NewSpinner("Never started")
	// Must not block or panic.
	spin.Stop()
}

func TestSpinner_DoubleStartIsSafe(t *testing.T) {
	spin := NewSpinner("Working")
	spin.Start()
	spin.Start()
	spin.Stop()
}

func TestSpinner_UpdateMessage(t *testing.T) {
	spin := NewSpinner("Phase one")
	spin.Start()
	spin.UpdateMessage("Phase two")
	spin.mu.Lock()
	msg := spin.message
	spin.mu.Unlock()
	spin.Stop()
	if msg != "Phase two" {
		t.Errorf("expected updated message, got %q", msg)
	}
}

func TestSpinner_PlainModeSkipsAnimation(t *testing.T) {
	SetPlain(true)
	defer SetPlain(false)

	spin := NewSpinner("Fetching")
	out := captureStderr(func() {
		spin.Start()
		spin.Stop()
	})
	if out != "Fetching...\n" {
		t.Errorf("expected plain message on stderr, got %q", out)
	}
}

// =============================================================================
// WithSpinner Tests
// =============================================================================

func TestWithSpinner_ReturnsFnError(t *testing.T) {
	want := errors.New("request failed")
	got := WithSpinner("Fetching", func() error { return want })
	if !errors.Is(got, want) {
		t.Errorf("expected wrapped error, got %v", got)
	}
}

func TestWithSpinner_NilOnSuccess(t *testing.T) {
	if err := WithSpinner("Fetching", func() error { return nil }); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}
