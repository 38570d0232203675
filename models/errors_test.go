package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsCode_WrappedChain(t *testing.T) {
	inner := NewExtractError(ErrCodeNavigation, "nav fail", errors.New("tcp reset"))
	outer := fmt.Errorf("loading page: %w", inner)

	if !IsCode(outer, ErrCodeNavigation) {
		t.Error("expected NAVIGATION_FAILED to be found through the wrap chain")
	}
	if IsCode(outer, ErrCodePersistence) {
		t.Error("unrelated code must not match")
	}
	if IsCode(nil, ErrCodeNavigation) {
		t.Error("nil error must not match any code")
	}
}

func TestExtractError_Message(t *testing.T) {
	err := NewExtractError(ErrCodeModelNotFound, "no page for 982", nil)
	want := "MODEL_NOT_FOUND: no page for 982"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
