package testkit

import (
	"context"
	"errors"

	"github.com/khabaroff/webtestkit/src/records"
)

// AssertScopesOut asserts that scope contains record before change runs and
// no longer contains it afterwards.
func AssertScopesOut(t TestingT, ctx context.Context, scope records.Scope, record any, change func(ctx context.Context, record any) error) bool {
	t.Helper()

	in, err := scope.Contains(ctx, record)
	if err != nil {
		t.Errorf("sanity check: scope lookup failed for %#v: %v", record, err)
		return false
	}
	if !in {
		t.Errorf("sanity check: scope doesn't include %#v", record)
		return false
	}

	if err := change(ctx, record); err != nil {
		t.Errorf("change to %#v failed: %v", record, err)
		return false
	}

	in, err = scope.Contains(ctx, record)
	if err != nil {
		t.Errorf("scope lookup failed for %#v: %v", record, err)
		return false
	}
	if in {
		t.Errorf("scope did not exclude %#v", record)
		return false
	}
	return true
}

// AssertDestroyed asserts that reloading each record fails with
// records.ErrNotFound.
func AssertDestroyed(t TestingT, ctx context.Context, recs ...records.Reloader) bool {
	t.Helper()

	ok := true
	for _, r := range recs {
		err := r.Reload(ctx)
		if !errors.Is(err, records.ErrNotFound) {
			t.Errorf("expected %#v to be destroyed, reload returned %v", r, err)
			ok = false
		}
	}
	return ok
}
