package response

import (
	"bytes"
	"errors"
	"iter"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

func TestCollectAndHandleDispatchOrder(t *testing.T) {
	var calls []string
	seq := slices.Values([]State[int]{
		Loading[int]{},
		Error[int]{Err: errors.New("first")},
		Loading[int]{},
		Success[int]{Data: 42},
	})

	CollectAndHandle(seq,
		func(v int) { calls = append(calls, "success") },
		WithOnLoading(func() { calls = append(calls, "loading") }),
		WithOnError(func(err error) { calls = append(calls, "error:"+err.Error()) }),
	)

	want := []string{"loading", "error:first", "loading", "success"}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Errorf("Dispatch mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectAndHandleUnwrapsSuccess(t *testing.T) {
	var got []string
	CollectAndHandle(slices.Values([]State[[]string]{Success[[]string]{Data: []string{"a", "b"}}}),
		func(v []string) { got = v })

	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Errorf("Success payload mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectAndHandleDefaultErrorLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)

	successCalled := false
	CollectAndHandle(slices.Values([]State[int]{Loading[int]{}, Error[int]{Err: errors.New("network down")}}),
		func(int) { successCalled = true },
		WithLogger(logger),
	)

	if successCalled {
		t.Error("onSuccess must not be called for an error stream")
	}
	if !strings.Contains(buf.String(), "network down") {
		t.Errorf("Default error handler should log the cause, got %q", buf.String())
	}
}

func TestCollectAndHandleIsSynchronous(t *testing.T) {
	var delivered []string
	var handled []string
	seq := iter.Seq[State[int]](func(yield func(State[int]) bool) {
		delivered = append(delivered, "loading")
		if !yield(Loading[int]{}) {
			return
		}
		// The loading handler must have run before the next value is produced
		if len(handled) != 1 {
			t.Errorf("Expected loading handled before success is produced, handled=%v", handled)
		}
		delivered = append(delivered, "success")
		yield(Success[int]{Data: 1})
	})

	CollectAndHandle(seq,
		func(int) { handled = append(handled, "success") },
		WithOnLoading(func() { handled = append(handled, "loading") }),
	)

	if diff := cmp.Diff(delivered, handled); diff != "" {
		t.Errorf("Handled order differs from delivery (-delivered +handled):\n%s", diff)
	}
}

func TestCollectAndHandlePropagatesHandlerPanic(t *testing.T) {
	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("Expected handler panic to propagate, got %v", r)
		}
	}()

	CollectAndHandle(slices.Values([]State[int]{Success[int]{Data: 1}}), func(int) { panic("boom") })
	t.Error("CollectAndHandle should not swallow handler panics")
}

func TestStateNameAndTerminal(t *testing.T) {
	tests := []struct {
		state    State[int]
		name     string
		terminal bool
	}{
		{Loading[int]{}, "loading", false},
		{Success[int]{Data: 1}, "success", true},
		{Error[int]{Err: errors.New("x")}, "error", true},
	}

	for _, tt := range tests {
		if got := Name[int](tt.state); got != tt.name {
			t.Errorf("Name() = %q, want %q", got, tt.name)
		}
		if got := IsTerminal[int](tt.state); got != tt.terminal {
			t.Errorf("IsTerminal(%s) = %v, want %v", tt.name, got, tt.terminal)
		}
	}
}
