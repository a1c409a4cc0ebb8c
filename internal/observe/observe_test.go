package observe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotifyOrder(t *testing.T) {
	t.Parallel()

	var r Registry[int]
	var got []string
	r.Subscribe(func(v int) { got = append(got, "first") })
	r.Subscribe(func(v int) { got = append(got, "second") })
	r.Notify(1)

	require.Equal(t, []string{"first", "second"}, got)
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()

	var r Registry[string]
	calls := 0
	unsub := r.Subscribe(func(string) { calls++ })
	r.Notify("a")
	unsub()
	unsub()
	r.Notify("b")

	require.Equal(t, 1, calls)
	require.Zero(t, r.Len())
}

func TestUnsubscribeDuringNotify(t *testing.T) {
	t.Parallel()

	var r Registry[int]
	var calls []int
	var unsub func()
	unsub = r.Subscribe(func(v int) {
		calls = append(calls, v)
		unsub()
	})
	r.Subscribe(func(v int) { calls = append(calls, v*10) })

	r.Notify(1)
	r.Notify(2)
	require.Equal(t, []int{1, 10, 20}, calls)
}
