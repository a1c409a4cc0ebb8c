package selection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/papapumpkin/qadash/internal/catalog"
)

func TestSetNotifiesOnIdenticalSelection(t *testing.T) {
	t.Parallel()

	s := New()
	var changes []Change
	s.Subscribe(func(c Change) { changes = append(changes, c) })

	s.Set("HSC-R", []string{"m1", "m2"})
	s.Set("HSC-R", []string{"m1", "m2"})

	require.Len(t, changes, 2)
	require.Equal(t, changes[0], changes[1])
	require.Equal(t, []string{"m1", "m2"}, s.Get("HSC-R"))
}

func TestSetCopiesInput(t *testing.T) {
	t.Parallel()

	s := New()
	in := []string{"a", "b"}
	s.Set("HSC-R", in)
	in[0] = "mutated"

	require.Equal(t, []string{"a", "b"}, s.Get("HSC-R"))
}

func TestAllIsDeepCopy(t *testing.T) {
	t.Parallel()

	s := New()
	s.Set("HSC-R", []string{"a"})
	s.Set("HSC-G", nil)

	all := s.All()
	all["HSC-R"][0] = "x"
	all["HSC-Z"] = []string{"y"}

	require.Equal(t, []string{"a"}, s.Get("HSC-R"))
	require.Empty(t, s.Get("HSC-Z"))
	require.Len(t, s.All(), 2)
}

func TestSubscribersRunInOrder(t *testing.T) {
	t.Parallel()

	s := New()
	var order []int
	s.Subscribe(func(Change) { order = append(order, 1) })
	unsub := s.Subscribe(func(Change) { order = append(order, 2) })
	s.Subscribe(func(Change) { order = append(order, 3) })

	s.Set(catalog.Category("HSC-I"), []string{"m"})
	unsub()
	s.Set(catalog.Category("HSC-I"), []string{"m"})

	require.Equal(t, []int{1, 2, 3, 1, 3}, order)
}

func TestReset(t *testing.T) {
	t.Parallel()

	s := New()
	calls := 0
	s.Subscribe(func(Change) { calls++ })
	s.Set("HSC-R", []string{"a"})
	s.Reset()

	require.Empty(t, s.All())
	require.Equal(t, 1, calls)
}
