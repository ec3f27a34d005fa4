package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_Resolve(t *testing.T) {
	t.Run("any requirement returns a host from the pool", func(t *testing.T) {
		// arrange
		pool := NewPool(
			&Host{Name: "linux-1", Hostname: "ci-1.internal", Labels: []string{"linux"}},
			&Host{Name: "win-1", Hostname: "ci-2.internal", Labels: []string{"windows"}},
		)

		// act
		host, err := pool.Resolve(AnyAgent())

		// assert
		assert.NoError(t, err)
		assert.NotNil(t, host)
	})

	t.Run("any requirement fails on empty pool", func(t *testing.T) {
		pool := NewPool()

		host, err := pool.Resolve(AnyAgent())

		assert.Nil(t, host)
		assert.ErrorIs(t, err, ErrNoAgentsAvailable)
	})

	t.Run("label requirement binds a host advertising the label", func(t *testing.T) {
		pool := NewPool(
			&Host{Name: "linux-1", Hostname: "ci-1.internal", Labels: []string{"linux"}},
			&Host{Name: "win-1", Hostname: "ci-2.internal", Labels: []string{"windows", "msvc"}},
		)

		host, err := pool.Resolve(RequireLabel("windows"))

		assert.NoError(t, err)
		assert.Equal(t, "win-1", host.Name)
	})

	t.Run("label requirement never binds a host lacking the label", func(t *testing.T) {
		pool := NewPool(
			&Host{Name: "linux-1", Hostname: "ci-1.internal", Labels: []string{"linux"}},
		)

		host, err := pool.Resolve(RequireLabel("windows"))

		assert.Nil(t, host)
		var noMatch NoMatchingAgentError
		assert.ErrorAs(t, err, &noMatch)
		assert.Equal(t, "windows", noMatch.Label)
	})

	t.Run("resolution is memoryless across stages", func(t *testing.T) {
		pool := NewPool(
			&Host{Name: "linux-1", Hostname: "ci-1.internal", Labels: []string{"linux"}},
		)

		first, err := pool.Resolve(RequireLabel("linux"))
		assert.NoError(t, err)
		pool.Release(first)

		second, err := pool.Resolve(RequireLabel("linux"))
		assert.NoError(t, err)
		assert.Equal(t, first.Name, second.Name)
	})

	t.Run("an occupied host is not double-booked", func(t *testing.T) {
		pool := NewPool(
			&Host{Name: "linux-1", Hostname: "ci-1.internal", Labels: []string{"linux"}},
		)

		_, err := pool.Resolve(RequireLabel("linux"))
		assert.NoError(t, err)

		_, err = pool.Resolve(RequireLabel("linux"))
		var noMatch NoMatchingAgentError
		assert.ErrorAs(t, err, &noMatch)
	})
}
