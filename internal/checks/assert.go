package checks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stretchr/testify/require"

	"github.com/renato0307/toolprobe/internal/domain"
)

// failNow is the panic value used to unwind a check after a require failure.
type failNow struct{}

// collector satisfies require.TestingT (and assert.TestingT) outside of a test.
type collector struct {
	failures []string
}

func (c *collector) Errorf(format string, args ...any) {
	c.failures = append(c.failures, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (c *collector) FailNow() {
	panic(failNow{})
}

func (c *collector) Helper() {}

// Assert adapts a testify-style block into a Check. assert failures are
// collected and reported together; a require failure stops the block.
// Any other panic propagates so the evaluator reports it as such.
func Assert(fn func(t require.TestingT, result *domain.RunResult, dir string)) domain.Check {
	return func(result *domain.RunResult, dir string) (err error) {
		c := &collector{}
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(failNow); !ok {
					panic(r)
				}
			}
			if len(c.failures) > 0 {
				err = errors.New(strings.Join(c.failures, "\n"))
			}
		}()

		fn(c, result, dir)
		return nil
	}
}
