package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/gridscrape/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_TestAndAdd(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.TestAndAdd("https://www.modulargrid.net/e/make-noise/maths"), "first add is new")
	assert.True(t, f.TestAndAdd("https://www.modulargrid.net/e/make-noise/maths"), "second add is a repeat")
	assert.False(t, f.TestAndAdd("https://www.modulargrid.net/e/make-noise/rene"), "other URLs stay new")
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	// Lookups also add, so size for both sets.
	f := bloom.NewFilter(2000, 0.01)

	for i := range 1000 {
		f.TestAndAdd(fmt.Sprintf("https://www.modulargrid.net/e/added/%d", i))
	}

	falsePositives := 0
	for i := range 1000 {
		if f.TestAndAdd(fmt.Sprintf("https://www.modulargrid.net/e/other/%d", i)) {
			falsePositives++
		}
	}

	// 1% target rate; allow generous slack for the estimate.
	assert.Less(t, falsePositives, 50)
}
