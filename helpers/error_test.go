package helpers

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestFoldErrors(t *testing.T) {
	t.Parallel()

	errFoo := errors.New("foo")
	assert.NoError(t, FoldErrors(nil))
	assert.NoError(t, FoldErrors([]error{nil, nil}))
	assert.Equal(t, errFoo, FoldErrors([]error{nil, errFoo}))
	assert.EqualError(t, FoldErrors([]error{errFoo, nil, errors.New("bar")}), "foo\nbar")
}
