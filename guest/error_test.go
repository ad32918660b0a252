package guest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	assert.Equal(t, "get: bridge call failed", (&Error{Op: "get"}).Error())
	assert.Equal(t, "connect failed", (&Error{Op: "post", Message: "connect failed"}).Error())
}
