package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, ListenTimeout, KindOf(New(ListenTimeout, nil)))
	assert.Equal(t, ConnectionError, KindOf(Errorf(ConnectionError, "server %s down", "api")))
	assert.Equal(t, Unclassified, KindOf(errors.New("plain")))
	assert.Equal(t, Unclassified, KindOf(nil))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("capture: %w", New(RecognitionError, errors.New("garbled")))
	assert.Equal(t, RecognitionError, KindOf(err))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "listen_timeout", New(ListenTimeout, nil).Error())
	assert.Equal(t, "connection_error: dial tcp", New(ConnectionError, errors.New("dial tcp")).Error())
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root")
	assert.ErrorIs(t, New(Unclassified, cause), cause)
}
