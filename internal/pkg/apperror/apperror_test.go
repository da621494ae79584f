package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_WrappedChain(t *testing.T) {
	sentinel := NotFound("product not found")
	wrapped := fmt.Errorf("failed to add to cart: %w", sentinel)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, sentinel))
	assert.Equal(t, "product not found", Message(wrapped))
}

func TestKindOf_UnclassifiedIsInternal(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "Something went wrong", Message(err))
	assert.False(t, Is(nil, KindInternal))
}

func TestError_MessageIncludesCause(t *testing.T) {
	err := Upstream("payment provider unavailable", errors.New("timeout"))

	assert.Equal(t, "payment provider unavailable: timeout", err.Error())
	assert.True(t, Is(err, KindUpstream))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:   http.StatusUnprocessableEntity,
		KindNotFound:     http.StatusNotFound,
		KindUnauthorized: http.StatusForbidden,
		KindUpstream:     http.StatusBadGateway,
		KindInternal:     http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, HTTPStatus(kind), kind.String())
	}
}
