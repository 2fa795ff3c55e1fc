package oskeyring

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	keyringlib "github.com/zalando/go-keyring"
)

func testService(t *testing.T, svc Service) {
	t.Helper()

	_, err := svc.Get(ServiceName, RecipientUser)
	assert.IsError(t, err, ErrNotFound)

	assert.NoError(t, svc.Set(ServiceName, RecipientUser, "age1abc"))
	got, err := svc.Get(ServiceName, RecipientUser)
	assert.NoError(t, err)
	assert.Equal(t, "age1abc", got)

	assert.NoError(t, svc.Delete(ServiceName, RecipientUser))
	_, err = svc.Get(ServiceName, RecipientUser)
	assert.IsError(t, err, ErrNotFound)

	assert.NoError(t, svc.Delete(ServiceName, RecipientUser))
}

func TestMemoryService(t *testing.T) {
	testService(t, NewMemoryService())
}

func TestDefaultServiceWithMockProvider(t *testing.T) {
	keyringlib.MockInit()
	testService(t, NewDefaultService())
}
