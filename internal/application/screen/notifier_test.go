package screen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nbfc/backoffice/internal/domain/shared"
	"github.com/nbfc/backoffice/internal/infrastructure/restclient"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestToasts_KeepsLastN(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewToasts(3, zap.New(core))
	for i := 0; i < 5; i++ {
		n.Notify(Toast{Level: LevelSuccess, Message: fmt.Sprintf("t%d", i)})
	}
	n.Notify(Toast{Level: LevelError, Message: "boom"})

	recent := n.Recent()
	assert.Len(t, recent, 3)
	assert.Equal(t, "t3", recent[0].Message)
	assert.Equal(t, "boom", recent[2].Message)
	assert.False(t, recent[2].At.IsZero())
	assert.Equal(t, 6, logs.Len())
	assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestMessage(t *testing.T) {
	httpErr := fmt.Errorf("wrapped: %w", restclient.NewHTTPError(400, []byte(`{"message":"bad mobile"}`)))
	assert.Equal(t, "bad mobile", Message(httpErr))
	assert.Equal(t, "no rows", Message(shared.ErrNotFound.WithMessage("no rows")))
	assert.Equal(t, "plain", Message(errors.New("plain")))
}
