package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIDGeneratorIsStrictlyIncreasing(t *testing.T) {
	gen := NewIDGenerator(fixedClock)
	first := gen.Next()
	second := gen.Next()

	assert.Equal(t, "1706184000000", first)
	assert.Equal(t, "1706184000001", second)
}

func TestSimulatedRegistrarHonorsContext(t *testing.T) {
	r := NewSimulatedRegistrar(time.Hour, time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := r.Award(ctx, "1", "0xrecipient")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	fast := NewSimulatedRegistrar(0, 0)
	assert.NoError(t, fast.Register(context.Background(), *validForm(), creator))
}
