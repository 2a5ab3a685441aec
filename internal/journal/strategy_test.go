package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type presetValidator struct {
	known []string
}

func (v presetValidator) Validate(name string) bool {
	if name == "" || len(v.known) == 0 {
		return true
	}
	for _, k := range v.known {
		if k == name {
			return true
		}
	}
	return false
}

func TestCreateTrade_StrategyValidation(t *testing.T) {
	svc := newTestService(t)
	svc.SetStrategyValidator(presetValidator{known: []string{"Breakout"}})

	in := advancedInput("AAPL", 100, 120, 10, time.Now().UTC())
	in.Strategy = "Breakout"
	_, err := svc.CreateTrade(context.Background(), "u", in)
	require.NoError(t, err)

	in.Strategy = "Astrology"
	_, err = svc.CreateTrade(context.Background(), "u", in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")

	// blank labels stay legal
	in.Strategy = ""
	_, err = svc.CreateTrade(context.Background(), "u", in)
	require.NoError(t, err)
}

func TestCreateTrade_FreeTextWithoutValidator(t *testing.T) {
	svc := newTestService(t)
	in := advancedInput("AAPL", 100, 120, 10, time.Now().UTC())
	in.Strategy = "Anything Goes"
	_, err := svc.CreateTrade(context.Background(), "u", in)
	require.NoError(t, err)
}
