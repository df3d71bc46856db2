package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewEnvClampsTodayToElectionDay(t *testing.T) {
	electionDay := NewDate(2024, time.November, 5)
	now := electionDay.AddDays(10).Time()
	env := NewEnv(time.UTC, now, electionDay, 4)
	assert.True(t, env.Today.Equal(electionDay))
	assert.Equal(t, 4, env.NumThreads)
}

func TestNewEnvBeforeElectionDayUsesNow(t *testing.T) {
	electionDay := NewDate(2024, time.November, 5)
	now := electionDay.AddDays(-3).Time()
	env := NewEnv(time.UTC, now, electionDay, 2)
	assert.True(t, env.Today.Equal(electionDay.AddDays(-3)))
}

func TestNewEnvDefaultsNilLocationAndThreads(t *testing.T) {
	electionDay := NewDate(2024, time.November, 5)
	env := NewEnv(nil, electionDay.Time(), electionDay, 0)
	assert.Equal(t, time.UTC, env.Location)
	assert.Equal(t, 8, env.NumThreads)
}
